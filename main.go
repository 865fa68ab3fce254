package main

import "github.com/notargets/flamefront/cmd"

func main() {
	cmd.Execute()
}
