/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/flamefront/InputParameters"
	"github.com/notargets/flamefront/model_problems/Poisson2D"
)

// PoissonCmd represents the poisson command
var PoissonCmd = &cobra.Command{
	Use:   "poisson",
	Short: "Poisson problem with exact solution x^2+y^2, solved with Newton and JFNK",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ip := InputParameters.NewPoissonParameters()
		if fileName, _ := cmd.Flags().GetString("inputConditionsFile"); len(fileName) != 0 {
			if err = InputParameters.ReadFile(fileName, ip); err != nil {
				return
			}
		}
		if cmd.Flags().Changed("refine") {
			ip.InitRefNum, _ = cmd.Flags().GetInt("refine")
		}
		ip.Print()
		var p *Poisson2D.Poisson
		if p, err = Poisson2D.NewPoisson(ip, procLimit()); err != nil {
			return
		}
		newton, jfnk, err := p.Run()
		if err != nil {
			return
		}
		fmt.Println(newton)
		fmt.Println(jfnk)
		return
	},
}

func init() {
	rootCmd.AddCommand(PoissonCmd)
	PoissonCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML (or .ini) file for input parameters, defaults apply when omitted")
	PoissonCmd.Flags().IntP("refine", "r", 1, "number of uniform refinements of the initial grid")
}
