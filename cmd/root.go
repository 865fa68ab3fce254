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
	"os"
	"runtime"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flamefront",
	Short: "Finite element solvers for a thermo-diffusive flame and a Poisson check problem",
	Long: `
Solves the coupled temperature / concentration flame model with BDF2 in time, using either
Newton's method or Jacobian-free Newton-Krylov, and a Poisson problem with a known solution.

flamefront flame -I flame.yaml
flamefront poisson`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flamefront.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "logging level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the working directory")
	rootCmd.PersistentFlags().Int("procs", runtime.NumCPU(), "number of partitions used for assembly")
	for _, name := range []string{"log-level", "profile", "procs"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Warnf("unable to locate home directory: %v", err)
		} else {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".flamefront")
	}
	viper.SetEnvPrefix("FLAMEFRONT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

func setup(cmd *cobra.Command, args []string) (err error) {
	var level log.Level
	if level, err = log.ParseLevel(viper.GetString("log-level")); err != nil {
		return
	}
	log.SetLevel(level)
	switch mode := viper.GetString("profile"); mode {
	case "":
	case "cpu":
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		err = fmt.Errorf("unknown profile mode %q, use cpu or mem", mode)
	}
	return
}

func procLimit() (ProcLimit int) {
	if ProcLimit = viper.GetInt("procs"); ProcLimit < 1 {
		ProcLimit = 1
	}
	return
}
