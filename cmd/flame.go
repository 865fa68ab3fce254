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
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/flamefront/InputParameters"
	"github.com/notargets/flamefront/model_problems/Flame2D"
)

type FlameModel struct {
	ICFile    string
	Graph     bool
	PlotSteps int
	Delay     time.Duration
}

const flameExample = `
########################################
Title: "Flame in a channel"
Le: 1
Alpha: 0.8
Beta: 10
Kappa: 0.1
X1: 9
Tau: 0.5
FinalTime: 60
Nx: 30
Ny: 8
InitRefNum: 1
JFNK: false
Preconditioner: jacobian # none, jacobian or approx, used with JFNK
BCs:
  Left: Dirichlet
  Right: Outflow
  Top: Neumann
  Bottom: Neumann
########################################
`

// FlameCmd represents the flame command
var FlameCmd = &cobra.Command{
	Use:   "flame",
	Short: "Thermo-diffusive flame propagating along a cooled channel",
	Long: `Thermo-diffusive flame propagating along a cooled channel, input file in YAML or INI format
Example File:` + flameExample,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		fm := &FlameModel{}
		fm.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		fm.Graph, _ = cmd.Flags().GetBool("graph")
		fm.PlotSteps, _ = cmd.Flags().GetInt("plotSteps")
		dr, _ := cmd.Flags().GetInt("delay")
		fm.Delay = time.Duration(dr) * time.Millisecond
		var ip *InputParameters.FlameParameters
		if ip, err = processFlameInput(cmd, fm); err != nil {
			return
		}
		return RunFlame(fm, ip)
	},
}

func init() {
	rootCmd.AddCommand(FlameCmd)
	addFlameFlags(FlameCmd)
}

func addFlameFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputConditionsFile", "I", "", "YAML (or .ini) file for input parameters, defaults apply when omitted")
	cmd.Flags().BoolP("graph", "g", false, "display the centreline temperature and concentration while computing")
	cmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	cmd.Flags().IntP("plotSteps", "s", 1, "number of steps before plotting each frame")
	cmd.Flags().Bool("jfnk", false, "use Jacobian-free Newton-Krylov, overrides the input file")
	cmd.Flags().String("precond", "", "JFNK preconditioner: none, jacobian or approx, overrides the input file")
	cmd.Flags().Bool("lag", false, "evaluate the reaction on the previous time level, overrides the input file")
}

func processFlameInput(cmd *cobra.Command, fm *FlameModel) (ip *InputParameters.FlameParameters, err error) {
	ip = InputParameters.NewFlameParameters()
	if len(fm.ICFile) != 0 {
		if err = InputParameters.ReadFile(fm.ICFile, ip); err != nil {
			return
		}
	}
	flags := cmd.Flags()
	if flags.Changed("jfnk") {
		ip.JFNK, _ = flags.GetBool("jfnk")
	}
	if flags.Changed("precond") {
		ip.Preconditioner, _ = flags.GetString("precond")
	}
	if flags.Changed("lag") {
		ip.LagReaction, _ = flags.GetBool("lag")
	}
	if err = ip.Validate(); err != nil {
		err = fmt.Errorf("flame input: %w", err)
	}
	return
}

func RunFlame(fm *FlameModel, ip *InputParameters.FlameParameters) (err error) {
	ip.Print()
	var f *Flame2D.Flame
	if f, err = Flame2D.NewFlame(ip, procLimit()); err != nil {
		return
	}
	pm := &Flame2D.PlotMeta{
		Plot:            fm.Graph,
		FrameTime:       fm.Delay,
		StepsBeforePlot: fm.PlotSteps,
	}
	return f.Solve(pm)
}
