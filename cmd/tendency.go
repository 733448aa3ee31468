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

	"github.com/spf13/cobra"

	"github.com/oceanmetrics/oceanmetrics/dataset"
	"github.com/oceanmetrics/oceanmetrics/metrics"
)

// tendencyCmd represents the tendency command
var tendencyCmd = &cobra.Command{
	Use:   "tendency",
	Short: "Time derivative of a field between two snapshots",
	Long: `Computes the finite difference time derivative of a variable between
two time indices of the same file.`,
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		variable, _ := cmd.Flags().GetString("variable")
		t1, _ := cmd.Flags().GetInt("t1")
		t2, _ := cmd.Flags().GetInt("t2")
		output, _ := cmd.Flags().GetString("output")
		if input == "" || variable == "" {
			fmt.Println("error: tendency needs --input and --variable")
			os.Exit(1)
		}
		if err := RunTendency(input, variable, t1, t2, output); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tendencyCmd)
	tendencyCmd.Flags().StringP("input", "i", "", "simulator output file in NetCDF format")
	tendencyCmd.Flags().StringP("variable", "v", "", "variable to differentiate")
	tendencyCmd.Flags().Int("t1", 0, "earlier time index")
	tendencyCmd.Flags().Int("t2", 1, "later time index")
	tendencyCmd.Flags().StringP("output", "o", "", "write the tendency field to this .ncf file")
}

// RunTendency differentiates one variable in time between two snapshots.
func RunTendency(input, variable string, t1, t2 int, output string) error {
	ds, err := dataset.Open(input)
	if err != nil {
		return err
	}
	defer ds.Close()

	a, err := ds.Snapshot(variable, t1)
	if err != nil {
		return err
	}
	b, err := ds.Snapshot(variable, t2)
	if err != nil {
		return err
	}
	r, err := metrics.Tendency(a, b)
	if err != nil {
		return err
	}
	logResult(r)
	if output != "" {
		return dataset.Write(output, ds.Grid(), []*metrics.Result{r})
	}
	return nil
}
