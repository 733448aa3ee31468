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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oceanmetrics/oceanmetrics/dataset"
	"github.com/oceanmetrics/oceanmetrics/metrics"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Error norms of a field against a reference file",
	Long: `Computes the pointwise difference and the L1, L2 and Linf error norms
between the same variable in two files, e.g. a model run and a known
solution.`,
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		ref, _ := cmd.Flags().GetString("reference")
		variable, _ := cmd.Flags().GetString("variable")
		tIdx, _ := cmd.Flags().GetInt("time")
		output, _ := cmd.Flags().GetString("output")
		if input == "" || ref == "" || variable == "" {
			fmt.Println("error: compare needs --input, --reference and --variable")
			os.Exit(1)
		}
		if err := RunCompare(input, ref, variable, tIdx, output); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringP("input", "i", "", "simulator output file in NetCDF format")
	compareCmd.Flags().StringP("reference", "r", "", "reference file with the known field")
	compareCmd.Flags().StringP("variable", "v", "", "variable to compare")
	compareCmd.Flags().IntP("time", "t", 0, "time index of the snapshot to read")
	compareCmd.Flags().StringP("output", "o", "", "write the difference field to this .ncf file")
}

// RunCompare loads the same variable from two files and reports the error
// norms of their difference.
func RunCompare(input, ref, variable string, tIdx int, output string) error {
	ds, err := dataset.Open(input)
	if err != nil {
		return err
	}
	defer ds.Close()
	rds, err := dataset.Open(ref)
	if err != nil {
		return err
	}
	defer rds.Close()

	got, err := ds.Load(variable, tIdx)
	if err != nil {
		return err
	}
	want, err := rds.Load(variable, tIdx)
	if err != nil {
		return err
	}
	r, err := metrics.Compare(got, want)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"variable": variable,
		"l1":       r.Scalars["l1"],
		"l2":       r.Scalars["l2"],
		"linf":     r.Scalars["linf"],
	}).Info("compared against reference")
	if output != "" {
		return dataset.Write(output, ds.Grid(), []*metrics.Result{r})
	}
	return nil
}
