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
	"github.com/oceanmetrics/oceanmetrics/jobfile"
	"github.com/oceanmetrics/oceanmetrics/runs"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Evaluate diagnostics across every run in a parameter file",
	Long: `Reads a parameter file (CSV with an "id" column, one row per simulator
run), resolves each run's output file from the job's Input pattern, and
reports one scalar per metric per run: the maximum magnitude of the
diagnostic over the snapshot.

The job file needs Input (a pattern containing %s for the run id), Params
and Metrics, e.g.:

    Title: "Sweep"
    Input: "runs/%s.nc"
    Params: "parameters.txt"
    Metrics: [vorticity, speed]
    Workers: 4`,
	Run: func(cmd *cobra.Command, args []string) {
		j := jobFromFlags(cmd)
		if pf, _ := cmd.Flags().GetString("params"); pf != "" {
			j.Params = pf
		}
		if cmd.Flags().Changed("workers") {
			j.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if err := j.Validate(); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if j.Params == "" {
			fmt.Println("error: batch needs a parameter file (--params or the job's Params field)")
			os.Exit(1)
		}
		if err := RunBatch(j); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("job", "j", "", "YAML job file; other flags override its fields")
	batchCmd.Flags().StringP("input", "i", "", "output file pattern with %s for the run id")
	batchCmd.Flags().StringP("params", "p", "", "parameter file listing the runs")
	batchCmd.Flags().IntP("time", "t", 0, "time index of the snapshot to read")
	batchCmd.Flags().StringSliceP("metrics", "m", []string{"vorticity", "speed"}, "diagnostics to evaluate")
	batchCmd.Flags().IntP("workers", "w", 1, "number of runs evaluated concurrently")
}

// RunBatch applies the job's metrics to every run in the parameter table
// and prints one row per run.
func RunBatch(j *jobfile.Job) error {
	table, err := runs.LoadTable(j.Params)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"params":  j.Params,
		"runs":    len(table),
		"metrics": j.Metrics,
		"workers": j.Workers,
	}).Info("starting batch evaluation")

	cols := make([][]float64, len(j.Metrics))
	for mi, name := range j.Metrics {
		m := batchMetric(j, name)
		if j.Workers > 1 {
			cols[mi], err = table.ApplyParallel(m, j.Workers)
		} else {
			cols[mi], err = table.Apply(m)
		}
		if err != nil {
			return err
		}
	}

	fmt.Printf("%-16s", "id")
	for _, name := range j.Metrics {
		fmt.Printf("%16s", name)
	}
	fmt.Println()
	for ri, r := range table {
		fmt.Printf("%-16s", r.ID)
		for mi := range j.Metrics {
			fmt.Printf("%16.8g", cols[mi][ri])
		}
		fmt.Println()
	}
	return nil
}

// batchMetric reduces one diagnostic of one run to a scalar, the maximum
// magnitude over the snapshot.
func batchMetric(j *jobfile.Job, name string) runs.Metric {
	return func(r runs.Run) (float64, error) {
		path := fmt.Sprintf(j.Input, r.ID)
		ds, err := dataset.Open(path)
		if err != nil {
			return 0, err
		}
		defer ds.Close()
		res, err := computeMetric(ds, j.TimeIndex, name)
		if err != nil {
			return 0, err
		}
		return res.Field.Data.AbsMax(), nil
	}
}
