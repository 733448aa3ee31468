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
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/oceanmetrics/oceanmetrics/dataset"
	"github.com/oceanmetrics/oceanmetrics/field"
	"github.com/oceanmetrics/oceanmetrics/jobfile"
	"github.com/oceanmetrics/oceanmetrics/metrics"
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute derived diagnostics from one snapshot",
	Long: `Computes the requested diagnostics (vorticity, speed) from one time
snapshot of a simulator output file, optionally writing them to a NetCDF
file.`,
	Run: func(cmd *cobra.Command, args []string) {
		j := jobFromFlags(cmd)
		if err := j.Validate(); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		j.Print()
		if err := RunCompute(j); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(computeCmd)
	computeCmd.Flags().StringP("job", "j", "", "YAML job file; other flags override its fields")
	computeCmd.Flags().StringP("input", "i", "", "simulator output file in NetCDF format")
	computeCmd.Flags().IntP("time", "t", 0, "time index of the snapshot to read")
	computeCmd.Flags().StringSliceP("metrics", "m", []string{"vorticity", "speed"}, "diagnostics to compute")
	computeCmd.Flags().StringP("output", "o", "", "write derived fields to this .ncf file")
}

// jobFromFlags builds the job description from the optional YAML job file
// plus flag overrides.
func jobFromFlags(cmd *cobra.Command) (j *jobfile.Job) {
	j = &jobfile.Job{}
	if jf, _ := cmd.Flags().GetString("job"); jf != "" {
		data, err := ioutil.ReadFile(jf)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = j.Parse(data); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	if in, _ := cmd.Flags().GetString("input"); in != "" {
		j.Input = in
	}
	if cmd.Flags().Changed("time") {
		j.TimeIndex, _ = cmd.Flags().GetInt("time")
	}
	if cmd.Flags().Changed("metrics") {
		j.Metrics, _ = cmd.Flags().GetStringSlice("metrics")
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		j.Output = out
	}
	return
}

// RunCompute executes a diagnostics job against a single dataset.
func RunCompute(j *jobfile.Job) error {
	ds, err := dataset.Open(j.Input)
	if err != nil {
		return err
	}
	defer ds.Close()
	logrus.WithFields(ds.Summary()).Info("opened dataset")

	results, err := computeMetrics(ds, j)
	if err != nil {
		return err
	}
	for _, r := range results {
		logResult(r)
	}
	if j.Output != "" {
		if err := dataset.Write(j.Output, ds.Grid(), results); err != nil {
			return err
		}
		logrus.WithField("path", j.Output).Info("wrote derived fields")
	}
	return nil
}

// computeMetrics evaluates the job's metric list against one dataset.
func computeMetrics(ds *dataset.Dataset, j *jobfile.Job) ([]*metrics.Result, error) {
	var results []*metrics.Result
	for _, name := range j.Metrics {
		r, err := computeMetric(ds, j.TimeIndex, name)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

func computeMetric(ds *dataset.Dataset, tIdx int, name string) (*metrics.Result, error) {
	u, err := ds.Load("u", tIdx)
	if err != nil {
		return nil, err
	}
	v, err := ds.Load("v", tIdx)
	if err != nil {
		return nil, err
	}
	switch name {
	case "vorticity":
		return metrics.Vorticity(u, v)
	case "speed":
		w, err := loadOptional(ds, "w", tIdx)
		if err != nil {
			return nil, err
		}
		return metrics.Speed(u, v, w)
	}
	return nil, fmt.Errorf("unknown metric %q", name)
}

func loadOptional(ds *dataset.Dataset, name string, tIdx int) (*field.Field, error) {
	for _, v := range ds.Variables() {
		if v == name {
			return ds.Load(name, tIdx)
		}
	}
	return nil, nil
}

func logResult(r *metrics.Result) {
	fields := logrus.Fields{}
	if r.Field != nil {
		fields["field"] = r.Field.Name
		fields["min"] = floats.Min(r.Field.Data.Elements)
		fields["max"] = floats.Max(r.Field.Data.Elements)
	}
	for k, v := range r.Scalars {
		fields[k] = v
	}
	logrus.WithFields(fields).Info("computed diagnostic")
}
