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
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a simulator output file",
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			fmt.Println("error: info needs --input")
			os.Exit(1)
		}
		ds, err := dataset.Open(input)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		defer ds.Close()
		logrus.WithFields(ds.Summary()).Info("dataset")
		g := ds.Grid()
		fmt.Printf("[%d x %d x %d]\t= grid cells (nx, ny, nz)\n", g.Nx, g.Ny, g.Nz)
		fmt.Printf("[%g, %g]\t= x extent\n", g.XF[0], g.XF[g.Nx])
		fmt.Printf("[%g, %g]\t= y extent\n", g.YF[0], g.YF[g.Ny])
		fmt.Printf("[%g, %g]\t= z extent\n", g.ZF[0], g.ZF[g.Nz])
		fmt.Printf("%v\t= variables\n", ds.Variables())
		ts := ds.Times()
		if len(ts) > 0 {
			fmt.Printf("[%d snapshots, t = %g .. %g]\n", len(ts), ts[0], ts[len(ts)-1])
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("input", "i", "", "simulator output file in NetCDF format")
}
