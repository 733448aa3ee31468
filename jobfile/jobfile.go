// Package jobfile holds the YAML description of a diagnostics job.
package jobfile

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Job parameters obtained from the YAML input file
type Job struct {
	Title     string   `yaml:"Title"`
	Input     string   `yaml:"Input"`     // NetCDF file, or a pattern with %s for batch run ids
	TimeIndex int      `yaml:"TimeIndex"` // snapshot to read
	Metrics   []string `yaml:"Metrics"`   // any of: vorticity, speed
	Variable  string   `yaml:"Variable"`  // variable for compare/tendency
	Reference string   `yaml:"Reference"` // reference NetCDF file for compare
	Output    string   `yaml:"Output"`    // optional .ncf output path
	Params    string   `yaml:"Params"`    // parameter file for batch jobs
	Workers   int      `yaml:"Workers"`   // batch parallelism, 0 = sequential
}

func (j *Job) Parse(data []byte) error {
	return yaml.Unmarshal(data, j)
}

var knownMetrics = map[string]bool{"vorticity": true, "speed": true}

// Validate checks the fields every job needs.
func (j *Job) Validate() error {
	if j.Input == "" {
		return fmt.Errorf("jobfile: no Input file given")
	}
	if j.TimeIndex < 0 {
		return fmt.Errorf("jobfile: negative TimeIndex %d", j.TimeIndex)
	}
	for _, m := range j.Metrics {
		if !knownMetrics[m] {
			known := make([]string, 0, len(knownMetrics))
			for k := range knownMetrics {
				known = append(known, k)
			}
			sort.Strings(known)
			return fmt.Errorf("jobfile: unknown metric %q, known: %v", m, known)
		}
	}
	return nil
}

func (j *Job) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", j.Title)
	fmt.Printf("[%s]\t\t= Input\n", j.Input)
	fmt.Printf("[%d]\t\t\t= TimeIndex\n", j.TimeIndex)
	fmt.Printf("%v\t= Metrics\n", j.Metrics)
	if j.Variable != "" {
		fmt.Printf("[%s]\t\t= Variable\n", j.Variable)
	}
	if j.Reference != "" {
		fmt.Printf("[%s]\t\t= Reference\n", j.Reference)
	}
	if j.Output != "" {
		fmt.Printf("[%s]\t\t= Output\n", j.Output)
	}
}
