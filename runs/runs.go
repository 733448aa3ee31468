// Package runs evaluates metrics across a collection of simulator runs
// listed in a parameter file. Runs are independent, so batch evaluation may
// be spread over workers; result order always follows table order.
package runs

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

// Run identifies one simulator run: its id plus any extra parameter
// columns from the table.
type Run struct {
	ID     string
	Params map[string]string
}

// Table is an ordered list of runs read from a parameter file.
type Table []Run

// Metric evaluates one scalar diagnostic for one run.
type Metric func(Run) (float64, error)

// LoadTable reads a parameter file: CSV with a header row that must contain
// an "id" column. Remaining columns become per-run parameters.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("runs: opening %s: %w", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("runs: reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("runs: %s: empty parameter file", path)
	}
	header := rows[0]
	idCol := -1
	for i, h := range header {
		if h == "id" {
			idCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("runs: %s: no \"id\" column in header %v", path, header)
	}
	t := make(Table, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := Run{ID: row[idCol], Params: make(map[string]string)}
		for i, v := range row {
			if i != idCol && i < len(header) {
				r.Params[header[i]] = v
			}
		}
		t = append(t, r)
	}
	return t, nil
}

// ApplyEach evaluates a list of metrics for a single run, in order.
func ApplyEach(r Run, ms []Metric) ([]float64, error) {
	vals := make([]float64, len(ms))
	for i, m := range ms {
		v, err := m(r)
		if err != nil {
			return nil, fmt.Errorf("runs: run %s: %w", r.ID, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Apply evaluates one metric for every run in the table, sequentially,
// returning one value per run in table order.
func (t Table) Apply(m Metric) ([]float64, error) {
	vals := make([]float64, len(t))
	for i, r := range t {
		v, err := m(r)
		if err != nil {
			return nil, fmt.Errorf("runs: run %s: %w", r.ID, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// ApplyParallel is Apply with the table partitioned across workers. Each
// worker owns a contiguous bucket of runs and writes into its own slots, so
// output order matches table order for any worker count.
func (t Table) ApplyParallel(m Metric, workers int) ([]float64, error) {
	if len(t) == 0 {
		return nil, nil
	}
	pm := NewPartitionMap(workers, len(t))
	vals := make([]float64, len(t))
	errs := make([]error, pm.ParallelDegree)
	var wg sync.WaitGroup
	for n := 0; n < pm.ParallelDegree; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(n)
			for k := kMin; k < kMax; k++ {
				v, err := m(t[k])
				if err != nil {
					errs[n] = fmt.Errorf("runs: run %s: %w", t[k].ID, err)
					return
				}
				vals[k] = v
			}
		}(n)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return vals, nil
}
