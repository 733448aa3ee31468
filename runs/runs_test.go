package runs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parameters.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTable(t *testing.T) {
	// Runs keep table order and extra columns become parameters
	{
		path := writeTable(t, "id,wind,resolution\nrun_a,0.1,64\nrun_b,0.2,128\n")
		table, err := LoadTable(path)
		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, "run_a", table[0].ID)
		assert.Equal(t, "run_b", table[1].ID)
		assert.Equal(t, "0.2", table[1].Params["wind"])
		assert.Equal(t, "128", table[1].Params["resolution"])
	}
	// The id column may appear anywhere
	{
		path := writeTable(t, "wind,id\n0.1,run_a\n")
		table, err := LoadTable(path)
		require.NoError(t, err)
		assert.Equal(t, "run_a", table[0].ID)
	}
	// Missing id column is an error
	{
		path := writeTable(t, "wind,resolution\n0.1,64\n")
		_, err := LoadTable(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id")
	}
	{
		_, err := LoadTable(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	}
}

func TestApply(t *testing.T) {
	table := Table{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
		{ID: "f"}, {ID: "g"}, {ID: "h"}, {ID: "i"}, {ID: "j"},
	}
	length := func(r Run) (float64, error) { return float64(len(r.ID)), nil }
	indexOf := func(r Run) (float64, error) { return float64(r.ID[0] - 'a'), nil }

	// Sequential evaluation preserves table order
	{
		vals, err := table.Apply(indexOf)
		require.NoError(t, err)
		for i, v := range vals {
			assert.Equal(t, float64(i), v)
		}
	}
	// ApplyEach evaluates every metric for one run, in order
	{
		vals, err := ApplyEach(Run{ID: "run_b"}, []Metric{length, func(r Run) (float64, error) { return 2, nil }})
		require.NoError(t, err)
		assert.Equal(t, []float64{5, 2}, vals)
	}
	// Parallel evaluation matches sequential for any worker count
	{
		want, err := table.Apply(indexOf)
		require.NoError(t, err)
		for workers := 1; workers <= len(table)+2; workers++ {
			got, err := table.ApplyParallel(indexOf, workers)
			require.NoError(t, err)
			assert.Equal(t, want, got, "workers=%d", workers)
		}
	}
	// Errors name the failing run
	{
		fail := func(r Run) (float64, error) {
			if r.ID == "d" {
				return 0, fmt.Errorf("no such file")
			}
			return 0, nil
		}
		_, err := table.Apply(fail)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run d")
		_, err = table.ApplyParallel(fail, 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run d")
	}
	// Empty table
	{
		vals, err := Table{}.ApplyParallel(length, 4)
		require.NoError(t, err)
		assert.Empty(t, vals)
	}
}

func TestPartitionMap(t *testing.T) {
	// Buckets tile the index range contiguously with imbalance at most one
	for _, tc := range [][2]int{{1, 1}, {2, 10}, {3, 10}, {4, 7}, {7, 7}, {12, 5}} {
		pm := NewPartitionMap(tc[0], tc[1])
		next := 0
		for n := 0; n < pm.ParallelDegree; n++ {
			kMin, kMax := pm.GetBucketRange(n)
			assert.Equal(t, next, kMin)
			assert.LessOrEqual(t, kMax-kMin, tc[1]/pm.ParallelDegree+1)
			assert.GreaterOrEqual(t, kMax-kMin, tc[1]/pm.ParallelDegree)
			next = kMax
		}
		assert.Equal(t, tc[1], next)
	}
}
