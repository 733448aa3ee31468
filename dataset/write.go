package dataset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ctessum/cdf"

	"github.com/oceanmetrics/oceanmetrics/grid"
	"github.com/oceanmetrics/oceanmetrics/metrics"
)

// dimsFor maps a placement to NetCDF dimension names. xFi/yFi are the
// interior face coordinates corner fields live on.
func dimsFor(p grid.Placement) []string {
	switch p {
	case grid.XFace:
		return []string{"zC", "yC", "xF"}
	case grid.YFace:
		return []string{"zC", "yF", "xC"}
	case grid.ZFace:
		return []string{"zF", "yC", "xC"}
	case grid.XYCorner:
		return []string{"zC", "yFi", "xFi"}
	default:
		return []string{"zC", "yC", "xC"}
	}
}

// Write stores derived fields and scalars in a classic-format NetCDF file.
// Fields become float32 variables with units and provenance attributes,
// scalar results become global attributes named after their field.
func Write(path string, g *grid.Descriptor, results []*metrics.Result) error {
	h := cdf.NewHeader(
		[]string{"xC", "yC", "zC", "xF", "yF", "zF", "xFi", "yFi"},
		[]int{g.Nx, g.Ny, g.Nz, g.Nx + 1, g.Ny + 1, g.Nz + 1, g.Nx - 1, g.Ny - 1})
	h.AddAttribute("", "comment", "oceanmetrics derived diagnostics")

	coords := map[string][]float64{
		"xC": g.XC, "yC": g.YC, "zC": g.ZC,
		"xF": g.XF, "yF": g.YF, "zF": g.ZF,
		"xFi": g.XF[1:g.Nx], "yFi": g.YF[1:g.Ny],
	}
	coordOrder := []string{"xC", "yC", "zC", "xF", "yF", "zF", "xFi", "yFi"}
	for _, name := range coordOrder {
		h.AddVariable(name, []string{name}, []float64{0})
	}

	// Sort variables by name so files are reproducible.
	byName := make(map[string]*metrics.Result)
	var names []string
	for _, r := range results {
		if r.Field == nil {
			continue
		}
		byName[r.Field.Name] = r
		names = append(names, r.Field.Name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := byName[name]
		h.AddVariable(name, dimsFor(r.Field.Placement), []float32{0})
		if r.Field.Units != "" {
			h.AddAttribute(name, "units", r.Field.Units)
		}
		if len(r.Inputs) > 0 {
			h.AddAttribute(name, "computed_from", strings.Join(r.Inputs, ","))
		}
		for _, k := range scalarKeys(r) {
			h.AddAttribute(name, k, []float64{r.Scalars[k]})
		}
	}
	h.Define()

	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: creating %s: %w", path, err)
	}
	defer w.Close()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("dataset: writing header to %s: %w", path, err)
	}
	for _, name := range coordOrder {
		if err := writeVar(f, name, coords[name]); err != nil {
			return fmt.Errorf("dataset: writing %s to %s: %w", name, path, err)
		}
	}
	for _, name := range names {
		data := byName[name].Field.Data.Elements
		data32 := make([]float32, len(data))
		for i, x := range data {
			data32[i] = float32(x)
		}
		if err := writeVar(f, name, data32); err != nil {
			return fmt.Errorf("dataset: writing %s to %s: %w", name, path, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

func writeVar(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	_, err := f.Writer(name, start, end).Write(data)
	return err
}

func scalarKeys(r *metrics.Result) []string {
	keys := make([]string, 0, len(r.Scalars))
	for k := range r.Scalars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
