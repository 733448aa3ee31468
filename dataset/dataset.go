// Package dataset reads simulator NetCDF output. Files follow the
// NetCDFWriter schema: coordinate dimensions xC/xF, yC/yF, zC/zF and time,
// with each variable's staggered placement encoded in its dimension names
// (u on xF, v on yF, w on zF, tracers on centers).
package dataset

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"

	"github.com/oceanmetrics/oceanmetrics/field"
	"github.com/oceanmetrics/oceanmetrics/grid"
	"github.com/oceanmetrics/oceanmetrics/metrics"
)

var coordNames = map[string]bool{
	"xC": true, "xF": true,
	"yC": true, "yF": true,
	"zC": true, "zF": true,
	"time": true,
}

// Dataset is an open simulator output file together with the grid
// reconstructed from its coordinate variables.
type Dataset struct {
	path  string
	nc    api.Group
	g     *grid.Descriptor
	times []float64
}

// Open opens a NetCDF file and rebuilds its grid descriptor from the
// coordinate variables.
func Open(path string) (*Dataset, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	d := &Dataset{path: path, nc: nc}
	coords := make(map[string][]float64, 6)
	for _, name := range []string{"xC", "xF", "yC", "yF", "zC", "zF"} {
		if coords[name], err = coordValues(nc, name); err != nil {
			nc.Close()
			return nil, fmt.Errorf("dataset: %s: %w", path, err)
		}
	}
	d.g, err = grid.NewDescriptor(
		coords["xC"], coords["xF"],
		coords["yC"], coords["yF"],
		coords["zC"], coords["zF"])
	if err != nil {
		nc.Close()
		return nil, err
	}
	if d.times, err = coordValues(nc, "time"); err != nil {
		nc.Close()
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return d, nil
}

func (d *Dataset) Close() {
	d.nc.Close()
}

// Grid returns the grid descriptor shared by all fields in the file.
func (d *Dataset) Grid() *grid.Descriptor { return d.g }

// Times returns the model times of the stored snapshots, in seconds.
func (d *Dataset) Times() []float64 { return d.times }

// Variables lists the data variables in the file, excluding coordinates.
func (d *Dataset) Variables() []string {
	var names []string
	for _, v := range d.nc.ListVariables() {
		if !coordNames[v] {
			names = append(names, v)
		}
	}
	return names
}

// Summary describes the dataset for logging.
func (d *Dataset) Summary() logrus.Fields {
	return logrus.Fields{
		"path":      d.path,
		"nx":        d.g.Nx,
		"ny":        d.g.Ny,
		"nz":        d.g.Nz,
		"snapshots": len(d.times),
		"variables": d.Variables(),
	}
}

// Load reads one variable at one time index and wraps it as a Field, with
// the placement decoded from the variable's dimension names.
func (d *Dataset) Load(name string, tIdx int) (*field.Field, error) {
	if tIdx < 0 || tIdx >= len(d.times) {
		return nil, fmt.Errorf("dataset: %s: time index %d out of range [0, %d)",
			d.path, tIdx, len(d.times))
	}
	vg, err := d.nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: variable %s: %w", d.path, name, err)
	}
	dims := vg.Dimensions()
	if len(dims) != 4 || dims[0] != "time" {
		return nil, fmt.Errorf("dataset: %s: variable %s has dimensions %v, want [time z y x]",
			d.path, name, dims)
	}
	p, err := placementFromDims(dims)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: variable %s: %w", d.path, name, err)
	}
	raw, err := vg.GetSlice(int64(tIdx), int64(tIdx)+1)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: reading %s[%d]: %w", d.path, name, tIdx, err)
	}
	data, err := flatten3D(raw, d.g.Shape(p))
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: variable %s: %w", d.path, name, err)
	}
	return field.New(name, unitsAttr(vg), d.g, p, data)
}

// Snapshot loads a variable at a time index paired with its model time.
func (d *Dataset) Snapshot(name string, tIdx int) (metrics.Snapshot, error) {
	f, err := d.Load(name, tIdx)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	return metrics.Snapshot{Field: f, Time: d.times[tIdx]}, nil
}

// placementFromDims decodes the staggering from the spatial dimension
// names, e.g. [time zC yC xF] -> XFace. At most one axis may be staggered.
func placementFromDims(dims []string) (grid.Placement, error) {
	p := grid.Center
	n := 0
	if dims[3] == "xF" {
		p = grid.XFace
		n++
	}
	if dims[2] == "yF" {
		p = grid.YFace
		n++
	}
	if dims[1] == "zF" {
		p = grid.ZFace
		n++
	}
	if n > 1 {
		return grid.Center, fmt.Errorf("more than one staggered dimension in %v", dims)
	}
	return p, nil
}

// coordValues reads a 1-D coordinate variable as float64, accepting the
// float32, float64 and int32 encodings writers produce.
func coordValues(nc api.Group, name string) ([]float64, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("coordinate %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("coordinate %s: %w", name, err)
	}
	switch vv := v.(type) {
	case []float64:
		return vv, nil
	case []float32:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(vv))
		for i, x := range vv {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("coordinate %s: unsupported type %T", name, v)
}

// flatten3D copies one time slab, [1][nz][ny][nx] as read from the file,
// into a dense array of the expected shape.
func flatten3D(raw interface{}, shape []int) (*sparse.DenseArray, error) {
	var flat []float64
	switch vv := raw.(type) {
	case [][][][]float64:
		for _, plane := range vv[0] {
			for _, row := range plane {
				flat = append(flat, row...)
			}
		}
	case [][][][]float32:
		for _, plane := range vv[0] {
			for _, row := range plane {
				for _, x := range row {
					flat = append(flat, float64(x))
				}
			}
		}
	default:
		return nil, fmt.Errorf("unsupported variable type %T", raw)
	}
	out := sparse.ZerosDense(shape...)
	if len(flat) != len(out.Elements) {
		return nil, &field.ShapeMismatchError{Name: "variable", Got: []int{len(flat)}, Want: shape}
	}
	copy(out.Elements, flat)
	return out, nil
}

func unitsAttr(vg api.VarGetter) string {
	if u, has := vg.Attributes().Get("units"); has {
		if s, ok := u.(string); ok {
			return s
		}
	}
	return ""
}
