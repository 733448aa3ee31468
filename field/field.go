// Package field wraps raw simulator arrays with their grid placement so
// operators can interpolate between staggered locations correctly.
package field

import (
	"fmt"

	"github.com/ctessum/sparse"

	"github.com/oceanmetrics/oceanmetrics/grid"
)

// PlacementError reports an interpolation request between placements that
// is not defined on the C-grid.
type PlacementError struct {
	From, To grid.Placement
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("field: no interpolation from %s to %s", e.From, e.To)
}

// ShapeMismatchError reports an array whose shape disagrees with what the
// grid requires, or two arrays that cannot be compared pointwise.
type ShapeMismatchError struct {
	Name      string
	Got, Want []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("field: %s: shape %v, want %v", e.Name, e.Got, e.Want)
}

// Field is a named physical quantity on a staggered grid. Fields are value
// objects: operators return new Fields and never modify inputs.
type Field struct {
	Name      string
	Units     string
	Placement grid.Placement
	Grid      *grid.Descriptor
	Data      *sparse.DenseArray
}

// New checks the array shape against the grid and placement and wraps it.
func New(name, units string, g *grid.Descriptor, p grid.Placement, data *sparse.DenseArray) (*Field, error) {
	want := g.Shape(p)
	if !shapeEqual(data.Shape, want) {
		return nil, &ShapeMismatchError{Name: name, Got: data.Shape, Want: want}
	}
	return &Field{Name: name, Units: units, Placement: p, Grid: g, Data: data}, nil
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameShape reports whether two fields live on the same grid at the same
// placement.
func (f *Field) SameShape(o *Field) bool {
	return f.Placement == o.Placement && f.Grid.Equal(o.Grid) &&
		shapeEqual(f.Data.Shape, o.Data.Shape)
}

// InterpolateTo returns a new Field at the requested placement. Supported
// transitions are the identity and Center <-> {XFace, YFace, ZFace}, by
// linear interpolation along the staggered axis using the true coordinates,
// so non-uniform grids are handled. Boundary faces take the nearest center
// value (zero gradient fill).
func (f *Field) InterpolateTo(p grid.Placement) (*Field, error) {
	if p == f.Placement {
		return &Field{
			Name:      f.Name,
			Units:     f.Units,
			Placement: p,
			Grid:      f.Grid,
			Data:      f.Data.Copy(),
		}, nil
	}
	var (
		axis   int // 0=z, 1=y, 2=x in storage order
		toFace bool
		coords string
	)
	switch {
	case f.Placement == grid.Center && p == grid.XFace:
		axis, toFace, coords = 2, true, "x"
	case f.Placement == grid.Center && p == grid.YFace:
		axis, toFace, coords = 1, true, "y"
	case f.Placement == grid.Center && p == grid.ZFace:
		axis, toFace, coords = 0, true, "z"
	case f.Placement == grid.XFace && p == grid.Center:
		axis, toFace, coords = 2, false, "x"
	case f.Placement == grid.YFace && p == grid.Center:
		axis, toFace, coords = 1, false, "y"
	case f.Placement == grid.ZFace && p == grid.Center:
		axis, toFace, coords = 0, false, "z"
	default:
		return nil, &PlacementError{From: f.Placement, To: p}
	}
	var out *sparse.DenseArray
	if toFace {
		out = interpAxis(f.Data, axis, f.Grid.Centers(coords), f.Grid.Faces(coords), centerToFace)
	} else {
		out = interpAxis(f.Data, axis, f.Grid.Faces(coords), f.Grid.Centers(coords), faceToCenter)
	}
	return &Field{Name: f.Name, Units: f.Units, Placement: p, Grid: f.Grid, Data: out}, nil
}

// interpAxis applies a 1-D resampling kernel along one axis of a 3-D array.
// src are the coordinates the data lives at, dst the target coordinates.
func interpAxis(a *sparse.DenseArray, axis int, src, dst []float64,
	kernel func(line []float64, src, dst []float64) []float64) *sparse.DenseArray {

	shape := append([]int{}, a.Shape...)
	shape[axis] = len(dst)
	out := sparse.ZerosDense(shape...)

	nz, ny, nx := a.Shape[0], a.Shape[1], a.Shape[2]
	line := make([]float64, a.Shape[axis])
	switch axis {
	case 2:
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					line[i] = a.Get(k, j, i)
				}
				for i, v := range kernel(line, src, dst) {
					out.Set(v, k, j, i)
				}
			}
		}
	case 1:
		for k := 0; k < nz; k++ {
			for i := 0; i < nx; i++ {
				for j := 0; j < ny; j++ {
					line[j] = a.Get(k, j, i)
				}
				for j, v := range kernel(line, src, dst) {
					out.Set(v, k, j, i)
				}
			}
		}
	default:
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for k := 0; k < nz; k++ {
					line[k] = a.Get(k, j, i)
				}
				for k, v := range kernel(line, src, dst) {
					out.Set(v, k, j, i)
				}
			}
		}
	}
	return out
}

// centerToFace resamples n center values onto n+1 faces. Interior faces
// interpolate linearly between the bracketing centers, boundary faces copy
// the nearest center.
func centerToFace(c []float64, xc, xf []float64) []float64 {
	n := len(c)
	out := make([]float64, n+1)
	out[0] = c[0]
	out[n] = c[n-1]
	for i := 1; i < n; i++ {
		w := (xf[i] - xc[i-1]) / (xc[i] - xc[i-1])
		out[i] = c[i-1] + w*(c[i]-c[i-1])
	}
	return out
}

// faceToCenter resamples n+1 face values onto n centers, each center
// interpolating between its two bounding faces.
func faceToCenter(f []float64, xf, xc []float64) []float64 {
	n := len(xc)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		w := (xc[i] - xf[i]) / (xf[i+1] - xf[i])
		out[i] = f[i] + w*(f[i+1]-f[i])
	}
	return out
}
