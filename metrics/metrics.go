// Package metrics implements the diagnostic operators: relative vorticity,
// speed, error norms against a reference field, and time tendencies. All
// operators are pure functions over immutable fields; they validate grid
// and shape compatibility up front and never return partial results.
package metrics

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/oceanmetrics/oceanmetrics/field"
	"github.com/oceanmetrics/oceanmetrics/grid"
)

// TimeMismatchError reports an invalid temporal pairing of snapshots.
type TimeMismatchError struct {
	Reason string
	T1, T2 float64
}

func (e *TimeMismatchError) Error() string {
	return fmt.Sprintf("metrics: %s (t1=%g, t2=%g)", e.Reason, e.T1, e.T2)
}

// Result is the output of a diagnostic operator: a derived field, reduced
// scalars, or both, together with the names of the inputs it was computed
// from.
type Result struct {
	Field   *field.Field
	Scalars map[string]float64
	Inputs  []string
}

// Snapshot pairs a field with the model time it was written at.
type Snapshot struct {
	Field *field.Field
	Time  float64
}

// Vorticity computes the vertical component of relative vorticity,
// zeta = dv/dx - du/dy, with centered differences on the C-grid. u must be
// at x-faces and v at y-faces; the result lives at the vertical vorticity
// points (cell corners). Boundary corners are excluded: the output covers
// interior corners only, shape [nz, ny-1, nx-1]. Units assume velocities in
// m/s on a grid in m.
func Vorticity(u, v *field.Field) (*Result, error) {
	if u.Placement != grid.XFace {
		return nil, &field.PlacementError{From: u.Placement, To: grid.XFace}
	}
	if v.Placement != grid.YFace {
		return nil, &field.PlacementError{From: v.Placement, To: grid.YFace}
	}
	if !u.Grid.Equal(v.Grid) {
		return nil, &field.ShapeMismatchError{Name: v.Name, Got: v.Data.Shape, Want: u.Data.Shape}
	}
	g := u.Grid
	if g.Nx < 2 || g.Ny < 2 {
		return nil, &field.ShapeMismatchError{Name: u.Name, Got: u.Data.Shape, Want: []int{g.Nz, 2, 2}}
	}
	out := sparse.ZerosDense(g.Shape(grid.XYCorner)...)
	for k := 0; k < g.Nz; k++ {
		for j := 1; j < g.Ny; j++ {
			dyc := g.YC[j] - g.YC[j-1]
			for i := 1; i < g.Nx; i++ {
				dxc := g.XC[i] - g.XC[i-1]
				dvdx := (v.Data.Get(k, j, i) - v.Data.Get(k, j, i-1)) / dxc
				dudy := (u.Data.Get(k, j, i) - u.Data.Get(k, j-1, i)) / dyc
				out.Set(dvdx-dudy, k, j-1, i-1)
			}
		}
	}
	zeta, err := field.New("vorticity", "1/s", g, grid.XYCorner, out)
	if err != nil {
		return nil, err
	}
	return &Result{Field: zeta, Inputs: []string{u.Name, v.Name}}, nil
}

// Speed computes sqrt(u^2+v^2+w^2) at cell centers, interpolating each
// velocity component to the centers first. w may be nil for a two
// dimensional flow.
func Speed(u, v, w *field.Field) (*Result, error) {
	uc, err := u.InterpolateTo(grid.Center)
	if err != nil {
		return nil, err
	}
	vc, err := v.InterpolateTo(grid.Center)
	if err != nil {
		return nil, err
	}
	if !u.Grid.Equal(v.Grid) {
		return nil, &field.ShapeMismatchError{Name: v.Name, Got: v.Data.Shape, Want: u.Data.Shape}
	}
	inputs := []string{u.Name, v.Name}
	var wc *field.Field
	if w != nil {
		if !u.Grid.Equal(w.Grid) {
			return nil, &field.ShapeMismatchError{Name: w.Name, Got: w.Data.Shape, Want: u.Data.Shape}
		}
		if wc, err = w.InterpolateTo(grid.Center); err != nil {
			return nil, err
		}
		inputs = append(inputs, w.Name)
	}
	out := sparse.ZerosDense(u.Grid.Shape(grid.Center)...)
	for n, uv := range uc.Data.Elements {
		s := uv*uv + vc.Data.Elements[n]*vc.Data.Elements[n]
		if wc != nil {
			s += wc.Data.Elements[n] * wc.Data.Elements[n]
		}
		out.Elements[n] = math.Sqrt(s)
	}
	speed, err := field.New("speed", u.Units, u.Grid, grid.Center, out)
	if err != nil {
		return nil, err
	}
	return &Result{Field: speed, Inputs: inputs}, nil
}

// Norms are the aggregate error norms of a pointwise difference. L1 is the
// mean absolute difference, L2 the root mean square difference and LInf the
// maximum absolute difference.
type Norms struct {
	L1, L2, LInf float64
}

// Compare computes the pointwise difference got-want and its aggregate
// norms. The fields must live on the same grid at the same placement.
func Compare(got, want *field.Field) (*Result, error) {
	if !got.SameShape(want) {
		return nil, &field.ShapeMismatchError{Name: want.Name, Got: want.Data.Shape, Want: got.Data.Shape}
	}
	diff := got.Data.Copy()
	diff.AddDense(want.Data.ScaleCopy(-1))
	n := float64(len(diff.Elements))
	norms := Norms{
		L1:   floats.Norm(diff.Elements, 1) / n,
		L2:   floats.Norm(diff.Elements, 2) / math.Sqrt(n),
		LInf: floats.Norm(diff.Elements, math.Inf(1)),
	}
	df, err := field.New(got.Name+"_error", got.Units, got.Grid, got.Placement, diff)
	if err != nil {
		return nil, err
	}
	return &Result{
		Field:   df,
		Scalars: map[string]float64{"l1": norms.L1, "l2": norms.L2, "linf": norms.LInf},
		Inputs:  []string{got.Name, want.Name},
	}, nil
}

// Tendency computes the time derivative (b-a)/(t_b-t_a) between two
// time-adjacent snapshots of the same field. The snapshots must share grid,
// placement and shape and must be strictly ordered in time.
func Tendency(a, b Snapshot) (*Result, error) {
	if a.Field == nil || b.Field == nil {
		return nil, &TimeMismatchError{Reason: "missing snapshot", T1: a.Time, T2: b.Time}
	}
	if !a.Field.SameShape(b.Field) {
		return nil, &TimeMismatchError{Reason: "snapshots are not on the same grid", T1: a.Time, T2: b.Time}
	}
	dt := b.Time - a.Time
	if dt <= 0 {
		return nil, &TimeMismatchError{Reason: "non-positive time separation", T1: a.Time, T2: b.Time}
	}
	out := b.Field.Data.Copy()
	out.AddDense(a.Field.Data.ScaleCopy(-1))
	out.Scale(1 / dt)
	units := a.Field.Units
	if units != "" {
		units += "/s"
	}
	tf, err := field.New(a.Field.Name+"_tendency", units, a.Field.Grid, a.Field.Placement, out)
	if err != nil {
		return nil, err
	}
	return &Result{Field: tf, Inputs: []string{a.Field.Name, b.Field.Name}}, nil
}
