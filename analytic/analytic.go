// Package analytic builds velocity fields with closed-form diagnostics,
// used to verify the discrete operators against known answers.
package analytic

import (
	"math"

	"github.com/ctessum/sparse"

	"github.com/oceanmetrics/oceanmetrics/field"
	"github.com/oceanmetrics/oceanmetrics/grid"
)

// eval samples a horizontal flow component at its staggered points. Only
// x-face and y-face placements appear in these flows.
func eval(g *grid.Descriptor, p grid.Placement, f func(x, y float64) float64) *sparse.DenseArray {
	xs, ys := g.XC, g.YC
	switch p {
	case grid.XFace:
		xs = g.XF
	case grid.YFace:
		ys = g.YF
	}
	a := sparse.ZerosDense(g.Shape(p)...)
	for k := 0; k < g.Nz; k++ {
		for j, y := range ys {
			for i, x := range xs {
				a.Set(f(x, y), k, j, i)
			}
		}
	}
	return a
}

func velocityPair(g *grid.Descriptor, fu, fv func(x, y float64) float64) (u, v *field.Field, err error) {
	if u, err = field.New("u", "m/s", g, grid.XFace, eval(g, grid.XFace, fu)); err != nil {
		return nil, nil, err
	}
	if v, err = field.New("v", "m/s", g, grid.YFace, eval(g, grid.YFace, fv)); err != nil {
		return nil, nil, err
	}
	return u, v, nil
}

// SolidBody is rigid rotation about the origin, u = -omega*y, v = omega*x.
// Its vorticity is 2*omega everywhere; centered differences reproduce that
// exactly, so it makes a sharp operator test.
func SolidBody(g *grid.Descriptor, omega float64) (u, v *field.Field, err error) {
	return velocityPair(g,
		func(x, y float64) float64 { return -omega * y },
		func(x, y float64) float64 { return omega * x })
}

// TaylorGreen is the divergence-free vortex array
//
//	u =  sin(k x) cos(k y)
//	v = -cos(k x) sin(k y)
//
// with vorticity 2 k sin(k x) sin(k y), see TaylorGreenVorticity. The
// discrete vorticity converges to it at second order.
func TaylorGreen(g *grid.Descriptor, k float64) (u, v *field.Field, err error) {
	return velocityPair(g,
		func(x, y float64) float64 { return math.Sin(k*x) * math.Cos(k*y) },
		func(x, y float64) float64 { return -math.Cos(k*x) * math.Sin(k*y) })
}

// TaylorGreenVorticity is the exact vorticity of TaylorGreen at a point.
func TaylorGreenVorticity(k, x, y float64) float64 {
	return 2 * k * math.Sin(k*x) * math.Sin(k*y)
}
