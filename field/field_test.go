package field

import (
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanmetrics/oceanmetrics/grid"
)

func testGrid(t *testing.T) *grid.Descriptor {
	t.Helper()
	g, err := grid.NewUniform(6, 5, 4, 6, 5, 4)
	require.NoError(t, err)
	return g
}

// fill evaluates f at the coordinates of every point of a placement.
func fill(g *grid.Descriptor, p grid.Placement, f func(x, y, z float64) float64) *sparse.DenseArray {
	xs, ys, zs := g.XC, g.YC, g.ZC
	switch p {
	case grid.XFace:
		xs = g.XF
	case grid.YFace:
		ys = g.YF
	case grid.ZFace:
		zs = g.ZF
	}
	a := sparse.ZerosDense(g.Shape(p)...)
	for k, z := range zs {
		for j, y := range ys {
			for i, x := range xs {
				a.Set(f(x, y, z), k, j, i)
			}
		}
	}
	return a
}

func TestNew(t *testing.T) {
	g := testGrid(t)
	// Shape must match grid and placement
	{
		_, err := New("u", "m/s", g, grid.XFace, sparse.ZerosDense(4, 5, 6))
		var sme *ShapeMismatchError
		require.ErrorAs(t, err, &sme)
		assert.Equal(t, []int{4, 5, 7}, sme.Want)
	}
	{
		f, err := New("u", "m/s", g, grid.XFace, sparse.ZerosDense(4, 5, 7))
		require.NoError(t, err)
		assert.Equal(t, grid.XFace, f.Placement)
		assert.Equal(t, "m/s", f.Units)
	}
}

func TestInterpolateTo(t *testing.T) {
	g := testGrid(t)

	// Identity returns a copy
	{
		f, err := New("c", "", g, grid.Center, fill(g, grid.Center, func(x, y, z float64) float64 { return x }))
		require.NoError(t, err)
		o, err := f.InterpolateTo(grid.Center)
		require.NoError(t, err)
		o.Data.Set(99, 0, 0, 0)
		assert.NotEqual(t, 99.0, f.Data.Get(0, 0, 0))
	}
	// Constant fields survive any supported transition exactly
	{
		f, err := New("c", "", g, grid.Center, fill(g, grid.Center, func(x, y, z float64) float64 { return 7 }))
		require.NoError(t, err)
		for _, p := range []grid.Placement{grid.XFace, grid.YFace, grid.ZFace} {
			o, err := f.InterpolateTo(p)
			require.NoError(t, err)
			for _, v := range o.Data.Elements {
				assert.Equal(t, 7.0, v)
			}
			back, err := o.InterpolateTo(grid.Center)
			require.NoError(t, err)
			for _, v := range back.Data.Elements {
				assert.Equal(t, 7.0, v)
			}
		}
	}
	// A field linear in x is reproduced exactly at interior faces, and the
	// round trip recovers interior centers exactly
	{
		f, err := New("c", "", g, grid.Center, fill(g, grid.Center, func(x, y, z float64) float64 { return 3*x + 1 }))
		require.NoError(t, err)
		o, err := f.InterpolateTo(grid.XFace)
		require.NoError(t, err)
		for i := 1; i < g.Nx; i++ {
			assert.InDelta(t, 3*g.XF[i]+1, o.Data.Get(0, 0, i), 1e-12)
		}
		back, err := o.InterpolateTo(grid.Center)
		require.NoError(t, err)
		for i := 1; i < g.Nx-1; i++ {
			assert.InDelta(t, 3*g.XC[i]+1, back.Data.Get(2, 3, i), 1e-12)
		}
	}
	// Face to center along z
	{
		f, err := New("w", "m/s", g, grid.ZFace, fill(g, grid.ZFace, func(x, y, z float64) float64 { return 2 * z }))
		require.NoError(t, err)
		o, err := f.InterpolateTo(grid.Center)
		require.NoError(t, err)
		assert.Equal(t, g.Shape(grid.Center), o.Data.Shape)
		for k := 0; k < g.Nz; k++ {
			assert.InDelta(t, 2*g.ZC[k], o.Data.Get(k, 1, 1), 1e-12)
		}
	}
	// Unsupported transitions
	{
		f, err := New("u", "m/s", g, grid.XFace, sparse.ZerosDense(g.Shape(grid.XFace)...))
		require.NoError(t, err)
		_, err = f.InterpolateTo(grid.YFace)
		var pe *PlacementError
		require.ErrorAs(t, err, &pe)
		_, err = f.InterpolateTo(grid.XYCorner)
		assert.ErrorAs(t, err, &pe)
	}
}
