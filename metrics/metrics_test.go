package metrics

import (
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanmetrics/oceanmetrics/field"
	"github.com/oceanmetrics/oceanmetrics/grid"
)

func testGrid(t *testing.T) *grid.Descriptor {
	t.Helper()
	g, err := grid.NewUniform(8, 6, 3, 8, 6, 3)
	require.NoError(t, err)
	return g
}

// velocity builds u, v, w fields from closures over the staggered
// coordinates each component lives at.
func velocity(t *testing.T, g *grid.Descriptor,
	fu, fv, fw func(x, y, z float64) float64) (u, v, w *field.Field) {
	t.Helper()
	build := func(name string, p grid.Placement, f func(x, y, z float64) float64) *field.Field {
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
		fld, err := field.New(name, "m/s", g, p, a)
		require.NoError(t, err)
		return fld
	}
	u = build("u", grid.XFace, fu)
	v = build("v", grid.YFace, fv)
	w = build("w", grid.ZFace, fw)
	return
}

func TestVorticity(t *testing.T) {
	g := testGrid(t)
	zero := func(x, y, z float64) float64 { return 0 }

	// Spatially constant flow has zero vorticity at every interior corner
	{
		u, v, _ := velocity(t, g,
			func(x, y, z float64) float64 { return 2.5 },
			func(x, y, z float64) float64 { return -1.5 },
			zero)
		r, err := Vorticity(u, v)
		require.NoError(t, err)
		assert.Equal(t, grid.XYCorner, r.Field.Placement)
		assert.Equal(t, []int{3, 5, 7}, r.Field.Data.Shape)
		assert.Equal(t, []string{"u", "v"}, r.Inputs)
		for _, z := range r.Field.Data.Elements {
			assert.Equal(t, 0.0, z)
		}
	}
	// Solid body rotation u=-Oy, v=Ox gives zeta=2O exactly
	{
		const omega = 0.3
		u, v, _ := velocity(t, g,
			func(x, y, z float64) float64 { return -omega * y },
			func(x, y, z float64) float64 { return omega * x },
			zero)
		r, err := Vorticity(u, v)
		require.NoError(t, err)
		for _, z := range r.Field.Data.Elements {
			assert.InDelta(t, 2*omega, z, 1e-12)
		}
	}
	// Placement is validated
	{
		u, v, _ := velocity(t, g, zero, zero, zero)
		_, err := Vorticity(v, v)
		var pe *field.PlacementError
		require.ErrorAs(t, err, &pe)
		_, err = Vorticity(u, u)
		assert.ErrorAs(t, err, &pe)
	}
	// Fields must share a grid
	{
		u, _, _ := velocity(t, g, zero, zero, zero)
		g2, err := grid.NewUniform(8, 6, 3, 16, 6, 3)
		require.NoError(t, err)
		_, v2, _ := velocity(t, g2, zero, zero, zero)
		_, err = Vorticity(u, v2)
		var sme *field.ShapeMismatchError
		assert.ErrorAs(t, err, &sme)
	}
}

func TestSpeed(t *testing.T) {
	g := testGrid(t)

	// Zero velocity gives zero speed everywhere
	{
		zero := func(x, y, z float64) float64 { return 0 }
		u, v, w := velocity(t, g, zero, zero, zero)
		r, err := Speed(u, v, w)
		require.NoError(t, err)
		for _, s := range r.Field.Data.Elements {
			assert.Equal(t, 0.0, s)
		}
	}
	// Unit x velocity gives speed 1.0 everywhere
	{
		u, v, w := velocity(t, g,
			func(x, y, z float64) float64 { return 1 },
			func(x, y, z float64) float64 { return 0 },
			func(x, y, z float64) float64 { return 0 })
		r, err := Speed(u, v, w)
		require.NoError(t, err)
		assert.Equal(t, grid.Center, r.Field.Placement)
		assert.Equal(t, []string{"u", "v", "w"}, r.Inputs)
		for _, s := range r.Field.Data.Elements {
			assert.InDelta(t, 1.0, s, 1e-12)
		}
	}
	// Speed is non-negative and w may be omitted
	{
		u, v, _ := velocity(t, g,
			func(x, y, z float64) float64 { return -3 },
			func(x, y, z float64) float64 { return 4 },
			func(x, y, z float64) float64 { return 0 })
		r, err := Speed(u, v, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"u", "v"}, r.Inputs)
		for _, s := range r.Field.Data.Elements {
			assert.InDelta(t, 5.0, s, 1e-12)
			assert.GreaterOrEqual(t, s, 0.0)
		}
	}
}

func centerField(t *testing.T, g *grid.Descriptor, name string, vals ...float64) *field.Field {
	t.Helper()
	a := sparse.ZerosDense(g.Shape(grid.Center)...)
	for i := range a.Elements {
		a.Elements[i] = vals[i%len(vals)]
	}
	f, err := field.New(name, "C", g, grid.Center, a)
	require.NoError(t, err)
	return f
}

func TestCompare(t *testing.T) {
	g := testGrid(t)

	// A field compared with itself has exactly zero norms
	{
		c := centerField(t, g, "c", 1, 2, 3)
		r, err := Compare(c, c)
		require.NoError(t, err)
		assert.Equal(t, 0.0, r.Scalars["l1"])
		assert.Equal(t, 0.0, r.Scalars["l2"])
		assert.Equal(t, 0.0, r.Scalars["linf"])
		for _, d := range r.Field.Data.Elements {
			assert.Equal(t, 0.0, d)
		}
	}
	// Known difference gives known norms
	{
		got := centerField(t, g, "c", 1)
		want := centerField(t, g, "c", 0, 2) // diff alternates +1, -1
		r, err := Compare(got, want)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, r.Scalars["l1"], 1e-12)
		assert.InDelta(t, 1.0, r.Scalars["l2"], 1e-12)
		assert.InDelta(t, 1.0, r.Scalars["linf"], 1e-12)
	}
	{
		got := centerField(t, g, "c", 2)
		want := centerField(t, g, "c", 0)
		r, err := Compare(got, want)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, r.Scalars["l1"], 1e-12)
		assert.InDelta(t, 2.0, r.Scalars["l2"], 1e-12)
		assert.InDelta(t, 2.0, r.Scalars["linf"], 1e-12)
	}
	// Mismatched shapes are rejected
	{
		c := centerField(t, g, "c", 1)
		g2, err := grid.NewUniform(4, 6, 3, 4, 6, 3)
		require.NoError(t, err)
		c2 := centerField(t, g2, "c", 1)
		_, err = Compare(c, c2)
		var sme *field.ShapeMismatchError
		assert.ErrorAs(t, err, &sme)
	}
}

func TestTendency(t *testing.T) {
	g := testGrid(t)

	// Constant-in-time field has zero tendency
	{
		c := centerField(t, g, "T", 4)
		r, err := Tendency(Snapshot{c, 10}, Snapshot{c, 20})
		require.NoError(t, err)
		for _, v := range r.Field.Data.Elements {
			assert.Equal(t, 0.0, v)
		}
		assert.Equal(t, "C/s", r.Field.Units)
	}
	// Linear growth gives the slope
	{
		a := centerField(t, g, "T", 1)
		b := centerField(t, g, "T", 3)
		r, err := Tendency(Snapshot{a, 0}, Snapshot{b, 4})
		require.NoError(t, err)
		for _, v := range r.Field.Data.Elements {
			assert.InDelta(t, 0.5, v, 1e-12)
		}
	}
	// Non-positive time separation is rejected
	{
		c := centerField(t, g, "T", 1)
		var tme *TimeMismatchError
		_, err := Tendency(Snapshot{c, 5}, Snapshot{c, 5})
		require.ErrorAs(t, err, &tme)
		_, err = Tendency(Snapshot{c, 5}, Snapshot{c, 1})
		require.ErrorAs(t, err, &tme)
	}
	// Snapshots must share a grid
	{
		c := centerField(t, g, "T", 1)
		g2, err := grid.NewUniform(4, 6, 3, 4, 6, 3)
		require.NoError(t, err)
		c2 := centerField(t, g2, "T", 1)
		var tme *TimeMismatchError
		_, err = Tendency(Snapshot{c, 0}, Snapshot{c2, 1})
		assert.ErrorAs(t, err, &tme)
	}
}
