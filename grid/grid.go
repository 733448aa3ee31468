// Package grid describes the staggered finite volume grid used by the
// simulator output. Scalars live at cell centers, velocity components at
// cell faces (Arakawa C-grid).
package grid

import "fmt"

// Placement is the staggered grid location a discretized quantity is
// defined at.
type Placement uint8

const (
	Center Placement = iota
	XFace
	YFace
	ZFace
	// XYCorner is the vertical vorticity point, the corner shared by four
	// cells in a horizontal plane. Only interior corners are represented,
	// see Descriptor.Shape.
	XYCorner
)

func (p Placement) String() string {
	switch p {
	case Center:
		return "center"
	case XFace:
		return "x-face"
	case YFace:
		return "y-face"
	case ZFace:
		return "z-face"
	case XYCorner:
		return "xy-corner"
	}
	return fmt.Sprintf("placement(%d)", uint8(p))
}

// InvalidGridError reports malformed coordinate arrays.
type InvalidGridError struct {
	Axis   string
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("grid: invalid %s axis: %s", e.Axis, e.Reason)
}

// Descriptor holds the rectilinear C-grid geometry: cell center and cell
// face coordinates along each axis. It is immutable after construction.
type Descriptor struct {
	Nx, Ny, Nz int
	// Cell center coordinates, lengths Nx, Ny, Nz
	XC, YC, ZC []float64
	// Cell face coordinates, lengths Nx+1, Ny+1, Nz+1
	XF, YF, ZF []float64
}

// NewDescriptor validates the coordinate arrays and builds a Descriptor.
// Each face array must hold one more point than its center array, both must
// increase strictly, and each center must lie between its bounding faces.
func NewDescriptor(xc, xf, yc, yf, zc, zf []float64) (*Descriptor, error) {
	axes := []struct {
		name string
		c, f []float64
	}{
		{"x", xc, xf},
		{"y", yc, yf},
		{"z", zc, zf},
	}
	for _, ax := range axes {
		if len(ax.c) < 1 {
			return nil, &InvalidGridError{ax.name, "no cell centers"}
		}
		if len(ax.f) != len(ax.c)+1 {
			return nil, &InvalidGridError{ax.name, fmt.Sprintf(
				"%d faces for %d centers, want %d", len(ax.f), len(ax.c), len(ax.c)+1)}
		}
		if !increasing(ax.c) {
			return nil, &InvalidGridError{ax.name, "center coordinates are not strictly increasing"}
		}
		if !increasing(ax.f) {
			return nil, &InvalidGridError{ax.name, "face coordinates are not strictly increasing"}
		}
		for i, c := range ax.c {
			if c < ax.f[i] || c > ax.f[i+1] {
				return nil, &InvalidGridError{ax.name, fmt.Sprintf(
					"center %d (%g) outside bounding faces [%g, %g]", i, c, ax.f[i], ax.f[i+1])}
			}
		}
	}
	return &Descriptor{
		Nx: len(xc), Ny: len(yc), Nz: len(zc),
		XC: xc, YC: yc, ZC: zc,
		XF: xf, YF: yf, ZF: zf,
	}, nil
}

// NewUniform builds a descriptor for a regular grid covering
// [0,Lx] x [0,Ly] x [0,Lz].
func NewUniform(nx, ny, nz int, lx, ly, lz float64) (*Descriptor, error) {
	xc, xf := uniformAxis(nx, lx)
	yc, yf := uniformAxis(ny, ly)
	zc, zf := uniformAxis(nz, lz)
	return NewDescriptor(xc, xf, yc, yf, zc, zf)
}

func uniformAxis(n int, l float64) (c, f []float64) {
	c = make([]float64, n)
	f = make([]float64, n+1)
	d := l / float64(n)
	for i := 0; i <= n; i++ {
		f[i] = float64(i) * d
	}
	for i := 0; i < n; i++ {
		c[i] = 0.5 * (f[i] + f[i+1])
	}
	return
}

func increasing(x []float64) bool {
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return false
		}
	}
	return true
}

// Shape returns the expected array shape [nz, ny, nx] of a quantity at the
// given placement. XYCorner covers interior corners only: the vorticity
// operator excludes the boundary, so corner fields have shape
// [nz, ny-1, nx-1].
func (d *Descriptor) Shape(p Placement) []int {
	switch p {
	case XFace:
		return []int{d.Nz, d.Ny, d.Nx + 1}
	case YFace:
		return []int{d.Nz, d.Ny + 1, d.Nx}
	case ZFace:
		return []int{d.Nz + 1, d.Ny, d.Nx}
	case XYCorner:
		return []int{d.Nz, d.Ny - 1, d.Nx - 1}
	default:
		return []int{d.Nz, d.Ny, d.Nx}
	}
}

// DX returns the cell widths along x, dx[i] = xf[i+1]-xf[i]. DY and DZ are
// the analogs for y and z.
func (d *Descriptor) DX() []float64 { return widths(d.XF) }
func (d *Descriptor) DY() []float64 { return widths(d.YF) }
func (d *Descriptor) DZ() []float64 { return widths(d.ZF) }

func widths(f []float64) []float64 {
	w := make([]float64, len(f)-1)
	for i := range w {
		w[i] = f[i+1] - f[i]
	}
	return w
}

// Centers returns the center coordinates along the named axis ("x", "y" or
// "z"), Faces the face coordinates.
func (d *Descriptor) Centers(axis string) []float64 {
	switch axis {
	case "x":
		return d.XC
	case "y":
		return d.YC
	}
	return d.ZC
}

func (d *Descriptor) Faces(axis string) []float64 {
	switch axis {
	case "x":
		return d.XF
	case "y":
		return d.YF
	}
	return d.ZF
}

// Equal reports whether two descriptors describe the same geometry.
func (d *Descriptor) Equal(o *Descriptor) bool {
	if o == nil {
		return false
	}
	if d.Nx != o.Nx || d.Ny != o.Ny || d.Nz != o.Nz {
		return false
	}
	pairs := [][2][]float64{
		{d.XC, o.XC}, {d.YC, o.YC}, {d.ZC, o.ZC},
		{d.XF, o.XF}, {d.YF, o.YF}, {d.ZF, o.ZF},
	}
	for _, p := range pairs {
		for i := range p[0] {
			if p[0][i] != p[1][i] {
				return false
			}
		}
	}
	return true
}
