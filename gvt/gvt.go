// Package gvt implements fixed-shape grid arithmetic for a 3-D cube that is
// partitioned into rectangular fragments (tiles). It is the geometric
// foundation the planner uses to translate cube-global coordinates into
// fragment identifiers and back, and to enumerate the fragments that make up
// a slice through the cube.
//
// Every operation here is pure, total over valid inputs, and allocates
// nothing beyond its result.
package gvt

import "fmt"

const ndim = 3

// CP is a cube point: a global sample coordinate.
type CP [ndim]int

// FID is a fragment identifier: the position of a fragment within the grid.
type FID [ndim]int

// FP is a fragment-local point: a coordinate relative to a fragment's origin.
type FP [ndim]int

// String returns the canonical textual form of a fragment id, "i0-i1-i2".
func (f FID) String() string {
	return fmt.Sprintf("%d-%d-%d", f[0], f[1], f[2])
}

// Less reports whether f sorts lexicographically before other.
func (f FID) Less(other FID) bool {
	for i := 0; i < ndim; i++ {
		if f[i] != other[i] {
			return f[i] < other[i]
		}
	}
	return false
}

// Equal reports whether f and other name the same fragment.
func (f FID) Equal(other FID) bool {
	return f == other
}

// InvalidGridError is returned when a Grid is constructed with a zero cube
// or fragment extent along any axis.
type InvalidGridError struct {
	CubeShape     [ndim]int
	FragmentShape [ndim]int
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf(
		"invalid grid: cube_shape=%v fragment_shape=%v (all extents must be >= 1)",
		e.CubeShape, e.FragmentShape,
	)
}

// Grid describes a 3-D rectilinear grid: a cube of a given shape, cut into
// fragments of a given shape. It is immutable once constructed.
type Grid struct {
	cube [ndim]int
	frag [ndim]int
}

// New constructs a Grid from a cube shape and a fragment shape. It fails
// with *InvalidGridError if any extent is less than 1.
func New(cubeShape, fragmentShape [ndim]int) (Grid, error) {
	for i := 0; i < ndim; i++ {
		if cubeShape[i] < 1 || fragmentShape[i] < 1 {
			return Grid{}, &InvalidGridError{CubeShape: cubeShape, FragmentShape: fragmentShape}
		}
	}
	return Grid{cube: cubeShape, frag: fragmentShape}, nil
}

// CubeShape returns the grid's total cube extent.
func (g Grid) CubeShape() [ndim]int { return g.cube }

// FragmentShape returns the grid's fragment extent.
func (g Grid) FragmentShape() [ndim]int { return g.frag }

// FragmentCount returns the number of fragments along dim, i.e.
// ceil(cube_shape[dim] / fragment_shape[dim]).
func (g Grid) FragmentCount(dim int) int {
	return ceilDiv(g.cube[dim], g.frag[dim])
}

// ToLocal returns the fragment-local point corresponding to global point p.
func (g Grid) ToLocal(p CP) FP {
	var out FP
	for i := 0; i < ndim; i++ {
		out[i] = mod(p[i], g.frag[i])
	}
	return out
}

// FragID returns the fragment identifier containing global point p.
func (g Grid) FragID(p CP) FID {
	var out FID
	for i := 0; i < ndim; i++ {
		out[i] = floorDiv(p[i], g.frag[i])
	}
	return out
}

// ToGlobal reconstructs the global point from a fragment id and a
// fragment-local point within it.
func (g Grid) ToGlobal(id FID, local FP) CP {
	var out CP
	for i := 0; i < ndim; i++ {
		out[i] = id[i]*g.frag[i] + local[i]
	}
	return out
}

// Slice enumerates, in lexicographic order, every fragment id whose dim-th
// coordinate equals pin/fragment_shape[dim]. The other two axes vary across
// their full fragment-count range in their natural order: the lower-numbered
// axis outer, the higher-numbered axis inner.
func (g Grid) Slice(dim int, pin int) []FID {
	outer := (dim + 1) % ndim
	inner := (dim + 2) % ndim
	if outer > inner {
		outer, inner = inner, outer
	}
	fixed := floorDiv(pin, g.frag[dim])

	nOuter := g.FragmentCount(outer)
	nInner := g.FragmentCount(inner)

	ids := make([]FID, 0, nOuter*nInner)
	var id FID
	id[dim] = fixed
	for o := 0; o < nOuter; o++ {
		id[outer] = o
		for i := 0; i < nInner; i++ {
			id[inner] = i
			ids = append(ids, id)
		}
	}
	return ids
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func floorDiv(a, b int) int {
	return a / b
}

func mod(a, b int) int {
	return a % b
}
