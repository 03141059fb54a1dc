// Package mesh is the shared geometry kernel: cross-section caching, vertex
// buffers with an exact-size write cursor, ring sweeping, quad-strip
// stitching, end caps and per-segment cylinders.
package mesh

import (
	"image/color"
	"math"

	"branchmesh/internal/mathutil"
)

// Buffers holds one mesh section as parallel per-vertex arrays.
// Triangles are counter-clockwise seen from outside.
type Buffers struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	Tangents  []mathutil.Vec3
	UVs       [][2]float64
	Indices   []uint32

	// Colors is part of the section layout but never filled.
	Colors []color.NRGBA
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	if b == nil {
		return 0
	}
	return len(b.Positions)
}

// TriangleCount returns the number of index triples.
func (b *Buffers) TriangleCount() int {
	if b == nil {
		return 0
	}
	return len(b.Indices) / 3
}

// Empty reports whether there is no geometry.
func (b *Buffers) Empty() bool {
	return b.VertexCount() == 0
}

// Bounds returns the axis-aligned bounding box. Empty buffers return zero vectors.
func (b *Buffers) Bounds() (lo, hi mathutil.Vec3) {
	if b.Empty() {
		return lo, hi
	}
	lo = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range b.Positions {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

// Size is a vertex/index budget.
type Size struct {
	Vertices int
	Indices  int
}

func (s Size) Add(o Size) Size {
	return Size{Vertices: s.Vertices + o.Vertices, Indices: s.Indices + o.Indices}
}

// Times scales the budget by n copies.
func (s Size) Times(n int) Size {
	return Size{Vertices: s.Vertices * n, Indices: s.Indices * n}
}

// RingVertices is the vertex count of one ring; the seam vertex is duplicated.
func RingVertices(radial int) int {
	return radial + 1
}

// StripSize is the budget of rings stitched in sequence.
func StripSize(rings, radial int) Size {
	if rings < 2 {
		return Size{}
	}
	return Size{
		Vertices: rings * RingVertices(radial),
		Indices:  (rings - 1) * radial * 6,
	}
}

// CapSize is the budget of one end cap: tip plus a duplicated rim.
func CapSize(radial int) Size {
	return Size{Vertices: radial + 2, Indices: radial * 3}
}

// CylinderSize is the budget of one unshared-vertex cylinder.
func CylinderSize(radial int) Size {
	return Size{Vertices: radial * 4, Indices: radial * 6}
}
