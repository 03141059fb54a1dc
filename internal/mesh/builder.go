package mesh

import "branchmesh/internal/mathutil"

// Builder writes into buffers sized up front and owns the write cursors.
type Builder struct {
	buf      Buffers
	planned  Size
	vert     int
	idx      int
	overflow bool
}

// NewBuilder allocates exactly the planned budget.
func NewBuilder(planned Size) *Builder {
	return &Builder{
		planned: planned,
		buf: Buffers{
			Positions: make([]mathutil.Vec3, planned.Vertices),
			Normals:   make([]mathutil.Vec3, planned.Vertices),
			Tangents:  make([]mathutil.Vec3, planned.Vertices),
			UVs:       make([][2]float64, planned.Vertices),
			Indices:   make([]uint32, planned.Indices),
		},
	}
}

// Vertex writes one vertex and returns its index.
func (b *Builder) Vertex(pos, normal, tangent mathutil.Vec3, u, v float64) int {
	i := b.vert
	b.vert++
	if i >= len(b.buf.Positions) {
		b.overflow = true
		b.buf.Positions = append(b.buf.Positions, pos)
		b.buf.Normals = append(b.buf.Normals, normal)
		b.buf.Tangents = append(b.buf.Tangents, tangent)
		b.buf.UVs = append(b.buf.UVs, [2]float64{u, v})
		return i
	}
	b.buf.Positions[i] = pos
	b.buf.Normals[i] = normal
	b.buf.Tangents[i] = tangent
	b.buf.UVs[i] = [2]float64{u, v}
	return i
}

// Triangle writes one index triple.
func (b *Builder) Triangle(v0, v1, v2 int) {
	for _, v := range [3]int{v0, v1, v2} {
		if b.idx >= len(b.buf.Indices) {
			b.overflow = true
			b.buf.Indices = append(b.buf.Indices, uint32(v))
		} else {
			b.buf.Indices[b.idx] = uint32(v)
		}
		b.idx++
	}
}

// Planned returns the budget the builder was created with.
func (b *Builder) Planned() Size {
	return b.planned
}

// Written returns how much has been emitted so far.
func (b *Builder) Written() Size {
	return Size{Vertices: b.vert, Indices: b.idx}
}

// Overflowed reports whether more was written than planned.
func (b *Builder) Overflowed() bool {
	return b.overflow
}

// Finish trims unused tail entries and returns the buffers.
func (b *Builder) Finish() *Buffers {
	out := b.buf
	out.Positions = out.Positions[:b.vert]
	out.Normals = out.Normals[:b.vert]
	out.Tangents = out.Tangents[:b.vert]
	out.UVs = out.UVs[:b.vert]
	out.Indices = out.Indices[:b.idx]
	return &out
}
