package mesh

import (
	"github.com/chewxy/math32"

	"branchmesh/internal/mathutil"
)

// Packed is the float32 layout handed to renderers and exporters.
type Packed struct {
	Positions [][3]float32
	Normals   [][3]float32
	Tangents  [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// Pack converts the buffers to float32, renormalizing directions after rounding.
func (b *Buffers) Pack() *Packed {
	n := b.VertexCount()
	p := &Packed{
		Positions: make([][3]float32, n),
		Normals:   make([][3]float32, n),
		Tangents:  make([][3]float32, n),
		UVs:       make([][2]float32, n),
	}
	if b == nil {
		return p
	}
	for i := 0; i < n; i++ {
		p.Positions[i] = to32(b.Positions[i])
		p.Normals[i] = unit32(b.Normals[i])
		p.Tangents[i] = unit32(b.Tangents[i])
		p.UVs[i] = [2]float32{float32(b.UVs[i][0]), float32(b.UVs[i][1])}
	}
	p.Indices = append([]uint32(nil), b.Indices...)
	return p
}

func to32(v mathutil.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func unit32(v mathutil.Vec3) [3]float32 {
	f := to32(v)
	l := math32.Sqrt(f[0]*f[0] + f[1]*f[1] + f[2]*f[2])
	if l < 1e-6 {
		return f
	}
	return [3]float32{f[0] / l, f[1] / l, f[2] / l}
}
