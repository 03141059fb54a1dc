package mesh

import "branchmesh/internal/mathutil"

// Ring is the sweep state at one sample of a tube.
type Ring struct {
	Center      mathutil.Vec3
	Orientation mathutil.Quat // maps UpAxis onto the local tube axis
	Width       float64
	Tangent     mathutil.Vec3
	V           float64
}

// Ring emits radial+1 vertices around r and returns the first index.
// U runs from 1 to 0 around the ring so the seam vertex closes the texture.
func (b *Builder) Ring(cs []mathutil.Vec3, radial int, r Ring) int {
	base := b.vert
	uStep := 1 / float64(radial)
	for j := 0; j <= radial; j++ {
		offset := r.Orientation.Rotate(cs[j].Scale(r.Width))
		b.Vertex(r.Center.Add(offset), offset.Normalize(), r.Tangent, 1-float64(j)*uStep, r.V)
	}
	return base
}

// Stitch joins two rings emitted by Ring with two triangles per quad.
// ring2 must lie further along the tube axis than ring1.
func (b *Builder) Stitch(ring1, ring2, radial int) {
	for j := 0; j < radial; j++ {
		v0 := ring1 + j
		v1 := ring1 + j + 1
		v2 := ring2 + j + 1
		v3 := ring2 + j
		b.Triangle(v0, v2, v3)
		b.Triangle(v0, v1, v2)
	}
}

// Strip emits rings in order and stitches each consecutive pair.
// Fewer than two rings emit nothing.
func (b *Builder) Strip(cs []mathutil.Vec3, radial int, rings []Ring) {
	if len(rings) < 2 {
		return
	}
	prev := b.Ring(cs, radial, rings[0])
	for _, r := range rings[1:] {
		next := b.Ring(cs, radial, r)
		b.Stitch(prev, next, radial)
		prev = next
	}
}

// AxisDirection is the ring axis at sample i of a polyline: a central
// difference inside, one-sided at the ends, UpAxis when degenerate.
func AxisDirection(points []mathutil.Vec3, i int) mathutil.Vec3 {
	n := len(points)
	var d mathutil.Vec3
	switch {
	case n < 2:
		return mathutil.UpAxis
	case i == 0:
		d = points[1].Sub(points[0])
	case i == n-1:
		d = points[n-1].Sub(points[n-2])
	default:
		d = points[i+1].Sub(points[i-1])
	}
	return d.SafeNormal(mathutil.UpAxis)
}
