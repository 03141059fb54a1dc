package mesh

import "branchmesh/internal/mathutil"

// Cylinder emits an open cylinder from start to end with four unshared
// vertices per quad. With smooth set, each side's normal is averaged with
// the neighbouring face on that side.
func (b *Builder) Cylinder(cs []mathutil.Vec3, radial int, start, end mathutil.Vec3, width float64, smooth bool) {
	axis := end.Sub(start)
	q := mathutil.OrientUp(axis.SafeNormal(mathutil.UpAxis))

	corner := func(k int) mathutil.Vec3 {
		return start.Add(q.Rotate(cs[k].Scale(width)))
	}
	face := func(k int) mathutil.Vec3 {
		if k < 0 {
			k += radial
		}
		p0, p1 := corner(k), corner(k+1)
		return p1.Sub(p0).Cross(axis).Normalize()
	}

	n := float64(radial)
	for i := 0; i < radial; i++ {
		p0 := corner(i)
		p1 := corner(i + 1)
		p2 := p1.Add(axis)
		p3 := p0.Add(axis)

		curr := face(i)
		left, right := curr, curr
		if smooth {
			left = curr.Add(face(i - 1)).Normalize()
			right = curr.Add(face(i + 1)).Normalize()
		}
		tangent := p0.Sub(p1).Normalize()
		u0 := 1 - float64(i)/n
		u1 := 1 - float64(i+1)/n

		v0 := b.Vertex(p0, left, tangent, u0, 1)
		v1 := b.Vertex(p1, right, tangent, u1, 1)
		v2 := b.Vertex(p2, right, tangent, u1, 0)
		v3 := b.Vertex(p3, left, tangent, u0, 0)

		b.Triangle(v0, v2, v3)
		b.Triangle(v0, v1, v2)
	}
}
