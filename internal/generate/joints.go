package generate

import (
	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
	"branchmesh/internal/paths"
	"branchmesh/internal/skeleton"
)

// straightJoint is the bend below which a joint only resets V.
var straightJoint = mathutil.Deg2Rad(2)

// planJoints sweeps one constant-width tube along each raw chain,
// rounding every interior joint.
func planJoints(t *skeleton.Tree, ps []paths.Path, p Params) plan {
	var pl plan
	for i := range ps {
		path := &ps[i]
		if path.Len() < 2 {
			continue
		}
		width := t.Nodes[path.Nodes[1]].Width
		pl.tubes = append(pl.tubes, jointRings(path.Points, width, p.JointSegments))
		if p.EndCap == mesh.CapNone {
			continue
		}
		n := path.Len()
		if t.Nodes[path.First()].IsRoot {
			dir := path.Points[1].Sub(path.Points[0]).SafeNormal(mathutil.UpAxis)
			pl.addCap(path.Points[0], dir, dir.Scale(-1), width)
		}
		if t.Nodes[path.Last()].IsLeaf {
			dir := path.Points[n-1].Sub(path.Points[n-2]).SafeNormal(mathutil.UpAxis)
			pl.addCap(path.Points[n-1], dir, dir, width)
		}
	}
	return pl
}

// jointRings places rings along a polyline. V runs from 1 to 0 along each
// straight run. A nearly straight joint gets two coincident rings, a joint
// that is too sharp (or unrounded) two rings on the miter plane, and any
// other joint segments+1 rings slerped from the incoming to the outgoing
// orientation with V going 0 to 1 across the arc.
func jointRings(points []mathutil.Vec3, width float64, segments int) []mesh.Ring {
	n := len(points)
	if n < 2 {
		return nil
	}
	dirs := make([]mathutil.Vec3, n-1)
	for i := range dirs {
		dirs[i] = points[i+1].Sub(points[i]).SafeNormal(mathutil.UpAxis)
	}
	ring := func(center mathutil.Vec3, q mathutil.Quat, v float64) mesh.Ring {
		return mesh.Ring{
			Center:      center,
			Orientation: q,
			Width:       width,
			Tangent:     q.Rotate(mathutil.UpAxis),
			V:           v,
		}
	}

	rings := make([]mesh.Ring, 0, 2*n+(n-2)*max(segments, 1))
	rings = append(rings, ring(points[0], mathutil.OrientUp(dirs[0]), 1))
	for i := 0; i < n-2; i++ {
		in, out := dirs[i], dirs[i+1]
		joint := points[i+1]
		bend := mathutil.AngleBetween(in, out)

		switch {
		case bend < straightJoint:
			rings = append(rings,
				ring(joint, mathutil.OrientUp(in), 0),
				ring(joint, mathutil.OrientUp(out), 1))
		case segments <= 0 || bend > mathutil.Deg2Rad(180)-straightJoint:
			miter := in.Add(out)
			if miter.LenSq() < mathutil.KindaSmall {
				miter = out
			}
			q := mathutil.OrientUp(miter.Normalize())
			rings = append(rings, ring(joint, q, 0), ring(joint, q, 1))
		default:
			qa, qb := mathutil.OrientUp(in), mathutil.OrientUp(out)
			for j := 0; j <= segments; j++ {
				tt := float64(j) / float64(segments)
				rings = append(rings, ring(joint, mathutil.Slerp(qa, qb, tt), tt))
			}
		}
	}
	return append(rings, ring(points[n-1], mathutil.OrientUp(dirs[n-2]), 0))
}

// Polyline sweeps a single tube of the given radius along points, rounding
// joints like the joints style. Fewer than two points yield empty buffers.
func Polyline(points []mathutil.Vec3, radius float64, radialSegments, jointSegments int, endCap mesh.EndCap) *mesh.Buffers {
	if len(points) < 2 {
		return &mesh.Buffers{}
	}
	p := Defaults()
	p.RadialSegments = radialSegments
	p.JointSegments = jointSegments
	p.EndCap = endCap
	p = p.Normalized()

	var pl plan
	pl.tubes = append(pl.tubes, jointRings(points, radius, p.JointSegments))
	if endCap != mesh.CapNone {
		n := len(points)
		first := points[1].Sub(points[0]).SafeNormal(mathutil.UpAxis)
		last := points[n-1].Sub(points[n-2]).SafeNormal(mathutil.UpAxis)
		pl.addCap(points[0], first, first.Scale(-1), radius)
		pl.addCap(points[n-1], last, last, radius)
	}

	var cs mesh.CrossSection
	buf, _ := pl.build(cs.Points(p.RadialSegments), p.RadialSegments, p)
	return buf
}
