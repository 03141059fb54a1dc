package generate

import (
	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
)

type capPiece struct {
	center      mathutil.Vec3
	orientation mathutil.Quat
	outward     mathutil.Vec3
	width       float64
}

type cylinderPiece struct {
	start, end mathutil.Vec3
	width      float64
}

// plan is the full list of geometry for one build, collected before any
// vertex is written so the buffers can be allocated to their exact size.
type plan struct {
	tubes     [][]mesh.Ring
	bridges   [][]mesh.Ring
	cylinders []cylinderPiece
	caps      []capPiece
	skipped   int
}

func (pl *plan) size(radial int) mesh.Size {
	var s mesh.Size
	for _, rings := range pl.tubes {
		s = s.Add(mesh.StripSize(len(rings), radial))
	}
	for _, rings := range pl.bridges {
		s = s.Add(mesh.StripSize(len(rings), radial))
	}
	s = s.Add(mesh.CylinderSize(radial).Times(len(pl.cylinders)))
	s = s.Add(mesh.CapSize(radial).Times(len(pl.caps)))
	return s
}

func (pl *plan) build(cs []mathutil.Vec3, radial int, p Params) (*mesh.Buffers, Stats) {
	size := pl.size(radial)
	stats := Stats{
		Planned:            size,
		Transitions:        len(pl.bridges),
		SkippedTransitions: pl.skipped,
		Caps:               len(pl.caps),
	}
	if size.Vertices == 0 || size.Indices == 0 {
		return &mesh.Buffers{}, stats
	}

	b := mesh.NewBuilder(size)
	for _, rings := range pl.tubes {
		b.Strip(cs, radial, rings)
	}
	for _, rings := range pl.bridges {
		b.Strip(cs, radial, rings)
	}
	for _, c := range pl.cylinders {
		b.Cylinder(cs, radial, c.start, c.end, c.width, p.SmoothNormals)
	}
	tip := p.EndCap.TipLength(p.TaperLength)
	for _, c := range pl.caps {
		b.Cap(cs, radial, c.center, c.orientation, c.outward, c.width, tip)
	}
	stats.Written = b.Written()
	return b.Finish(), stats
}

func (pl *plan) addCap(center, dir, outward mathutil.Vec3, width float64) {
	pl.caps = append(pl.caps, capPiece{
		center:      center,
		orientation: mathutil.OrientUp(dir),
		outward:     outward,
		width:       width,
	})
}
