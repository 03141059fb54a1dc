package generate

import (
	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
	"branchmesh/internal/skeleton"
)

// planCylinders emits one independent cylinder per segment. Segments
// leaving the root get a cap at their start, segments reaching a leaf a cap
// at their end.
func planCylinders(t *skeleton.Tree, p Params) plan {
	var pl plan
	root := t.Root()
	for _, s := range t.Segments() {
		pl.cylinders = append(pl.cylinders, cylinderPiece{start: s.Start, end: s.End, width: s.Width})
		if p.EndCap == mesh.CapNone {
			continue
		}
		dir := s.End.Sub(s.Start).SafeNormal(mathutil.UpAxis)
		if s.StartNode == root {
			pl.addCap(s.Start, dir, dir.Scale(-1), s.Width)
		}
		if t.Nodes[s.EndNode].IsLeaf {
			pl.addCap(s.End, dir, dir, s.Width)
		}
	}
	return pl
}
