package generate

import (
	"math"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
	"branchmesh/internal/paths"
	"branchmesh/internal/skeleton"
)

// planSpline sweeps a tube along every evaluated path, bridges each fork
// with a short transition per child and caps root and leaf ends.
func planSpline(t *skeleton.Tree, ps []paths.Path, trims paths.Trims, p Params) plan {
	var pl plan
	for i := range ps {
		path := &ps[i]
		if path.Len() < 2 {
			continue
		}
		pl.tubes = append(pl.tubes, tubeRings(path))
		if p.EndCap != mesh.CapNone {
			pl.addPathCaps(t, path)
		}
	}
	pl.addTransitions(t, trims, p)
	return pl
}

func tubeRings(path *paths.Path) []mesh.Ring {
	rings := make([]mesh.Ring, path.Len())
	for i, pt := range path.Points {
		dir := mesh.AxisDirection(path.Points, i)
		rings[i] = mesh.Ring{
			Center:      pt,
			Orientation: mathutil.OrientUp(dir),
			Width:       path.Widths[i],
			Tangent:     dir,
			V:           path.Distances[i],
		}
	}
	return rings
}

// addPathCaps closes a path where it starts at the root or ends at a leaf.
func (pl *plan) addPathCaps(t *skeleton.Tree, path *paths.Path) {
	n := path.Len()
	if t.Nodes[path.First()].IsRoot {
		dir := mesh.AxisDirection(path.Points, 0)
		pl.addCap(path.Points[0], dir, dir.Scale(-1), path.Widths[0])
	}
	if t.Nodes[path.Last()].IsLeaf {
		dir := mesh.AxisDirection(path.Points, n-1)
		pl.addCap(path.Points[n-1], dir, dir, path.Widths[n-1])
	}
}

// addTransitions bridges the parent trim of every fork to each child trim.
// Children that nearly reverse the incoming direction are skipped.
func (pl *plan) addTransitions(t *skeleton.Tree, trims paths.Trims, p Params) {
	half := p.ForkTransitionLength * 0.5
	for f, node := range t.Nodes {
		if !node.IsFork {
			continue
		}
		start, ok := trims.Parent[f]
		if !ok {
			dir := mathutil.UpAxis
			if node.Parent != skeleton.NoParent {
				dir = node.Position.Sub(t.Nodes[node.Parent].Position).SafeNormal(mathutil.UpAxis)
			}
			start = paths.TrimInfo{
				Position:  node.Position.Sub(dir.Scale(half)),
				Width:     node.Width,
				Direction: dir,
			}
		}

		// Node directions decide skipping and the split; trims only place the rings.
		nodeDirs := make([]mathutil.Vec3, len(node.Children))
		ends := make([]paths.TrimInfo, len(node.Children))
		for k, c := range node.Children {
			child := t.Nodes[c]
			dir := child.Position.Sub(node.Position).SafeNormal(mathutil.UpAxis)
			nodeDirs[k] = dir
			end, ok := trims.Child[c]
			if !ok {
				end = paths.TrimInfo{
					Position:  node.Position.Add(dir.Scale(half)),
					Width:     child.Width,
					Direction: dir,
				}
			}
			ends[k] = end
		}

		for k, end := range ends {
			dir := nodeDirs[k]
			if start.Direction.Dot(dir) < p.ForkReversalCos {
				pl.skipped++
				continue
			}
			away := dir.Sub(start.Direction)
			if len(ends) == 2 {
				away = dir.Sub(nodeDirs[1-k])
			}
			var offset mathutil.Vec3
			if !away.NearlyZero(mathutil.KindaSmall) {
				offset = away.Normalize().Scale(end.Width * p.ForkSplitFactor)
			}
			pl.bridges = append(pl.bridges, bridgeRings(start, end, offset, p.ForkTransitionRings, p.ForkTransitionLength))
		}
	}
}

// bridgeRings interpolates rings+1 rings from start to end. The center
// bulges along offset, peaking halfway.
func bridgeRings(start, end paths.TrimInfo, offset mathutil.Vec3, rings int, length float64) []mesh.Ring {
	qa := mathutil.OrientUp(start.Direction)
	qb := mathutil.OrientUp(end.Direction)
	out := make([]mesh.Ring, rings+1)
	for i := range out {
		tt := float64(i) / float64(rings)
		out[i] = mesh.Ring{
			Center:      start.Position.Lerp(end.Position, tt).Add(offset.Scale(math.Sin(math.Pi * tt))),
			Orientation: mathutil.Slerp(qa, qb, tt),
			Width:       mathutil.Lerp(start.Width, end.Width, tt),
			Tangent:     start.Direction.Lerp(end.Direction, tt).SafeNormal(end.Direction),
			V:           tt * length,
		}
	}
	return out
}
