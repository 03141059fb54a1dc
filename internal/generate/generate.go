// Package generate rebuilds a complete tree mesh from a parameter set.
//
// A build is a pure function of Params: the random stream is reseeded from
// Params.Seed on every call, the skeleton is grown, decomposed into paths and
// swept into a single set of mesh buffers sized exactly before any vertex is
// written.
package generate

import (
	"branchmesh/internal/collision"
	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
	"branchmesh/internal/paths"
	"branchmesh/internal/randx"
	"branchmesh/internal/skeleton"
)

// Stats compares the sizing pass with what was emitted.
type Stats struct {
	Planned            mesh.Size
	Written            mesh.Size
	Paths              int
	Transitions        int
	SkippedTransitions int
	Caps               int
}

// Result is everything one build produces.
type Result struct {
	Tree      *skeleton.Tree
	Paths     []paths.Path
	Mesh      *mesh.Buffers
	Collision collision.Setup
	Stats     Stats
}

// Rebuild runs the whole pipeline. It never fails: degenerate input yields
// an empty mesh.
func Rebuild(p Params) *Result {
	p = p.Normalized()
	tree := Skeleton(p)

	res := &Result{Tree: tree, Mesh: &mesh.Buffers{}}
	if tree.Len() < 2 {
		res.Collision = collision.Build(p.Collision, nil, p.collisionOptions())
		return res
	}

	var pl plan
	var hullPaths []paths.Path
	switch p.Style {
	case StyleCylinders:
		pl = planCylinders(tree, p)
		hullPaths = segmentPaths(tree)
	case StyleJoints:
		res.Paths = paths.Extract(tree)
		paths.Raw(tree, res.Paths)
		pl = planJoints(tree, res.Paths, p)
		hullPaths = res.Paths
	default:
		res.Paths = paths.Extract(tree)
		paths.Evaluate(tree, res.Paths, p.SplineSubdivisions)
		trims := paths.TrimAtForks(tree, res.Paths, p.ForkTransitionLength)
		pl = planSpline(tree, res.Paths, trims, p)
		hullPaths = res.Paths
	}

	var cs mesh.CrossSection
	res.Mesh, res.Stats = pl.build(cs.Points(p.RadialSegments), p.RadialSegments, p)
	res.Stats.Paths = len(res.Paths)
	res.Collision = collision.Build(p.Collision, hullPaths, p.collisionOptions())
	return res
}

// Skeleton grows the node tree for p with a freshly seeded stream.
func Skeleton(p Params) *skeleton.Tree {
	rng := randx.New(p.Seed)
	if p.Strategy == Subdivision {
		return skeleton.Subdivide(p.Start, p.End, p.TrunkWidth, p.Subdivision, rng)
	}
	return skeleton.Colonize(p.Start, p.End, p.TrunkWidth, p.Colonization, rng)
}

// segmentPaths turns every segment into a two-sample path for hull fitting.
func segmentPaths(t *skeleton.Tree) []paths.Path {
	segs := t.Segments()
	out := make([]paths.Path, 0, len(segs))
	for _, s := range segs {
		out = append(out, paths.Path{
			Nodes:     []int{s.StartNode, s.EndNode},
			Points:    []mathutil.Vec3{s.Start, s.End},
			Widths:    []float64{s.Width, s.Width},
			Distances: []float64{0, s.Start.Dist(s.End)},
			Total:     s.Start.Dist(s.End),
		})
	}
	return out
}
