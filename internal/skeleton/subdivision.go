package skeleton

import (
	"branchmesh/internal/mathutil"
	"branchmesh/internal/randx"
)

// SubdivisionParams configures recursive midpoint subdivision.
// Percentages are in [0, 100].
type SubdivisionParams struct {
	Iterations              int     `json:"iterations" toml:"iterations" yaml:"iterations"`
	MaxBranchOffset         float64 `json:"max_branch_offset" toml:"max_branch_offset" yaml:"max_branch_offset"`
	OffsetAsPercentOfLength bool    `json:"offset_as_percent_of_length" toml:"offset_as_percent_of_length" yaml:"offset_as_percent_of_length"`
	OffsetReduction         float64 `json:"offset_reduction" toml:"offset_reduction" yaml:"offset_reduction"`
	ChanceOfFork            float64 `json:"chance_of_fork" toml:"chance_of_fork" yaml:"chance_of_fork"`
	ForkWidthReduction      float64 `json:"fork_width_reduction" toml:"fork_width_reduction" yaml:"fork_width_reduction"`
	ForkLengthMin           float64 `json:"fork_length_min" toml:"fork_length_min" yaml:"fork_length_min"`
	ForkLengthMax           float64 `json:"fork_length_max" toml:"fork_length_max" yaml:"fork_length_max"`
	ForkRotationMin         float64 `json:"fork_rotation_min" toml:"fork_rotation_min" yaml:"fork_rotation_min"`
	ForkRotationMax         float64 `json:"fork_rotation_max" toml:"fork_rotation_max" yaml:"fork_rotation_max"`
}

// DefaultSubdivision returns the stock lightning-bolt style settings.
func DefaultSubdivision() SubdivisionParams {
	return SubdivisionParams{
		Iterations:              5,
		MaxBranchOffset:         20,
		OffsetAsPercentOfLength: true,
		OffsetReduction:         50,
		ChanceOfFork:            50,
		ForkWidthReduction:      0.75,
		ForkLengthMin:           0.8,
		ForkLengthMax:           1.3,
		ForkRotationMin:         5,
		ForkRotationMax:         40,
	}
}

// OffsetAxes are the two basis vectors used for midpoint displacement
// and fork rotation.
var OffsetAxes = [2]mathutil.Vec3{{1, 0, 0}, {0, 0, 1}}

// StartOffset is the displacement bound for the first generation.
func (p SubdivisionParams) StartOffset(start, end mathutil.Vec3) float64 {
	if p.OffsetAsPercentOfLength {
		return start.Dist(end) * mathutil.Clamp(p.MaxBranchOffset, 0.1, 100) / 100
	}
	return p.MaxBranchOffset
}

type edge struct {
	from, to int
	width    float64
	gen      int
}

// Subdivide splits the start→end trunk for p.Iterations generations.
// Every midpoint and fork end becomes its own node, so no positional
// merging is needed afterwards.
func Subdivide(start, end mathutil.Vec3, trunkWidth float64, p SubdivisionParams, rng *randx.Stream) *Tree {
	pos := []mathutil.Vec3{start, end}
	edges := []edge{{from: 0, to: 1, width: trunkWidth}}

	offset := p.StartOffset(start, end)
	chance := mathutil.Clamp(p.ChanceOfFork, 0, 100) / 100
	reduction := mathutil.Clamp(p.OffsetReduction, 0, 100) / 100

	for gen := 0; gen < p.Iterations; gen++ {
		next := make([]edge, 0, len(edges)*3)
		for _, e := range edges {
			a, b := pos[e.from], pos[e.to]
			normal := b.Sub(a).Cross(OffsetAxes[rng.RandRange(0, 1)]).Normalize()
			mid := a.Add(b).Scale(0.5).Add(normal.Scale(rng.FRandRange(-offset, offset)))

			m := len(pos)
			pos = append(pos, mid)
			next = append(next,
				edge{from: e.from, to: m, width: e.width, gen: e.gen},
				edge{from: m, to: e.to, width: e.width, gen: e.gen},
			)

			if rng.FRand() > 1-chance {
				length := rng.FRandRange(p.ForkLengthMin, p.ForkLengthMax)
				angle := rng.FRandRange(p.ForkRotationMin, p.ForkRotationMax)
				axis := OffsetAxes[rng.RandRange(0, 1)]
				split := mathutil.RotateAngleAxis(mid.Sub(a).Scale(length), angle, axis).Add(mid)

				f := len(pos)
				pos = append(pos, split)
				next = append(next, edge{from: m, to: f, width: e.width * p.ForkWidthReduction, gen: e.gen + 1})
			}
		}
		edges = next
		offset *= reduction
	}

	return fromEdges(pos, edges, trunkWidth)
}

// fromEdges links the edge list into a tree numbered in depth-first
// pre-order, so parents always precede their children.
func fromEdges(pos []mathutil.Vec3, edges []edge, rootWidth float64) *Tree {
	children := make([][]int, len(pos))
	width := make([]float64, len(pos))
	gen := make([]int, len(pos))
	width[0] = rootWidth
	for _, e := range edges {
		children[e.from] = append(children[e.from], e.to)
		width[e.to] = e.width
		gen[e.to] = e.gen
	}

	t := &Tree{Nodes: make([]Node, 0, len(pos))}
	type pending struct{ old, parent int }
	stack := []pending{{old: 0, parent: NoParent}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := t.addNode(pos[top.old], top.parent)
		t.Nodes[idx].Width = width[top.old]
		t.Nodes[idx].Generation = gen[top.old]

		kids := children[top.old]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, pending{old: kids[i], parent: idx})
		}
	}
	t.Classify()
	return t
}
