package skeleton

import (
	"math"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/randx"
)

// ColonizationParams configures space-colonization growth.
type ColonizationParams struct {
	CrownShape          CrownShape `json:"crown_shape" toml:"crown_shape" yaml:"crown_shape"`
	CrownRadius         float64    `json:"crown_radius" toml:"crown_radius" yaml:"crown_radius"`
	AttractorCount      int        `json:"attractor_count" toml:"attractor_count" yaml:"attractor_count"`
	InfluenceRadius     float64    `json:"influence_radius" toml:"influence_radius" yaml:"influence_radius"`
	KillDistance        float64    `json:"kill_distance" toml:"kill_distance" yaml:"kill_distance"`
	GrowthStepLength    float64    `json:"growth_step_length" toml:"growth_step_length" yaml:"growth_step_length"`
	MaxGrowthIterations int        `json:"max_growth_iterations" toml:"max_growth_iterations" yaml:"max_growth_iterations"`
	TipWidth            float64    `json:"tip_width" toml:"tip_width" yaml:"tip_width"`
	PipeModelExponent   float64    `json:"pipe_model_exponent" toml:"pipe_model_exponent" yaml:"pipe_model_exponent"`
}

// DefaultColonization returns the stock crown settings.
func DefaultColonization() ColonizationParams {
	return ColonizationParams{
		CrownShape:          CrownSphere,
		CrownRadius:         100,
		AttractorCount:      500,
		InfluenceRadius:     50,
		KillDistance:        5,
		GrowthStepLength:    5,
		MaxGrowthIterations: 200,
		TipWidth:            0.3,
		PipeModelExponent:   2,
	}
}

const (
	growthJitter = 0.1
	// duplicateFrac is the squared fraction of a step under which a new
	// child is considered a duplicate of an existing sibling.
	duplicateFrac = 0.01
)

// Colonize grows a tree from start toward attractors sampled in a crown at end.
// Zero surviving attractors yields an empty tree.
func Colonize(start, end mathutil.Vec3, trunkWidth float64, p ColonizationParams, rng *randx.Stream) *Tree {
	attractors := SampleAttractors(end, p.CrownShape, p.CrownRadius, p.AttractorCount, rng)
	if len(attractors) == 0 {
		return &Tree{}
	}

	t := &Tree{Attractors: attractors}
	step := max(p.GrowthStepLength, 0.1)
	influenceSq := p.InfluenceRadius * p.InfluenceRadius
	killSq := p.KillDistance * p.KillDistance

	growTrunk(t, start, end, step, influenceSq, attractors)

	live := make([]mathutil.Vec3, len(attractors))
	copy(live, attractors)

	for iter := 0; iter < max(p.MaxGrowthIterations, 1); iter++ {
		dirs := accumulateGrowth(t, live, influenceSq)
		if dirs.count() == 0 {
			break
		}

		grown := 0
		for i, parent := range dirs.order {
			avg := dirs.sum[i].Normalize()
			avg = avg.Add(mathutil.Vec3{
				rng.FRandRange(-growthJitter, growthJitter),
				rng.FRandRange(-growthJitter, growthJitter),
				rng.FRandRange(-growthJitter, growthJitter),
			}).Normalize()

			candidate := t.Nodes[parent].Position.Add(avg.Scale(step))
			if hasNearChild(t, parent, candidate, step*step*duplicateFrac) {
				continue
			}
			t.addNode(candidate, parent)
			grown++
		}
		if grown == 0 {
			break
		}

		live = killAttractors(t, live, killSq)
		if len(live) == 0 {
			break
		}
	}

	t.Classify()
	assignPipeWidths(t, p.TipWidth, p.PipeModelExponent)
	enforceTrunkWidth(t, trunkWidth)
	return t
}

// growTrunk adds a straight chain from start toward end until a node comes
// within the influence radius of an attractor.
func growTrunk(t *Tree, start, end mathutil.Vec3, step, influenceSq float64, attractors []mathutil.Vec3) {
	curr := t.addNode(start, NoParent)
	dir := end.Sub(start).Normalize()
	steps := int(math.Ceil(start.Dist(end)/step)) + 1

	for i := 0; i < steps; i++ {
		pos := t.Nodes[curr].Position
		for _, a := range attractors {
			if pos.DistSq(a) <= influenceSq {
				return
			}
		}
		curr = t.addNode(pos.Add(dir.Scale(step)), curr)
	}
}

// growthDirs accumulates per-node direction sums in first-seen order.
type growthDirs struct {
	order []int
	sum   []mathutil.Vec3
	slot  map[int]int
}

func (g *growthDirs) count() int { return len(g.order) }

func (g *growthDirs) add(node int, dir mathutil.Vec3) {
	if i, ok := g.slot[node]; ok {
		g.sum[i] = g.sum[i].Add(dir)
		return
	}
	g.slot[node] = len(g.order)
	g.order = append(g.order, node)
	g.sum = append(g.sum, dir)
}

// accumulateGrowth assigns every attractor to its nearest node strictly
// within the influence radius.
func accumulateGrowth(t *Tree, live []mathutil.Vec3, influenceSq float64) *growthDirs {
	g := &growthDirs{slot: make(map[int]int)}
	for _, a := range live {
		closest := -1
		best := influenceSq
		for i := range t.Nodes {
			if d := t.Nodes[i].Position.DistSq(a); d < best {
				best = d
				closest = i
			}
		}
		if closest >= 0 {
			g.add(closest, a.Sub(t.Nodes[closest].Position).Normalize())
		}
	}
	return g
}

func hasNearChild(t *Tree, parent int, pos mathutil.Vec3, limitSq float64) bool {
	for _, c := range t.Nodes[parent].Children {
		if t.Nodes[c].Position.DistSq(pos) < limitSq {
			return true
		}
	}
	return false
}

func killAttractors(t *Tree, live []mathutil.Vec3, killSq float64) []mathutil.Vec3 {
	kept := live[:0]
	for _, a := range live {
		dead := false
		for i := range t.Nodes {
			if t.Nodes[i].Position.DistSq(a) <= killSq {
				dead = true
				break
			}
		}
		if !dead {
			kept = append(kept, a)
		}
	}
	return kept
}

// assignPipeWidths resolves widths leaves-first. Children always have
// higher indices than their parent, so a reverse sweep suffices.
func assignPipeWidths(t *Tree, tipWidth, exponent float64) {
	exp := max(exponent, 1)
	inv := 1 / exp
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := &t.Nodes[i]
		if n.IsLeaf {
			n.Width = tipWidth
			continue
		}
		var sum float64
		for _, c := range n.Children {
			sum += math.Pow(t.Nodes[c].Width, exp)
		}
		n.Width = math.Pow(sum, inv)
	}
}

// TrunkEnd follows the single-child chain from the root and returns the
// first fork or leaf together with the number of edges walked.
func (t *Tree) TrunkEnd() (end, steps int) {
	root := t.Root()
	if root < 0 {
		return -1, 0
	}
	idx := root
	for len(t.Nodes[idx].Children) == 1 {
		idx = t.Nodes[idx].Children[0]
		steps++
	}
	return idx, steps
}

// enforceTrunkWidth widens the trunk to trunkWidth, blending into the
// pipe-model width of the first fork over the last quarter (at most five steps).
func enforceTrunkWidth(t *Tree, trunkWidth float64) {
	end, trunkSteps := t.TrunkEnd()
	if end < 0 {
		return
	}
	forkWidth := t.Nodes[end].Width
	blendStart := max(float64(trunkSteps)*0.75, float64(trunkSteps)-5)

	idx := t.Root()
	for s := 0; ; s++ {
		n := &t.Nodes[idx]
		if float64(s) <= blendStart {
			n.Width = max(n.Width, trunkWidth)
		} else {
			tt := (float64(s) - blendStart) / max(float64(trunkSteps)-blendStart, 1)
			n.Width = max(n.Width, mathutil.Lerp(trunkWidth, forkWidth, tt))
		}
		if idx == end {
			return
		}
		idx = n.Children[0]
	}
}
