package generate

import (
	"errors"
	"fmt"
	"strings"

	"branchmesh/internal/collision"
	"branchmesh/internal/mathutil"
	"branchmesh/internal/mesh"
	"branchmesh/internal/paths"
	"branchmesh/internal/skeleton"
)

// Strategy selects the skeleton builder.
type Strategy int

const (
	Subdivision Strategy = iota
	Colonization
)

var strategyNames = []string{"subdivision", "colonization"}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	i, err := lookupName(strategyNames, text)
	if err != nil {
		return fmt.Errorf("generate: unknown strategy %q", text)
	}
	*s = Strategy(i)
	return nil
}

// Style selects the mesher.
type Style int

const (
	StyleSpline Style = iota
	StyleCylinders
	StyleJoints
)

var styleNames = []string{"spline", "cylinders", "joints"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(text []byte) error {
	i, err := lookupName(styleNames, text)
	if err != nil {
		return fmt.Errorf("generate: unknown style %q", text)
	}
	*s = Style(i)
	return nil
}

func lookupName(names []string, text []byte) (int, error) {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, errors.New("not found")
}

// Params is the full configuration surface of one tree.
type Params struct {
	Strategy       Strategy      `json:"strategy" toml:"strategy" yaml:"strategy"`
	Style          Style         `json:"style" toml:"style" yaml:"style"`
	Start          mathutil.Vec3 `json:"start" toml:"start" yaml:"start"`
	End            mathutil.Vec3 `json:"end" toml:"end" yaml:"end"`
	TrunkWidth     float64       `json:"trunk_width" toml:"trunk_width" yaml:"trunk_width"`
	RadialSegments int           `json:"radial_segments" toml:"radial_segments" yaml:"radial_segments"`
	SmoothNormals  bool          `json:"smooth_normals" toml:"smooth_normals" yaml:"smooth_normals"`
	Seed           int64         `json:"seed" toml:"seed" yaml:"seed"`

	Subdivision  skeleton.SubdivisionParams  `json:"subdivision" toml:"subdivision" yaml:"subdivision"`
	Colonization skeleton.ColonizationParams `json:"colonization" toml:"colonization" yaml:"colonization"`

	EndCap               mesh.EndCap `json:"end_cap" toml:"end_cap" yaml:"end_cap"`
	TaperLength          float64     `json:"taper_length" toml:"taper_length" yaml:"taper_length"`
	SplineSubdivisions   int         `json:"spline_subdivisions" toml:"spline_subdivisions" yaml:"spline_subdivisions"`
	ForkTransitionLength float64     `json:"fork_transition_length" toml:"fork_transition_length" yaml:"fork_transition_length"`
	ForkTransitionRings  int         `json:"fork_transition_rings" toml:"fork_transition_rings" yaml:"fork_transition_rings"`
	ForkSplitFactor      float64     `json:"fork_split_factor" toml:"fork_split_factor" yaml:"fork_split_factor"`
	ForkReversalCos      float64     `json:"fork_reversal_cos" toml:"fork_reversal_cos" yaml:"fork_reversal_cos"`
	JointSegments        int         `json:"joint_segments" toml:"joint_segments" yaml:"joint_segments"`

	Collision      collision.Mode `json:"collision" toml:"collision" yaml:"collision"`
	CapsuleSpacing float64        `json:"capsule_spacing" toml:"capsule_spacing" yaml:"capsule_spacing"`
	CapsuleMinStep float64        `json:"capsule_min_step" toml:"capsule_min_step" yaml:"capsule_min_step"`
}

// Defaults returns the stock tree.
func Defaults() Params {
	return Params{
		Strategy:             Colonization,
		Style:                StyleSpline,
		End:                  mathutil.Vec3{0, 0, 300},
		TrunkWidth:           2.5,
		RadialSegments:       10,
		SmoothNormals:        true,
		Seed:                 1238,
		Subdivision:          skeleton.DefaultSubdivision(),
		Colonization:         skeleton.DefaultColonization(),
		EndCap:               mesh.CapNone,
		TaperLength:          5,
		SplineSubdivisions:   4,
		ForkTransitionLength: 5,
		ForkTransitionRings:  6,
		ForkSplitFactor:      0.3,
		ForkReversalCos:      -0.866,
		JointSegments:        4,
		Collision:            collision.None,
		CapsuleSpacing:       30,
		CapsuleMinStep:       5,
	}
}

// Validate reports every out-of-range field. Rebuild does not require it;
// it clamps through Normalized instead.
func (p Params) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(p.RadialSegments >= mesh.MinRadialSegments, "radial_segments %d < %d", p.RadialSegments, mesh.MinRadialSegments)
	check(p.TrunkWidth > 0, "trunk_width %g must be positive", p.TrunkWidth)
	check(p.SplineSubdivisions >= 1 && p.SplineSubdivisions <= paths.MaxSubdivisions,
		"spline_subdivisions %d outside 1..%d", p.SplineSubdivisions, paths.MaxSubdivisions)
	check(p.ForkTransitionRings >= minTransitionRings && p.ForkTransitionRings <= maxTransitionRings,
		"fork_transition_rings %d outside %d..%d", p.ForkTransitionRings, minTransitionRings, maxTransitionRings)
	check(p.ForkTransitionLength > 0, "fork_transition_length %g must be positive", p.ForkTransitionLength)
	check(p.ForkReversalCos >= -1 && p.ForkReversalCos <= 1, "fork_reversal_cos %g outside -1..1", p.ForkReversalCos)
	check(p.TaperLength >= 0, "taper_length %g is negative", p.TaperLength)
	check(p.JointSegments >= 0 && p.JointSegments <= maxJointSegments, "joint_segments %d outside 0..%d", p.JointSegments, maxJointSegments)
	check(p.CapsuleSpacing > 0, "capsule_spacing %g must be positive", p.CapsuleSpacing)
	check(p.Subdivision.Iterations >= 0 && p.Subdivision.Iterations <= maxSubdivisionIterations,
		"subdivision.iterations %d outside 0..%d", p.Subdivision.Iterations, maxSubdivisionIterations)
	check(p.Subdivision.ForkLengthMin <= p.Subdivision.ForkLengthMax, "subdivision.fork_length_min > fork_length_max")
	check(p.Subdivision.ForkRotationMin <= p.Subdivision.ForkRotationMax, "subdivision.fork_rotation_min > fork_rotation_max")
	c := p.Colonization
	check(c.CrownRadius >= 1, "colonization.crown_radius %g < 1", c.CrownRadius)
	check(c.AttractorCount >= 0 && c.AttractorCount <= maxAttractors, "colonization.attractor_count %d outside 0..%d", c.AttractorCount, maxAttractors)
	check(c.GrowthStepLength >= 0.1, "colonization.growth_step_length %g < 0.1", c.GrowthStepLength)
	check(c.KillDistance < c.InfluenceRadius, "colonization.kill_distance must be below influence_radius")
	check(c.PipeModelExponent >= 1 && c.PipeModelExponent <= 4, "colonization.pipe_model_exponent %g outside 1..4", c.PipeModelExponent)
	check(c.MaxGrowthIterations >= 0, "colonization.max_growth_iterations %d is negative", c.MaxGrowthIterations)
	return errors.Join(errs...)
}

const (
	minTransitionRings = 2
	maxTransitionRings = 16
	maxJointSegments   = 32
	maxAttractors      = 100000

	// Each generation can triple the segment count.
	maxSubdivisionIterations = 12
)

// Normalized clamps every field into the range the builders need.
func (p Params) Normalized() Params {
	p.RadialSegments = max(p.RadialSegments, mesh.MinRadialSegments)
	p.SplineSubdivisions = mathutil.Clamp(p.SplineSubdivisions, 1, paths.MaxSubdivisions)
	p.ForkTransitionRings = mathutil.Clamp(p.ForkTransitionRings, minTransitionRings, maxTransitionRings)
	p.ForkTransitionLength = max(p.ForkTransitionLength, 0.1)
	p.ForkReversalCos = mathutil.Clamp(p.ForkReversalCos, -1, 1)
	p.TaperLength = max(p.TaperLength, 0)
	p.JointSegments = mathutil.Clamp(p.JointSegments, 0, maxJointSegments)
	p.Subdivision.Iterations = mathutil.Clamp(p.Subdivision.Iterations, 0, maxSubdivisionIterations)
	p.Colonization.CrownRadius = max(p.Colonization.CrownRadius, 1)
	p.Colonization.AttractorCount = mathutil.Clamp(p.Colonization.AttractorCount, 0, maxAttractors)
	p.Colonization.GrowthStepLength = max(p.Colonization.GrowthStepLength, 0.1)
	p.Colonization.PipeModelExponent = mathutil.Clamp(p.Colonization.PipeModelExponent, 1, 4)
	p.Colonization.MaxGrowthIterations = max(p.Colonization.MaxGrowthIterations, 0)
	if p.CapsuleSpacing <= 0 {
		p.CapsuleSpacing = collision.DefaultOptions().Spacing
	}
	p.CapsuleMinStep = max(p.CapsuleMinStep, 0)
	return p
}

func (p Params) collisionOptions() collision.Options {
	return collision.Options{Spacing: p.CapsuleSpacing, MinStep: p.CapsuleMinStep}
}
