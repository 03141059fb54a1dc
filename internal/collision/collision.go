// Package collision turns evaluated branch paths into a collision setup:
// disabled, the full triangle mesh, or a list of convex hull point sets.
package collision

import (
	"fmt"
	"math"
	"strings"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/paths"
)

// Mode is the collision policy.
type Mode int

const (
	None Mode = iota
	ComplexAsSimple
	SimpleCapsules
)

var modeNames = []string{"none", "complex", "capsules"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range modeNames {
		if n == name {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("collision: unknown mode %q", text)
}

// HullSides is the polygon count at each end of a hull.
const HullSides = 8

// Hull is one convex point set: HullSides points around each end.
type Hull struct {
	Points []mathutil.Vec3 `json:"points"`
}

// Setup is what the host applies to its collision component.
type Setup struct {
	Mode               Mode   `json:"mode"`
	Enabled            bool   `json:"enabled"`
	UseComplexAsSimple bool   `json:"use_complex_as_simple"`
	Hulls              []Hull `json:"hulls,omitempty"`
}

// Options controls hull spacing along a path.
type Options struct {
	Spacing float64 // target arc length per hull
	MinStep float64 // lower bound on the arc length per hull
}

// DefaultOptions spaces hulls roughly every 30 units.
func DefaultOptions() Options {
	return Options{Spacing: 30, MinStep: 5}
}

// Build applies the policy to the paths.
func Build(mode Mode, ps []paths.Path, opt Options) Setup {
	switch mode {
	case ComplexAsSimple:
		return Setup{Mode: mode, Enabled: true, UseComplexAsSimple: true}
	case SimpleCapsules:
		s := Setup{Mode: mode, Enabled: true}
		for i := range ps {
			s.Hulls = append(s.Hulls, Capsules(&ps[i], opt)...)
		}
		return s
	}
	return Setup{Mode: None}
}

// Capsules splits a path into hulls of roughly equal arc length. Each hull
// spans a run of samples and uses the larger of its two end widths.
func Capsules(p *paths.Path, opt Options) []Hull {
	n := p.Len()
	if n < 2 {
		return nil
	}
	if opt.Spacing <= 0 {
		opt = DefaultOptions()
	}
	length := p.Length()
	step := max(length/max(1, math.Ceil(length/opt.Spacing)), opt.MinStep)

	var hulls []Hull
	for i := 0; i < n-1; {
		start := i
		var acc float64
		for i < n-1 && acc < step {
			acc += p.Points[i].Dist(p.Points[i+1])
			i++
		}
		end := min(i, n-1)
		width := max(p.Widths[start], p.Widths[end])
		hulls = append(hulls, prism(p.Points[start], p.Points[end], width))
	}
	return hulls
}

func prism(a, b mathutil.Vec3, width float64) Hull {
	q := mathutil.OrientUp(b.Sub(a).Normalize())
	pts := make([]mathutil.Vec3, 0, 2*HullSides)
	for _, c := range [2]mathutil.Vec3{a, b} {
		for j := 0; j < HullSides; j++ {
			angle := float64(j) * 2 * math.Pi / HullSides
			local := mathutil.Vec3{math.Cos(angle) * width, math.Sin(angle) * width, 0}
			pts = append(pts, c.Add(q.Rotate(local)))
		}
	}
	return Hull{Points: pts}
}
