package skeleton

import (
	"fmt"
	"strings"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/randx"
)

// CrownShape selects the attractor volume.
type CrownShape int

const (
	CrownSphere CrownShape = iota
	CrownHemisphere
	CrownCone
	CrownCylinder
)

var crownNames = []string{"sphere", "hemisphere", "cone", "cylinder"}

func (s CrownShape) String() string {
	if s < 0 || int(s) >= len(crownNames) {
		return fmt.Sprintf("CrownShape(%d)", int(s))
	}
	return crownNames[s]
}

func (s CrownShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CrownShape) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range crownNames {
		if n == name {
			*s = CrownShape(i)
			return nil
		}
	}
	return fmt.Errorf("skeleton: unknown crown shape %q", text)
}

// Contains tests a point of the [-1,1] cube against the unit shape.
// The cone has its apex at the origin and widens toward -Z.
func (s CrownShape) Contains(p mathutil.Vec3) bool {
	x, y, z := p[0], p[1], p[2]
	switch s {
	case CrownSphere:
		return x*x+y*y+z*z <= 1
	case CrownHemisphere:
		return x*x+y*y+z*z <= 1 && z >= 0
	case CrownCone:
		return z <= 0 && x*x+y*y <= z*z
	case CrownCylinder:
		return x*x+y*y <= 1
	}
	return false
}

// maxSampleAttempts bounds rejection sampling per attractor.
const maxSampleAttempts = 100

// SampleAttractors places up to count points inside the crown centered at center.
// Points that fail every attempt are dropped.
func SampleAttractors(center mathutil.Vec3, shape CrownShape, radius float64, count int, rng *randx.Stream) []mathutil.Vec3 {
	if count <= 0 {
		return nil
	}
	r := max(radius, 1)
	out := make([]mathutil.Vec3, 0, count)
	for i := 0; i < count; i++ {
		for attempt := 0; attempt < maxSampleAttempts; attempt++ {
			p := mathutil.Vec3{
				rng.FRandRange(-1, 1),
				rng.FRandRange(-1, 1),
				rng.FRandRange(-1, 1),
			}
			if shape.Contains(p) {
				out = append(out, center.Add(p.Scale(r)))
				break
			}
		}
	}
	return out
}
