package mesh

import (
	"fmt"
	"math"
	"strings"

	"branchmesh/internal/mathutil"
)

// EndCap selects how tube ends are closed.
type EndCap int

const (
	CapNone EndCap = iota
	CapFlat
	CapTaper
)

var capNames = []string{"none", "flat", "taper"}

func (c EndCap) String() string {
	if c < 0 || int(c) >= len(capNames) {
		return fmt.Sprintf("EndCap(%d)", int(c))
	}
	return capNames[c]
}

func (c EndCap) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *EndCap) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range capNames {
		if n == name {
			*c = EndCap(i)
			return nil
		}
	}
	return fmt.Errorf("mesh: unknown end cap %q", text)
}

// TipLength returns the cone height for the mode.
func (c EndCap) TipLength(taper float64) float64 {
	if c == CapTaper {
		return taper
	}
	return 0
}

// Cap emits a triangle fan from a tip at center+outward*taper to a rim of
// radial+1 vertices. The winding follows outward, so caps at either end of
// a tube face out.
func (b *Builder) Cap(cs []mathutil.Vec3, radial int, center mathutil.Vec3, orientation mathutil.Quat, outward mathutil.Vec3, width, taper float64) {
	tapered := taper > mathutil.KindaSmall
	slantInv := 0.0
	if tapered {
		slantInv = 1 / math.Sqrt(width*width+taper*taper)
	}
	tangent := orientation.Rotate(mathutil.ForwardAxis)

	tip := b.Vertex(center.Add(outward.Scale(taper)), outward, tangent, 0.5, 0.5)
	rim := b.vert
	for j := 0; j <= radial; j++ {
		offset := orientation.Rotate(cs[j].Scale(width))
		normal := outward
		if tapered {
			normal = offset.Normalize().Scale(taper).Add(outward.Scale(width)).Scale(slantInv)
		}
		b.Vertex(center.Add(offset), normal, tangent, (cs[j][0]+1)*0.5, (cs[j][1]+1)*0.5)
	}

	facing := orientation.Rotate(mathutil.UpAxis).Dot(outward) >= 0
	for j := 0; j < radial; j++ {
		if facing {
			b.Triangle(tip, rim+j, rim+j+1)
		} else {
			b.Triangle(tip, rim+j+1, rim+j)
		}
	}
}
