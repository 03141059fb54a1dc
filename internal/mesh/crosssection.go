package mesh

import (
	"math"

	"branchmesh/internal/mathutil"
)

// MinRadialSegments is the smallest ring that still encloses volume.
const MinRadialSegments = 3

// CrossSection caches unit-circle points in the XY plane. It holds N+2
// points so neighbour lookups at index N+1 never wrap.
type CrossSection struct {
	n      int
	points []mathutil.Vec3
}

// Points returns the cached circle for n segments, recomputing only when n
// differs from the previous call. n below MinRadialSegments is raised.
func (c *CrossSection) Points(n int) []mathutil.Vec3 {
	n = max(n, MinRadialSegments)
	if c.n == n && c.points != nil {
		return c.points
	}
	step := 2 * math.Pi / float64(n)
	pts := make([]mathutil.Vec3, n+2)
	for i := range pts {
		a := float64(i) * step
		pts[i] = mathutil.Vec3{math.Cos(a), math.Sin(a), 0}
	}
	c.n = n
	c.points = pts
	return pts
}

// Segments returns the cached segment count, 0 before the first call.
func (c *CrossSection) Segments() int {
	return c.n
}
