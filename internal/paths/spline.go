package paths

import (
	"math"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/skeleton"
)

// Alpha selects the centripetal parameterization.
const Alpha = 0.5

// MaxSubdivisions bounds samples per control segment.
const MaxSubdivisions = 32

func knot(ti float64, pi, pj mathutil.Vec3, alpha float64) float64 {
	return ti + math.Pow(max(pi.Dist(pj), mathutil.KindaSmall), alpha)
}

func safeDiv(num, den float64) float64 {
	if math.Abs(den) > mathutil.KindaSmall {
		return num / den
	}
	return 0
}

// CatmullRom evaluates the Barry-Goldman pyramid between p1 and p2 at t in [0,1].
func CatmullRom(p0, p1, p2, p3 mathutil.Vec3, t, alpha float64) mathutil.Vec3 {
	t0 := 0.0
	t1 := knot(t0, p0, p1, alpha)
	t2 := knot(t1, p1, p2, alpha)
	t3 := knot(t2, p2, p3, alpha)

	kt := mathutil.Lerp(t1, t2, t)

	a1 := p0.Scale(safeDiv(t1-kt, t1-t0)).Add(p1.Scale(safeDiv(kt-t0, t1-t0)))
	a2 := p1.Scale(safeDiv(t2-kt, t2-t1)).Add(p2.Scale(safeDiv(kt-t1, t2-t1)))
	a3 := p2.Scale(safeDiv(t3-kt, t3-t2)).Add(p3.Scale(safeDiv(kt-t2, t3-t2)))

	b1 := a1.Scale(safeDiv(t2-kt, t2-t0)).Add(a2.Scale(safeDiv(kt-t0, t2-t0)))
	b2 := a2.Scale(safeDiv(t3-kt, t3-t1)).Add(a3.Scale(safeDiv(kt-t1, t3-t1)))

	return b1.Scale(safeDiv(t2-kt, t2-t1)).Add(b2.Scale(safeDiv(kt-t1, t2-t1)))
}

// Evaluate samples every path with subdivs points per control segment.
// Out-of-range neighbours are reflected across the end control points.
func Evaluate(t *skeleton.Tree, ps []Path, subdivs int) {
	subdivs = mathutil.Clamp(subdivs, 1, MaxSubdivisions)
	for i := range ps {
		evaluate(t, &ps[i], subdivs)
	}
}

func evaluate(t *skeleton.Tree, p *Path, subdivs int) {
	n := len(p.Nodes)
	p.reset((n-1)*subdivs + 1)
	if n < 2 {
		return
	}

	ctrl := make([]mathutil.Vec3, n)
	widths := make([]float64, n)
	for k, idx := range p.Nodes {
		ctrl[k] = t.Nodes[idx].Position
		widths[k] = t.Nodes[idx].Width
	}

	p.Points = append(p.Points, ctrl[0])
	p.Widths = append(p.Widths, widths[0])
	p.Distances = append(p.Distances, 0)

	for seg := 0; seg < n-1; seg++ {
		p1, p2 := ctrl[seg], ctrl[seg+1]
		p0 := p1.Add(p1.Sub(p2))
		if seg > 0 {
			p0 = ctrl[seg-1]
		}
		p3 := p2.Add(p2.Sub(p1))
		if seg+2 < n {
			p3 = ctrl[seg+2]
		}

		for step := 1; step <= subdivs; step++ {
			tt := float64(step) / float64(subdivs)
			pt := CatmullRom(p0, p1, p2, p3, tt, Alpha)

			p.Total += p.Points[len(p.Points)-1].Dist(pt)
			p.Points = append(p.Points, pt)
			p.Widths = append(p.Widths, mathutil.Lerp(widths[seg], widths[seg+1], tt))
			p.Distances = append(p.Distances, p.Total)
		}
	}
}
