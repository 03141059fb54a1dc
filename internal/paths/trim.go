package paths

import (
	"branchmesh/internal/mathutil"
	"branchmesh/internal/skeleton"
)

// TrimInfo is the exact cut recorded where a path was shortened at a fork.
type TrimInfo struct {
	Position  mathutil.Vec3
	Width     float64
	Direction mathutil.Vec3
}

// Trims holds both sides of every trimmed fork.
type Trims struct {
	// Parent is keyed by the fork node a path ends at.
	Parent map[int]TrimInfo
	// Child is keyed by the first node after the fork, which identifies
	// the leaving path uniquely.
	Child map[int]TrimInfo
}

// TrimAtForks shortens path ends touching a fork by half the transition
// length. Paths too short to survive their trims are left untouched.
func TrimAtForks(t *skeleton.Tree, ps []Path, transitionLength float64) Trims {
	half := max(transitionLength, 0.1) * 0.5
	trims := Trims{Parent: make(map[int]TrimInfo), Child: make(map[int]TrimInfo)}

	for i := range ps {
		p := &ps[i]
		if p.Len() < 3 {
			continue
		}
		trimEnd := t.Nodes[p.Last()].IsFork
		trimStart := t.Nodes[p.First()].IsFork

		cuts := 0
		if trimEnd {
			cuts++
		}
		if trimStart {
			cuts++
		}
		if p.Total <= float64(cuts)*half*2 {
			continue
		}

		if trimEnd {
			p.trimEnd(p.Total - half)
			if p.Len() >= 2 {
				trims.Parent[p.Last()] = TrimInfo{
					Position:  p.Points[p.Len()-1],
					Width:     p.Widths[p.Len()-1],
					Direction: p.EndDir(),
				}
			}
		}

		if trimStart {
			p.trimStart(half)
			if p.Len() >= 2 && len(p.Nodes) >= 2 {
				trims.Child[p.Nodes[1]] = TrimInfo{
					Position:  p.Points[0],
					Width:     p.Widths[0],
					Direction: p.StartDir(),
				}
			}
		}
	}
	return trims
}

// trimEnd cuts the samples at arc length dist.
func (p *Path) trimEnd(dist float64) {
	keep := p.Len() - 1
	for keep > 0 && p.Distances[keep] > dist {
		keep--
	}
	if keep >= p.Len()-1 {
		return
	}
	pt, w := p.interpolate(keep, dist)
	p.Points = append(p.Points[:keep+1], pt)
	p.Widths = append(p.Widths[:keep+1], w)
	p.Distances = append(p.Distances[:keep+1], dist)
	p.Total = dist
}

// trimStart drops the samples before arc length dist, replacing the last
// dropped one with the exact cut.
func (p *Path) trimStart(dist float64) {
	first := 0
	for first < p.Len()-1 && p.Distances[first] < dist {
		first++
	}
	if first == 0 {
		return
	}
	at := first - 1
	pt, w := p.interpolate(at, dist)
	p.Points[at] = pt
	p.Widths[at] = w
	p.Distances[at] = dist

	p.Points = p.Points[at:]
	p.Widths = p.Widths[at:]
	p.Distances = p.Distances[at:]
}

// interpolate returns the point and width at arc length dist between samples i and i+1.
func (p *Path) interpolate(i int, dist float64) (mathutil.Vec3, float64) {
	d0, d1 := p.Distances[i], p.Distances[i+1]
	f := 0.0
	if d1 > d0 {
		f = (dist - d0) / (d1 - d0)
	}
	return p.Points[i].Lerp(p.Points[i+1], f), mathutil.Lerp(p.Widths[i], p.Widths[i+1], f)
}
