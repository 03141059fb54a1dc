// Package paths decomposes a skeleton into root/fork-bounded paths,
// fits centripetal Catmull-Rom splines through them and trims them at forks.
package paths

import (
	"branchmesh/internal/mathutil"
	"branchmesh/internal/skeleton"
)

// Path is a maximal run of nodes between a root/fork and the next fork/leaf.
// After Evaluate, the sample slices are parallel.
type Path struct {
	Nodes []int

	Points    []mathutil.Vec3
	Widths    []float64
	Distances []float64 // cumulative arc length per sample
	Total     float64
}

// First and Last return the bounding node indices.
func (p *Path) First() int { return p.Nodes[0] }
func (p *Path) Last() int  { return p.Nodes[len(p.Nodes)-1] }

// Len is the number of samples.
func (p *Path) Len() int { return len(p.Points) }

// Length is the arc length spanned by the current samples.
func (p *Path) Length() float64 {
	if len(p.Distances) < 2 {
		return 0
	}
	return p.Distances[len(p.Distances)-1] - p.Distances[0]
}

// StartDir and EndDir are the one-sided tangents at the path ends.
func (p *Path) StartDir() mathutil.Vec3 {
	return p.Points[1].Sub(p.Points[0]).Normalize()
}

func (p *Path) EndDir() mathutil.Vec3 {
	n := len(p.Points)
	return p.Points[n-1].Sub(p.Points[n-2]).Normalize()
}

// Extract starts one path per child edge of every root and fork node and
// follows single-child chains up to the next fork or leaf.
// Every parent→child edge lands in exactly one path.
func Extract(t *skeleton.Tree) []Path {
	if t.Len() == 0 {
		return nil
	}
	var out []Path
	for i, start := range t.Nodes {
		if !start.IsRoot && !start.IsFork {
			continue
		}
		for _, child := range start.Children {
			nodes := []int{i}
			curr := child
			for {
				nodes = append(nodes, curr)
				n := t.Nodes[curr]
				if n.IsFork || n.IsLeaf {
					break
				}
				curr = n.Children[0]
			}
			if len(nodes) >= 2 {
				out = append(out, Path{Nodes: nodes})
			}
		}
	}
	return out
}

// Raw fills the samples straight from node positions and widths, without a spline.
func Raw(t *skeleton.Tree, ps []Path) {
	for i := range ps {
		p := &ps[i]
		p.reset(len(p.Nodes))
		for k, idx := range p.Nodes {
			n := t.Nodes[idx]
			if k > 0 {
				p.Total += p.Points[k-1].Dist(n.Position)
			}
			p.Points = append(p.Points, n.Position)
			p.Widths = append(p.Widths, n.Width)
			p.Distances = append(p.Distances, p.Total)
		}
	}
}

func (p *Path) reset(capacity int) {
	p.Points = make([]mathutil.Vec3, 0, capacity)
	p.Widths = make([]float64, 0, capacity)
	p.Distances = make([]float64, 0, capacity)
	p.Total = 0
}
