// Package skeleton builds branch node trees, either by midpoint subdivision
// or by space-colonization growth toward attractor points.
package skeleton

import (
	"errors"
	"fmt"
	"slices"

	"branchmesh/internal/mathutil"
)

// NoParent marks the root node.
const NoParent = -1

// Node is one point of the branch skeleton. Its identity is its index in Tree.Nodes.
type Node struct {
	Position   mathutil.Vec3
	Width      float64
	Parent     int   // NoParent for the root
	Children   []int // in creation order
	Generation int   // fork generation of the edge ending here

	IsRoot bool
	IsFork bool // more than one child
	IsLeaf bool // no children
}

// Tree is a finalized skeleton. Downstream stages only read it.
type Tree struct {
	Nodes []Node

	// Attractors holds the sampled crown points (colonization only).
	Attractors []mathutil.Vec3
}

// Segment is the flat edge view of a tree: one entry per parent→child edge.
type Segment struct {
	Start, End         mathutil.Vec3
	Width              float64
	Generation         int
	StartNode, EndNode int
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Root returns the root index, or -1 for an empty tree.
func (t *Tree) Root() int {
	for i := range t.nodes() {
		if t.Nodes[i].Parent == NoParent {
			return i
		}
	}
	return -1
}

func (t *Tree) nodes() []Node {
	if t == nil {
		return nil
	}
	return t.Nodes
}

// addNode appends a node linked to parent and returns its index.
func (t *Tree) addNode(pos mathutil.Vec3, parent int) int {
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Position: pos, Parent: parent})
	if parent != NoParent {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}
	return idx
}

// Classify derives the root/fork/leaf flags from the graph.
func (t *Tree) Classify() {
	for i := range t.nodes() {
		n := &t.Nodes[i]
		n.IsRoot = n.Parent == NoParent
		n.IsFork = len(n.Children) > 1
		n.IsLeaf = len(n.Children) == 0
	}
}

// Counts returns the number of forks and leaves.
func (t *Tree) Counts() (forks, leaves int) {
	for _, n := range t.nodes() {
		if n.IsFork {
			forks++
		}
		if n.IsLeaf {
			leaves++
		}
	}
	return forks, leaves
}

// Segments lists every edge in depth-first pre-order from the root.
// The segment width is the width of its end node.
func (t *Tree) Segments() []Segment {
	root := t.Root()
	if root < 0 {
		return nil
	}
	segs := make([]Segment, 0, len(t.Nodes)-1)
	stack := []int{root}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.Nodes[curr]
		for _, c := range n.Children {
			child := t.Nodes[c]
			segs = append(segs, Segment{
				Start:      n.Position,
				End:        child.Position,
				Width:      child.Width,
				Generation: child.Generation,
				StartNode:  curr,
				EndNode:    c,
			})
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return segs
}

// Validate checks the structural invariants of a finalized tree.
func (t *Tree) Validate() error {
	nodes := t.nodes()
	if len(nodes) == 0 {
		return nil
	}
	var errs []error
	roots := 0
	for i, n := range nodes {
		if n.Parent == NoParent {
			roots++
		} else if n.Parent < 0 || n.Parent >= len(nodes) {
			errs = append(errs, fmt.Errorf("node %d: parent %d out of range", i, n.Parent))
		} else if !slices.Contains(nodes[n.Parent].Children, i) {
			errs = append(errs, fmt.Errorf("node %d: missing from parent %d children", i, n.Parent))
		}
		seen := make(map[int]bool, len(n.Children))
		for _, c := range n.Children {
			switch {
			case c == i:
				errs = append(errs, fmt.Errorf("node %d: self child", i))
			case c < 0 || c >= len(nodes):
				errs = append(errs, fmt.Errorf("node %d: child %d out of range", i, c))
			case seen[c]:
				errs = append(errs, fmt.Errorf("node %d: duplicate child %d", i, c))
			case nodes[c].Parent != i:
				errs = append(errs, fmt.Errorf("node %d: child %d has parent %d", i, c, nodes[c].Parent))
			}
			seen[c] = true
		}
		if n.IsRoot != (n.Parent == NoParent) || n.IsFork != (len(n.Children) > 1) || n.IsLeaf != (len(n.Children) == 0) {
			errs = append(errs, fmt.Errorf("node %d: role flags out of date", i))
		}
	}
	if roots != 1 {
		errs = append(errs, fmt.Errorf("tree has %d roots", roots))
	}
	return errors.Join(errs...)
}
