// Package meshcheck inspects generated buffers for structural problems.
package meshcheck

import (
	"errors"
	"fmt"
	"math"

	"branchmesh/internal/mesh"
)

// Validate checks that the parallel arrays agree, every index is in range
// and every position and normal is finite.
func Validate(buf *mesh.Buffers) error {
	n := len(buf.Positions)
	var errs []error
	if len(buf.Normals) != n || len(buf.Tangents) != n || len(buf.UVs) != n {
		errs = append(errs, fmt.Errorf("meshcheck: attribute lengths differ: %d positions, %d normals, %d tangents, %d uvs",
			n, len(buf.Normals), len(buf.Tangents), len(buf.UVs)))
	}
	if len(buf.Indices)%3 != 0 {
		errs = append(errs, fmt.Errorf("meshcheck: %d indices is not a multiple of 3", len(buf.Indices)))
	}
	for i, idx := range buf.Indices {
		if int(idx) >= n {
			errs = append(errs, fmt.Errorf("meshcheck: index %d at %d out of range", idx, i))
			break
		}
	}
	for i, p := range buf.Positions {
		if !finite(p) {
			errs = append(errs, fmt.Errorf("meshcheck: position %d is not finite", i))
			break
		}
	}
	for i, nv := range buf.Normals {
		if !finite(nv) {
			errs = append(errs, fmt.Errorf("meshcheck: normal %d is not finite", i))
			break
		}
	}
	return errors.Join(errs...)
}

func finite(v [3]float64) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Components groups the vertices referenced by triangles into connected
// components, largest first. Unreferenced vertices are left out.
func Components(buf *mesh.Buffers) [][]int {
	n := len(buf.Positions)
	if n == 0 || len(buf.Indices) < 3 {
		return nil
	}

	// Build adjacency
	adj := make([][]int, n)
	for t := 0; t+2 < len(buf.Indices); t += 3 {
		tri := [3]int{int(buf.Indices[t]), int(buf.Indices[t+1]), int(buf.Indices[t+2])}
		for a := 0; a < 3; a++ {
			for b := a + 1; b < 3; b++ {
				va, vb := tri[a], tri[b]
				if va >= n || vb >= n {
					continue
				}
				adj[va] = append(adj[va], vb)
				adj[vb] = append(adj[vb], va)
			}
		}
	}

	// DFS connected components
	visited := make([]bool, n)
	var components [][]int
	for v := range n {
		if visited[v] || len(adj[v]) == 0 {
			continue
		}
		var comp []int
		stack := []int{v}
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[curr] {
				continue
			}
			visited[curr] = true
			comp = append(comp, curr)
			for _, nb := range adj[curr] {
				if !visited[nb] {
					stack = append(stack, nb)
				}
			}
		}
		components = append(components, comp)
	}

	// Largest first; ties keep discovery order.
	for i := 1; i < len(components); i++ {
		for j := i; j > 0 && len(components[j]) > len(components[j-1]); j-- {
			components[j], components[j-1] = components[j-1], components[j]
		}
	}
	return components
}

// Report summarises a mesh for inspection tools.
type Report struct {
	Vertices   int
	Triangles  int
	Components int
	Largest    int
	Degenerate int // triangles with near-zero area
	Err        error
}

// Inspect runs every check.
func Inspect(buf *mesh.Buffers) Report {
	r := Report{
		Vertices:  buf.VertexCount(),
		Triangles: buf.TriangleCount(),
		Err:       Validate(buf),
	}
	comps := Components(buf)
	r.Components = len(comps)
	if len(comps) > 0 {
		r.Largest = len(comps[0])
	}
	if r.Err == nil {
		r.Degenerate = degenerate(buf)
	}
	return r
}

func degenerate(buf *mesh.Buffers) int {
	count := 0
	for t := 0; t+2 < len(buf.Indices); t += 3 {
		a := buf.Positions[buf.Indices[t]]
		b := buf.Positions[buf.Indices[t+1]]
		c := buf.Positions[buf.Indices[t+2]]
		if b.Sub(a).Cross(c.Sub(a)).Len() < 1e-10 {
			count++
		}
	}
	return count
}
