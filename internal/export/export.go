// Package export writes generated trees to disk: Wavefront OBJ for the
// mesh and JSON for the collision setup.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"branchmesh/internal/collision"
	"branchmesh/internal/mesh"
)

// WriteOBJ writes positions, UVs, normals and faces. Face indices are
// 1-based and shared across the three attribute lists.
func WriteOBJ(w io.Writer, buf *mesh.Buffers, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", buf.VertexCount(), buf.TriangleCount())
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, p := range buf.Positions {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", p[0], p[1], p[2])
	}
	for _, uv := range buf.UVs {
		fmt.Fprintf(bw, "vt %.6f %.6f\n", uv[0], uv[1])
	}
	for _, n := range buf.Normals {
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", n[0], n[1], n[2])
	}
	for i := 0; i+2 < len(buf.Indices); i += 3 {
		a, b, c := buf.Indices[i]+1, buf.Indices[i+1]+1, buf.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}

// WriteOBJFile writes the mesh to path, creating parent directories.
func WriteOBJFile(path string, buf *mesh.Buffers, name string) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteOBJ(w, buf, name)
	})
}

// WriteHulls writes the collision setup as indented JSON.
func WriteHulls(path string, setup collision.Setup) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(setup)
	})
}

// ReadHulls loads a setup written by WriteHulls.
func ReadHulls(path string) (collision.Setup, error) {
	var setup collision.Setup
	data, err := os.ReadFile(path)
	if err != nil {
		return setup, fmt.Errorf("export: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &setup); err != nil {
		return setup, fmt.Errorf("export: parse %s: %w", path, err)
	}
	return setup, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}
