package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry represents one tree in the output manifest.
type ManifestEntry struct {
	Name      string   `json:"name"`
	Seed      int64    `json:"seed"`
	Vertices  int      `json:"vertices"`
	Triangles int      `json:"triangles"`
	Hulls     int      `json:"hulls,omitempty"`
	Files     []string `json:"files"`
}

// WriteManifest writes the successful results as JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:      r.Name,
			Seed:      r.Seed,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Hulls:     r.Hulls,
			Files:     r.Files,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("batch: mkdir %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	return entries, nil
}
