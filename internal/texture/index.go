package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extPriority ranks formats when several files share a stem;
// formats with an alpha channel win.
var extPriority = map[string]int{".jpg": 1, ".jpeg": 1, ".png": 2, ".tga": 3}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex walks dir recursively for bark textures. A missing dir
// yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extPriority[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		existing, exists := idx.entries[stem]
		if !exists || rank > extPriority[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})
	return idx
}

// ResolvePath returns the file for a texture reference, or ("", false).
// An existing file path is returned as is; anything else is looked up by stem.
func (idx *Index) ResolvePath(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, true
	}
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
