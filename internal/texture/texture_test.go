package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestIndexResolvesStemsAndPaths(t *testing.T) {
	dir := t.TempDir()
	oak := filepath.Join(dir, "bark", "Oak.png")
	writePNG(t, oak, color.NRGBA{R: 90, G: 60, B: 40, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 1, idx.Len())

	path, ok := idx.ResolvePath("oak")
	require.True(t, ok)
	assert.Equal(t, oak, path)

	path, ok = idx.ResolvePath(oak)
	require.True(t, ok)
	assert.Equal(t, oak, path)

	_, ok = idx.ResolvePath("birch")
	assert.False(t, ok)
}

func TestIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pine.png"), color.NRGBA{A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pine.jpg"), []byte("jpeg"), 0o644))

	path, ok := BuildIndex(dir).ResolvePath("pine")
	require.True(t, ok)
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "birch.png")
	want := color.NRGBA{R: 220, G: 220, B: 210, A: 255}
	writePNG(t, path, want)

	c := NewCache(BuildIndex(dir))
	first := c.Resolve("birch")
	require.NotNil(t, first)
	assert.Equal(t, want, first.NRGBAAt(1, 1))
	assert.Same(t, first, c.Resolve(path))

	assert.Nil(t, c.Resolve("missing"))
}

func TestCacheKeepsDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	c := NewCache(nil)
	img, err := c.Load(path)
	assert.Nil(t, img)
	assert.ErrorContains(t, err, "texture: decode")
}
