package sketch

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/randx"
	"branchmesh/internal/skeleton"
)

func testTree() *skeleton.Tree {
	p := skeleton.DefaultSubdivision()
	p.Iterations = 3
	return skeleton.Subdivide(mathutil.Vec3{}, mathutil.Vec3{0, 0, 200}, 4, p, randx.New(7))
}

func differsFromCorner(img image.Image) bool {
	b := img.Bounds()
	corner := img.At(b.Min.X, b.Min.Y)
	cr, cg, cb, _ := corner.RGBA()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x += 2 {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r != cr || g != cg || bl != cb {
				return true
			}
		}
	}
	return false
}

func TestDrawStrokesBranches(t *testing.T) {
	opt := DefaultOptions()
	opt.Size = 128
	img := Draw(testTree(), opt)
	require.Equal(t, 128, img.Bounds().Dx())
	assert.True(t, differsFromCorner(img))
}

func TestDrawEmptyTree(t *testing.T) {
	opt := DefaultOptions()
	opt.Size = 64
	img := Draw(&skeleton.Tree{}, opt)
	assert.Equal(t, 64, img.Bounds().Dy())
	assert.False(t, differsFromCorner(img))
}

func TestSaveFormats(t *testing.T) {
	dir := t.TempDir()
	opt := DefaultOptions()
	opt.Size = 64
	for _, name := range []string{"tree.sketch.png", "tree.sketch.webp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, testTree(), opt))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
	assert.ErrorContains(t, Save(filepath.Join(dir, "tree.bmp"), testTree(), opt), "unsupported format")
}
