package viewmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"branchmesh/internal/mathutil"
)

func TestCameraTurnsModelUpright(t *testing.T) {
	R := Camera(0, 0)
	up := R.MulVec3(mathutil.UpAxis)
	assert.InDelta(t, 0, up[0], 1e-9)
	assert.InDelta(t, 1, up[1], 1e-9)
	assert.InDelta(t, 0, up[2], 1e-9)
}

func TestCameraYawKeepsVertical(t *testing.T) {
	R := Camera(73, 0)
	up := R.MulVec3(mathutil.UpAxis)
	assert.InDelta(t, 1, up[1], 1e-9)
}

func TestFitAndProject(t *testing.T) {
	verts := [][3]float32{{0, 0, 0}, {0, 0, 100}, {10, 0, 50}}
	R := Camera(0, 0)
	f := Fit(verts, R, 200, 10)
	px, py, _ := ProjectVertices(verts, R, f, Lens{})

	// The trunk is 100 tall, so it spans the full 180 usable pixels.
	assert.InDelta(t, 1.8, f.Scale, 1e-9)
	assert.InDelta(t, 190, py[0], 1e-6)
	assert.InDelta(t, 10, py[1], 1e-6)
	assert.Greater(t, px[2], px[0])
}

func TestFitEmpty(t *testing.T) {
	f := Fit(nil, Camera(0, 0), 64, 4)
	assert.Equal(t, 1.0, f.Scale)
	assert.Equal(t, 64, f.Size)
}

func TestPerspectiveShrinksFarPoints(t *testing.T) {
	verts := [][3]float32{{0, 0, 0}, {10, -50, 0}, {10, 50, 0}}
	R := Camera(0, 0)
	f := Fit(verts, R, 200, 0)
	ortho, _, _ := ProjectVertices(verts, R, f, Lens{})
	persp, _, pz := ProjectVertices(verts, R, f, Lens{Perspective: true})

	// Model +Y points away from the camera after the flip.
	assert.Less(t, pz[2], pz[1])
	assert.InDelta(t, ortho[1], ortho[2], 1e-9)
	assert.Greater(t, persp[1], persp[2])
}
