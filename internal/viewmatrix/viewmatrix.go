// Package viewmatrix places a Z-up mesh in front of an orthographic or
// perspective preview camera.
package viewmatrix

import (
	"math"

	"branchmesh/internal/mathutil"
)

// Camera builds the view rotation: the model is turned Y-up, spun by yaw
// around the vertical and tilted by pitch. Angles are in degrees.
func Camera(yawDeg, pitchDeg float64) mathutil.Mat3 {
	spin := mathutil.RotY(mathutil.Deg2Rad(yawDeg))
	tilt := mathutil.RotX(mathutil.Deg2Rad(pitchDeg))
	return mathutil.Mat3Mul(tilt, mathutil.Mat3Mul(spin, mathutil.ModelFlip))
}

// Lens selects the projection. FOV is the full vertical angle in degrees.
type Lens struct {
	Perspective bool
	FOV         float64
}

// DefaultFOV is used when a perspective lens leaves FOV unset.
const DefaultFOV = 35.0

// Frame maps view space onto a square pixel grid.
type Frame struct {
	Center [3]float64
	Scale  float64
	Size   int
}

// Fit frames every vertex inside size pixels, leaving margin on each side.
func Fit(verts [][3]float32, R mathutil.Mat3, size, margin int) Frame {
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range verts {
		t := R.MulVec3(toVec3(v))
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], t[k])
			hi[k] = math.Max(hi[k], t[k])
		}
	}
	if len(verts) == 0 {
		return Frame{Scale: 1, Size: size}
	}

	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	return Frame{
		Center: [3]float64{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2, (lo[2] + hi[2]) / 2},
		Scale:  float64(size-2*margin) / span,
		Size:   size,
	}
}

// ProjectVertices transforms 3D vertices to 2D screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth; larger is nearer).
func ProjectVertices(verts [][3]float32, R mathutil.Mat3, f Frame, lens Lens) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	half := float64(f.Size) / 2

	var camDist float64
	if lens.Perspective {
		fov := lens.FOV
		if fov <= 0 {
			fov = DefaultFOV
		}
		var extent float64
		for _, v := range verts {
			t := R.MulVec3(toVec3(v))
			extent = math.Max(extent, math.Max(math.Abs(t[0]-f.Center[0]), math.Abs(t[1]-f.Center[1])))
		}
		camDist = math.Max(extent, 0.001) / math.Tan(mathutil.Deg2Rad(fov/2))
	}

	for i, v := range verts {
		t := R.MulVec3(toVec3(v))
		x, y := t[0]-f.Center[0], t[1]-f.Center[1]
		if lens.Perspective {
			depth := math.Max(camDist-(t[2]-f.Center[2]), 0.1)
			factor := camDist / depth
			x *= factor
			y *= factor
		}
		px[i] = x*f.Scale + half
		py[i] = -y*f.Scale + half
		pz[i] = t[2]
	}
	return px, py, pz
}

// RotateNormals brings vertex normals into view space.
func RotateNormals(normals [][3]float32, R mathutil.Mat3) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(normals))
	for i, n := range normals {
		out[i] = R.MulVec3(toVec3(n))
	}
	return out
}

func toVec3(v [3]float32) mathutil.Vec3 {
	return mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
