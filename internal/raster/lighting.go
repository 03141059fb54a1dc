package raster

import (
	"math"

	"branchmesh/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in
// view space: +Y up, +Z toward the viewer.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	ViewDir  mathutil.Vec3
	HalfMain mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig is a warm key light from the upper left with a cool
// rim from behind; bark is rough, so the specular term stays faint.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{-0.45, 0.65, 0.6}.Normalize()
	rimDir := mathutil.Vec3{0.5, 0.3, -0.8}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		ViewDir:  viewDir,
		HalfMain: lightDir.Add(viewDir).Normalize(),
		Ambient:  0.35,
		Hemi:     0.35,
		Direct:   1.10,
		Rim:      0.40,
		SpecInt:  0.10,
		SpecPow:  8.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a vertex normal.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	// Lambertian, one-sided: tubes are closed so back faces are hidden
	ndlMain := math.Max(normal.Dot(lc.LightDir), 0)
	ndlRim := math.Max(normal.Dot(lc.RimDir), 0)

	// Sky fill from above
	hemi := normal[1]*0.5 + 0.5
	hemiLight := hemi * lc.Hemi

	// Blinn-Phong specular
	ndh := math.Max(normal.Dot(lc.HalfMain), 0)
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// toneMap turns a linear, shaded channel into an sRGB byte.
func (lc *LightConfig) toneMap(linear float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(linear*lc.Exposure), lc.InvGamma) * 255)
}
