package raster

import (
	"image"

	"branchmesh/internal/mesh"
	"branchmesh/internal/viewmatrix"
)

// Options controls a preview render.
type Options struct {
	Size        int
	Supersample int
	Yaw, Pitch  float64
	Lens        viewmatrix.Lens
	Sampler     *Sampler
	Light       *LightConfig
}

// RenderMesh rasterizes a packed mesh to an NRGBA image of
// Size*Supersample pixels per side. The background stays transparent.
func RenderMesh(m *mesh.Packed, opt Options) *image.NRGBA {
	supersample := max(opt.Supersample, 1)
	renderSize := max(opt.Size, 1) * supersample
	if m == nil || len(m.Positions) == 0 || len(m.Indices) < 3 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	lc := opt.Light
	if lc == nil {
		def := DefaultLightConfig()
		lc = &def
	}

	R := viewmatrix.Camera(opt.Yaw, opt.Pitch)
	frame := viewmatrix.Fit(m.Positions, R, renderSize, 16*supersample)
	px, py, pz := viewmatrix.ProjectVertices(m.Positions, R, frame, opt.Lens)
	normals := viewmatrix.RotateNormals(m.Normals, R)

	shade := make([]float64, len(m.Positions))
	for i := range shade {
		if i < len(normals) {
			shade[i] = lc.ComputeShade(normals[i])
		} else {
			shade[i] = lc.Ambient
		}
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	n := uint32(len(m.Positions))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		var c [3]Corner
		ok := true
		for k := 0; k < 3; k++ {
			vi := m.Indices[t+k]
			if vi >= n {
				ok = false
				break
			}
			c[k] = Corner{X: px[vi], Y: py[vi], Z: pz[vi], Shade: shade[vi]}
			if int(vi) < len(m.UVs) {
				c[k].U = float64(m.UVs[vi][0])
				c[k].V = float64(m.UVs[vi][1])
			}
		}
		if ok {
			RasterizeTriangle(fb, c, opt.Sampler, lc)
		}
	}
	return fb.Image()
}
