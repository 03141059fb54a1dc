package raster

import "math"

// Corner is one projected triangle vertex with its lighting already
// evaluated.
type Corner struct {
	X, Y, Z float64 // screen position and depth (larger is nearer)
	U, V    float64
	Shade   float64
}

// RasterizeTriangle fills one triangle with z-buffering, bilinear bark
// texture, Gouraud-interpolated shade, sRGB decoding and ACES tone mapping.
//
// This is the HOT PATH: no allocation in the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, c [3]Corner, s *Sampler, lc *LightConfig) {
	x0, y0 := c[0].X, c[0].Y
	x1, y1 := c[1].X, c[1].Y
	x2, y2 := c[2].X, c[2].Y

	// Bounding box
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	textured := s.Textured()
	flat := DefaultBark
	if s != nil {
		flat = s.Default
	}

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*c[0].Z + w1*c[1].Z + w2*c[2].Z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			col := flat
			if textured {
				u := w0*c[0].U + w1*c[1].U + w2*c[2].U
				v := w0*c[0].V + w1*c[1].V + w2*c[2].V
				col = s.Sample(u, v)
			}
			if col.A < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			shade := w0*c[0].Shade + w1*c[1].Shade + w2*c[2].Shade
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.toneMap(srgbToLinear[col.R] * shade)
			fb.Color[pxIdx+1] = lc.toneMap(srgbToLinear[col.G] * shade)
			fb.Color[pxIdx+2] = lc.toneMap(srgbToLinear[col.B] * shade)
			fb.Color[pxIdx+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
