package raster

import (
	"image"
	"image/color"
	"math"
)

// Sampler looks up bark color by mesh UV. U wraps once around a branch;
// V is arc length, so VScale sets how many world units one texture
// repeat covers.
type Sampler struct {
	Tex     *image.NRGBA
	UScale  float64
	VScale  float64
	Default color.NRGBA
}

// DefaultBark is the flat color used without a texture.
var DefaultBark = color.NRGBA{R: 112, G: 86, B: 64, A: 255}

// NewSampler wraps tex. A nil tex always yields DefaultBark.
func NewSampler(tex *image.NRGBA) *Sampler {
	return &Sampler{Tex: tex, UScale: 2, VScale: 1.0 / 40, Default: DefaultBark}
}

// Textured reports whether lookups read the texture.
func (s *Sampler) Textured() bool {
	return s != nil && s.Tex != nil && s.Tex.Rect.Dx() > 0 && s.Tex.Rect.Dy() > 0
}

// Sample performs bilinear filtering with UV wrapping.
func (s *Sampler) Sample(u, v float64) color.NRGBA {
	if !s.Textured() {
		if s == nil {
			return DefaultBark
		}
		return s.Default
	}
	tex := s.Tex
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	u = wrap(u * s.UScale)
	v = wrap(v * s.VScale)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 + float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		out[c] = uint8(f + 0.5)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

func wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		return 0
	}
	return x
}
