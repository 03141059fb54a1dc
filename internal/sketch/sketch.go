// Package sketch draws a side view of a tree skeleton: every segment as a
// stroke as wide as the branch, and optionally the attractor cloud.
package sketch

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gg"

	"branchmesh/internal/mathutil"
	"branchmesh/internal/skeleton"
)

// Options controls the drawing.
type Options struct {
	Size       int
	Margin     float64
	Attractors bool
	Background gg.RGBA
	Trunk      gg.RGBA // generation 0
	Twig       gg.RGBA // deepest generation
	Dot        gg.RGBA
}

// DefaultOptions is a dark trunk fading to green twigs on paper.
func DefaultOptions() Options {
	return Options{
		Size:       512,
		Margin:     16,
		Attractors: true,
		Background: gg.Hex("#f4f1ea"),
		Trunk:      gg.Hex("#4a3526"),
		Twig:       gg.Hex("#6b8f3a"),
		Dot:        gg.RGBA2(0.8, 0.2, 0.2, 0.5),
	}
}

// Draw renders the tree looking along -Y: model X is screen right and
// model Z is screen up.
func Draw(t *skeleton.Tree, opt Options) image.Image {
	size := max(opt.Size, 16)
	dc := gg.NewContext(size, size)
	defer dc.Close()
	dc.ClearWithColor(opt.Background)

	segs := t.Segments()
	if len(segs) == 0 {
		slog.Debug("sketch: empty tree")
		return dc.Image()
	}

	lo, hi := bounds(t)
	span := math.Max(math.Max(hi[0]-lo[0], hi[2]-lo[2]), 1)
	scale := (float64(size) - 2*opt.Margin) / span
	cx, cz := (lo[0]+hi[0])/2, (lo[2]+hi[2])/2
	half := float64(size) / 2
	project := func(p mathutil.Vec3) (float64, float64) {
		return (p[0]-cx)*scale + half, half - (p[2]-cz)*scale
	}

	deepest := 0
	for _, s := range segs {
		deepest = max(deepest, s.Generation)
	}

	dc.SetLineCap(gg.LineCapRound)
	for _, s := range segs {
		x1, y1 := project(s.Start)
		x2, y2 := project(s.End)
		c := opt.Trunk.Lerp(opt.Twig, float64(s.Generation)/float64(max(deepest, 1)))
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		dc.SetLineWidth(math.Max(2*s.Width*scale, 1))
		dc.DrawLine(x1, y1, x2, y2)
		if err := dc.Stroke(); err != nil {
			slog.Warn("sketch: stroke failed", "err", err)
		}
	}

	if opt.Attractors && len(t.Attractors) > 0 {
		dc.SetRGBA(opt.Dot.R, opt.Dot.G, opt.Dot.B, opt.Dot.A)
		for _, a := range t.Attractors {
			x, y := project(a)
			dc.DrawCircle(x, y, 1.5)
		}
		if err := dc.Fill(); err != nil {
			slog.Warn("sketch: fill failed", "err", err)
		}
	}

	slog.Debug("sketch: drawn", "segments", len(segs), "attractors", len(t.Attractors), "size", size)
	return dc.Image()
}

// Save draws the tree and writes it as .png or .webp by extension.
func Save(path string, t *skeleton.Tree, opt Options) error {
	img := Draw(t, opt)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sketch: mkdir %s: %w", filepath.Dir(path), err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		dc := gg.NewContextForImage(img)
		defer dc.Close()
		if err := dc.SavePNG(path); err != nil {
			return fmt.Errorf("sketch: write %s: %w", path, err)
		}
	case ".webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("sketch: create %s: %w", path, err)
		}
		defer f.Close()
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("sketch: encode %s: %w", path, err)
		}
	default:
		return fmt.Errorf("sketch: unsupported format %q", ext)
	}
	return nil
}

func bounds(t *skeleton.Tree) (lo, hi mathutil.Vec3) {
	lo = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	grow := func(p mathutil.Vec3, r float64) {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k]-r)
			hi[k] = math.Max(hi[k], p[k]+r)
		}
	}
	for _, n := range t.Nodes {
		grow(n.Position, n.Width)
	}
	for _, a := range t.Attractors {
		grow(a, 0)
	}
	return lo, hi
}
