package batch

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"branchmesh/internal/export"
	"branchmesh/internal/generate"
	"branchmesh/internal/meshcheck"
	"branchmesh/internal/postprocess"
	"branchmesh/internal/raster"
	"branchmesh/internal/sketch"
	"branchmesh/internal/texture"
	"branchmesh/internal/viewmatrix"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir    string
	TexResolver  texture.Resolver
	BarkTexture  string
	Preview      bool
	Sketch       bool
	SketchFormat string
	RenderSize   int
	WebPQuality  int
	Supersample  int
	Yaw, Pitch   float64
	Lens         viewmatrix.Lens
	Background   color.NRGBA
	Workers      int
	// Progress is called from the reporter goroutine every two seconds.
	// Nil prints "[done/total] N trees/sec" to stdout.
	Progress func(done, total int, rate float64)
}

// Job is one tree to build.
type Job struct {
	Name   string
	Params generate.Params
}

// Variants expands a base parameter set into n jobs with consecutive seeds.
func Variants(name string, base generate.Params, n int) []Job {
	if n <= 1 {
		return []Job{{Name: name, Params: base}}
	}
	jobs := make([]Job, n)
	for i := range jobs {
		p := base
		p.Seed = base.Seed + int64(i)
		jobs[i] = Job{Name: fmt.Sprintf("%s_%d", name, p.Seed), Params: p}
	}
	return jobs
}

// Result holds the outcome of building one tree.
type Result struct {
	Name      string
	Seed      int64
	Vertices  int
	Triangles int
	Hulls     int
	Files     []string
	Elapsed   time.Duration
	Success   bool
	Error     string
}

// Run builds all jobs using a worker pool. Failures are reported per
// result and never stop the run.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

	start := time.Now()
	progress := cfg.Progress
	if progress == nil {
		progress = func(done, total int, rate float64) {
			fmt.Printf("  [%d/%d] %.1f trees/sec\n", done, total, rate)
		}
	}

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					progress(int(p), total, float64(p)/time.Since(start).Seconds())
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = Process(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// Process builds one tree and writes its files.
func Process(cfg Config, job Job) Result {
	began := time.Now()
	res := Result{Name: job.Name, Seed: job.Params.Seed}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Elapsed = time.Since(began)
		slog.Debug("batch: tree failed", "name", job.Name, "err", err)
		return res
	}

	built := generate.Rebuild(job.Params)
	if err := meshcheck.Validate(built.Mesh); err != nil {
		return fail(err)
	}
	if built.Mesh.Empty() {
		return fail(fmt.Errorf("empty mesh (%d nodes)", built.Tree.Len()))
	}
	res.Vertices = built.Mesh.VertexCount()
	res.Triangles = built.Mesh.TriangleCount()
	res.Hulls = len(built.Collision.Hulls)

	objPath := filepath.Join(cfg.OutputDir, job.Name+".obj")
	if err := export.WriteOBJFile(objPath, built.Mesh, job.Name); err != nil {
		return fail(err)
	}
	res.Files = append(res.Files, filepath.Base(objPath))

	if built.Collision.Enabled {
		hullPath := filepath.Join(cfg.OutputDir, job.Name+".hulls.json")
		if err := export.WriteHulls(hullPath, built.Collision); err != nil {
			return fail(err)
		}
		res.Files = append(res.Files, filepath.Base(hullPath))
	}

	if cfg.Preview {
		previewPath := filepath.Join(cfg.OutputDir, job.Name+".webp")
		if err := writeWebP(previewPath, renderPreview(cfg, built)); err != nil {
			return fail(err)
		}
		res.Files = append(res.Files, filepath.Base(previewPath))
	}

	if cfg.Sketch {
		format := cfg.SketchFormat
		if format == "" {
			format = "png"
		}
		sketchPath := filepath.Join(cfg.OutputDir, job.Name+".sketch."+format)
		opt := sketch.DefaultOptions()
		opt.Size = max(cfg.RenderSize, 16)
		if err := sketch.Save(sketchPath, built.Tree, opt); err != nil {
			return fail(err)
		}
		res.Files = append(res.Files, filepath.Base(sketchPath))
	}

	res.Success = true
	res.Elapsed = time.Since(began)
	slog.Debug("batch: tree built", "name", job.Name, "vertices", res.Vertices,
		"planned", built.Stats.Planned.Vertices, "skipped_transitions", built.Stats.SkippedTransitions)
	return res
}

func renderPreview(cfg Config, built *generate.Result) *image.NRGBA {
	size := max(cfg.RenderSize, 16)
	supersample := max(cfg.Supersample, 1)

	var tex *image.NRGBA
	if cfg.TexResolver != nil && cfg.BarkTexture != "" {
		tex = cfg.TexResolver.Resolve(cfg.BarkTexture)
	}
	img := raster.RenderMesh(built.Mesh.Pack(), raster.Options{
		Size:        size,
		Supersample: supersample,
		Yaw:         cfg.Yaw,
		Pitch:       cfg.Pitch,
		Lens:        cfg.Lens,
		Sampler:     raster.NewSampler(tex),
	})

	// Post-processing: supersample downsample
	if supersample > 1 {
		img = postprocess.Downsample(img, size, size)
	}
	img = postprocess.CropAndCenter(img, size, 0.9)
	if cfg.Background.A > 0 {
		img = postprocess.Flatten(img, cfg.Background)
	}
	return img
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	return nil
}
