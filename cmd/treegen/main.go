package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"

	"branchmesh/internal/batch"
	"branchmesh/internal/config"
	"branchmesh/internal/texture"
	"branchmesh/internal/viewmatrix"
	"branchmesh/internal/watch"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml preset")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	seed := flag.Int64("seed", 0, "Random seed (overrides the preset)")
	variants := flag.Int("variants", 0, "Number of trees to build from consecutive seeds")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	size := flag.Int("size", 0, "Preview size in pixels (default: 512)")
	noPreview := flag.Bool("no-preview", false, "Skip the shaded WebP preview")
	sketchOut := flag.Bool("sketch", false, "Also draw a 2D skeleton sketch")
	background := flag.String("background", "", "Flatten previews onto this hex color")
	perspective := flag.Bool("perspective", false, "Use a perspective lens for previews")
	watchMode := flag.Bool("watch", false, "Rebuild whenever the preset changes")
	verbose := flag.Bool("v", false, "Verbose logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})
	flags := config.Flags{
		OutputDir:  *outputDir,
		Quality:    *quality,
		Workers:    *workers,
		Size:       *size,
		Variants:   *variants,
		Seed:       *seed,
		SeedSet:    seedSet,
		NoPreview:  *noPreview,
		Sketch:     *sketchOut,
		Background: *background,
	}
	lens := viewmatrix.Lens{}
	if *perspective {
		lens = viewmatrix.Lens{Perspective: true, FOV: viewmatrix.DefaultFOV}
	}

	if *watchMode && *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -watch requires -config")
		os.Exit(1)
	}

	failed, err := build(*configFile, flags, lens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !*watchMode {
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := watch.New(*configFile, func(path string) {
		fmt.Printf("\nPreset changed: %s\n", path)
		if _, err := build(path, flags, lens); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", w.Path)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// build loads the preset, runs every variant and writes the manifest.
// It returns the number of failed trees.
func build(configFile string, flags config.Flags, lens viewmatrix.Lens) (int, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return 0, err
		}
	}

	// CLI flags override config file
	if err := cfg.Resolve(flags); err != nil {
		return 0, err
	}

	var texCache *texture.Cache
	if cfg.BarkTexture != "" {
		texIndex := texture.BuildIndex(filepath.Dir(cfg.BarkTexture))
		texCache = texture.NewCache(texIndex)
		if _, err := texCache.Load(cfg.BarkTexture); err != nil {
			slog.Warn("bark texture unavailable, using flat color", "err", err)
		}
		fmt.Printf("Textures: %d indexed\n", texIndex.Len())
	}

	jobs := batch.Variants(cfg.Name, cfg.Tree, cfg.Variants)

	fmt.Printf("Tree mesh generator: %s/%s\n", cfg.Tree.Strategy, cfg.Tree.Style)
	fmt.Printf("Trees: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		BarkTexture:  cfg.BarkTexture,
		Preview:      cfg.Preview,
		Sketch:       cfg.Sketch,
		SketchFormat: cfg.SketchFormat,
		RenderSize:   cfg.RenderSize,
		WebPQuality:  cfg.WebPQuality,
		Supersample:  cfg.Supersample,
		Yaw:          cfg.CameraYaw,
		Pitch:        cfg.CameraPitch,
		Lens:         lens,
		Background:   cfg.BackgroundColor(),
		Workers:      cfg.Workers,
	}
	if texCache != nil {
		batchCfg.TexResolver = texCache
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success := 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Built: %d/%d\n", success, len(jobs))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(len(failures), 20)
		for _, e := range failures[:limit] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	return len(failures), nil
}
