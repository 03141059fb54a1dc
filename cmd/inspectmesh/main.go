package main

import (
	"flag"
	"fmt"
	"os"

	"branchmesh/internal/config"
	"branchmesh/internal/generate"
	"branchmesh/internal/meshcheck"
)

func main() {
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml preset")
	seed := flag.Int64("seed", -1, "Override the preset seed")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	p := cfg.Tree
	if *seed >= 0 {
		p.Seed = *seed
	}

	res := generate.Rebuild(p)
	forks, leaves := res.Tree.Counts()
	fmt.Printf("Strategy: %s, Style: %s, Seed: %d\n", p.Strategy, p.Style, p.Seed)
	fmt.Printf("Nodes: %d, Forks: %d, Leaves: %d, Paths: %d\n", res.Tree.Len(), forks, leaves, res.Stats.Paths)
	fmt.Printf("Transitions: %d built, %d skipped; Caps: %d\n",
		res.Stats.Transitions, res.Stats.SkippedTransitions, res.Stats.Caps)
	fmt.Printf("Planned: verts=%d, indices=%d\n", res.Stats.Planned.Vertices, res.Stats.Planned.Indices)
	fmt.Printf("Written: verts=%d, indices=%d\n", res.Stats.Written.Vertices, res.Stats.Written.Indices)
	if res.Stats.Planned != res.Stats.Written {
		fmt.Println("  WARNING: buffer plan mismatch")
	}

	lo, hi := res.Mesh.Bounds()
	fmt.Printf("BBox: X[%.1f, %.1f] Y[%.1f, %.1f] Z[%.1f, %.1f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Printf("Size: %.1f x %.1f x %.1f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])

	rep := meshcheck.Inspect(res.Mesh)
	fmt.Printf("Triangles: %d, Degenerate: %d\n", rep.Triangles, rep.Degenerate)
	fmt.Printf("Components: %d (largest %d verts)\n", rep.Components, rep.Largest)
	if rep.Err != nil {
		fmt.Printf("Invalid: %v\n", rep.Err)
	} else {
		fmt.Println("Valid: yes")
	}

	fmt.Printf("Collision: %s, hulls=%d\n", res.Collision.Mode, len(res.Collision.Hulls))

	if rep.Err != nil {
		os.Exit(1)
	}
}
