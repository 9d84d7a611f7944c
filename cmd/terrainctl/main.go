// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command terrainctl generates a terrain surface, scatters instances on it
// and prints a summary.
//
// Usage:
//
//	terrainctl -resolution 512 -octaves 8 -gpu -boxes 4 -heightmap out.png
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/terrain"
	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/mesh"
	"github.com/gogpu/terrain/noise"
	"github.com/gogpu/terrain/scatter"
)

func main() {
	cfg := NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "terrainctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	terrain.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer terrain.SetLogger(nil)

	opts := []terrain.Option{
		terrain.WithSeed(cfg.Seed),
		terrain.WithParams(cfg.Params),
		terrain.WithCreaseThreshold(cfg.Crease),
	}
	if cfg.Noise == "opensimplex" {
		opts = append(opts, terrain.WithPrimitive(noise.NewOpenSimplex(cfg.Seed)))
	}
	if cfg.GPU {
		dev, err := compute.Open()
		if err != nil {
			terrain.Logger().Warn("GPU unavailable, using CPU", "err", err)
		} else {
			defer dev.Close()
			opts = append(opts, terrain.WithDevice(dev))
		}
	}

	var commit terrain.Commit
	opts = append(opts, terrain.WithOnCommit(func(c terrain.Commit) { commit = c }))

	start := time.Now()
	surf, err := terrain.New(cfg.Resolution, cfg.Width, cfg.Height, opts...)
	if err != nil {
		return err
	}
	defer surf.Close()

	var bounds mesh.Bounds
	surf.View(func(g *mesh.Grid) {
		bounds, _ = mesh.ComputeBounds(g.Positions())
		if cfg.Heightmap != "" {
			err = writePNG(cfg.Heightmap, heightmap(g, cfg.HeightmapSize))
		}
	})
	if err != nil {
		return fmt.Errorf("write heightmap: %w", err)
	}

	results, err := scatterBoxes(ctx, surf, cfg)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.Make(cfg.Lang))
	report(p, stdout, cfg, commit, bounds, results, time.Since(start))
	return nil
}

// scatterBoxes places cfg.Boxes volumes along the surface diagonal and
// scatters them concurrently.
func scatterBoxes(ctx context.Context, surf *terrain.Surface, cfg *Config) ([]scatter.Result, error) {
	if cfg.Boxes == 0 {
		return nil, nil
	}
	sc := cfg.Scatter
	if cfg.DensityImage != "" {
		d, err := loadDensityMap(cfg.DensityImage)
		if err != nil {
			return nil, err
		}
		sc.DensityMap = d
	}

	origin := surf.Transform().Col(3).Vec3()
	samplers := make([]*scatter.Sampler, cfg.Boxes)
	for i := range samplers {
		t := (float64(i)+0.5)/float64(cfg.Boxes) - 0.5
		center := origin.Add(mgl64.Vec3{t * float64(cfg.Width), 0, t * float64(cfg.Height)})
		s, err := scatter.NewSampler(
			scatter.NewBox(center, mgl64.Vec3{cfg.BoxSize, cfg.BoxHeight, cfg.BoxSize}),
			sc,
		)
		if err != nil {
			return nil, err
		}
		samplers[i] = s
	}
	return surf.ScatterBatch(ctx, samplers, cfg.Workers)
}

func report(p *message.Printer, w io.Writer, cfg *Config, c terrain.Commit, b mesh.Bounds,
	results []scatter.Result, elapsed time.Duration,
) {
	n := cfg.Resolution * cfg.Resolution
	p.Fprintf(w, "surface     %d×%d vertices (%d), %d triangles\n",
		cfg.Resolution, cfg.Resolution, n, 2*(cfg.Resolution-1)*(cfg.Resolution-1))
	p.Fprintf(w, "generation  %d on %s, %v, mode %s\n", c.Generation, c.Path, c.Elapsed.Round(time.Microsecond), c.Params.Mode)
	p.Fprintf(w, "heights     %.3f … %.3f\n", b.Min[1], b.Max[1])
	for i, r := range results {
		p.Fprintf(w, "volume %-4d %d/%d instances, %d attempts, %s\n", i, r.Count(), r.Requested, r.Attempts, r.State)
	}
	p.Fprintf(w, "total       %v\n", elapsed.Round(time.Millisecond))
}
