// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/gogpu/terrain/noise"
	"github.com/gogpu/terrain/scatter"
)

// Config holds the command-line parameters.
type Config struct {
	Resolution    int
	Width, Height float32
	Seed          string
	Noise         string
	Params        noise.Params
	Feedback      bool
	Crease        float64
	GPU           bool

	Scatter      scatter.Config
	Boxes        int
	BoxSize      float64
	BoxHeight    float64
	DensityImage string
	Workers      int

	Heightmap     string
	HeightmapSize int
	Lang          string
	Verbose       bool
}

// NewConfig returns a Config populated with the reference scene.
func NewConfig() *Config {
	return &Config{
		Resolution: 256,
		Width:      100,
		Height:     100,
		Seed:       noise.DefaultSeed,
		Noise:      "simplex",
		Params:     noise.DefaultParams(),
		Feedback:   true,
		Scatter:    scatter.DefaultConfig(),
		Boxes:      1,
		BoxSize:    40,
		BoxHeight:  2000,
		Lang:       "en",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Resolution, "resolution", c.Resolution, "vertices per grid side")
	fs.Var((*f32Value)(&c.Width), "width", "surface extent along X")
	fs.Var((*f32Value)(&c.Height), "height", "surface extent along Z")
	fs.StringVar(&c.Seed, "seed", c.Seed, "noise permutation seed")
	fs.StringVar(&c.Noise, "noise", c.Noise, "noise primitive: simplex or opensimplex")
	fs.BoolVar(&c.GPU, "gpu", c.GPU, "displace on a GPU compute device when available")
	fs.Float64Var(&c.Crease, "crease", c.Crease, "crease angle in degrees (0 disables crease distance)")

	p := &c.Params
	fs.Var((*f32Value)(&p.Amplitude), "amplitude", "first-octave weight")
	fs.Var((*f32Value)(&p.Frequency), "frequency", "first-octave frequency")
	fs.Var((*f32Value)(&p.Offset), "offset", "frequency divisor")
	fs.Var((*f32Value)(&p.DistortHeight), "distort-height", "height multiplier")
	fs.Var((*f32Value)(&p.Exponentiation), "exponentiation", "power applied to the octave sum")
	fs.Var((*f32Value)(&p.Lacunarity), "lacunarity", "frequency multiplier per octave")
	fs.IntVar(&p.Octaves, "octaves", p.Octaves, "octave count")
	fs.Var((*f32Value)(&p.PosX), "pos-x", "noise domain X translation")
	fs.Var((*f32Value)(&p.PosY), "pos-y", "noise domain Y translation")
	fs.Var((*f32Value)(&p.MaxHeight), "max-height", "upper bound on added height")
	fs.BoolVar(&c.Feedback, "feedback", c.Feedback, "use three feedback passes instead of one")

	s := &c.Scatter
	fs.StringVar(&s.Seed, "scatter-seed", s.Seed, "scatter seed")
	fs.Float64Var(&s.Density, "density", s.Density, "scatter density percent")
	fs.IntVar(&s.Min, "min", s.Min, "minimum instance count")
	fs.IntVar(&s.Max, "max", s.Max, "maximum instance count")
	fs.BoolVar(&s.RandomScale, "random-scale", s.RandomScale, "draw a uniform scale per instance")
	fs.Float64Var(&s.ScaleMin, "scale-min", s.ScaleMin, "random scale lower bound")
	fs.Float64Var(&s.ScaleMax, "scale-max", s.ScaleMax, "random scale upper bound")
	fs.BoolVar(&s.RandomRotation, "random-rotation", s.RandomRotation, "draw XYZ rotations per instance")
	fs.Float64Var(&s.RotationMin, "rotation-min", s.RotationMin, "random rotation lower bound (radians)")
	fs.Float64Var(&s.RotationMax, "rotation-max", s.RotationMax, "random rotation upper bound (radians)")
	fs.IntVar(&s.MaxAttempts, "max-attempts", s.MaxAttempts, "face draws per pass (0 for the default cap)")
	fs.IntVar(&c.Boxes, "boxes", c.Boxes, "scatter volumes along the diagonal, run concurrently")
	fs.Float64Var(&c.BoxSize, "box-size", c.BoxSize, "scatter volume width and depth")
	fs.Float64Var(&c.BoxHeight, "box-height", c.BoxHeight, "scatter volume height")
	fs.StringVar(&c.DensityImage, "density-map", c.DensityImage, "grayscale image biasing placement (png, jpeg, gif, bmp, tiff, webp)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "scatter workers (0 for GOMAXPROCS)")

	fs.StringVar(&c.Heightmap, "heightmap", c.Heightmap, "write a 16-bit PNG heightmap to this path")
	fs.IntVar(&c.HeightmapSize, "heightmap-size", c.HeightmapSize, "resample the heightmap to this size (0 keeps the grid resolution)")
	fs.StringVar(&c.Lang, "lang", c.Lang, "report language tag")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "debug logging")
}

// Validate checks values the flag package cannot.
func (c *Config) Validate() error {
	if c.Feedback {
		c.Params.Mode = noise.ModeFeedback
	} else {
		c.Params.Mode = noise.ModeSingle
	}
	switch {
	case c.Resolution < 2:
		return fmt.Errorf("-resolution must be at least 2, got %d", c.Resolution)
	case c.Noise != "simplex" && c.Noise != "opensimplex":
		return fmt.Errorf("unsupported -noise %q (simplex, opensimplex)", c.Noise)
	case c.Boxes < 0:
		return errors.New("-boxes must not be negative")
	case c.HeightmapSize < 0:
		return errors.New("-heightmap-size must not be negative")
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return c.Scatter.Validate()
}

// f32Value adapts a float32 field to flag.Value.
type f32Value float32

func (f *f32Value) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 32)
}

func (f *f32Value) Set(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*f = f32Value(v)
	return nil
}
