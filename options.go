// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package terrain

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/noise"
)

// DefaultDebounce is the quiet period Schedule waits for before
// regenerating.
const DefaultDebounce = 150 * time.Millisecond

// Option configures a Surface during creation.
//
// Example:
//
//	dev, err := compute.Open()
//	if err != nil {
//	    dev = nil // CPU only
//	}
//	s, err := terrain.New(1024, 100, 100,
//	    terrain.WithDevice(dev),
//	    terrain.WithSeed("canyon"),
//	    terrain.WithCreaseThreshold(25),
//	)
type Option func(*options)

type options struct {
	device    *compute.Device
	seed      string
	params    noise.Params
	primitive noise.Primitive
	debounce  time.Duration
	transform mgl64.Mat4
	crease    float64
	onCommit  func(Commit)
}

func defaultOptions() options {
	return options{
		seed:      noise.DefaultSeed,
		params:    noise.DefaultParams(),
		debounce:  DefaultDebounce,
		transform: mgl64.Translate3D(0, 0, 1),
	}
}

// WithDevice runs displacement and UV projection on dev when possible.
// The surface does not close dev.
func WithDevice(dev *compute.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

// WithSeed sets the noise permutation seed.
func WithSeed(seed string) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithParams sets the parameters of the initial generation.
func WithParams(p noise.Params) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithPrimitive replaces the seeded simplex field with another noise
// source. Primitives that cannot run on a device keep displacement on the
// CPU.
func WithPrimitive(p noise.Primitive) Option {
	return func(o *options) {
		o.primitive = p
	}
}

// WithDebounce sets the quiet period used by Schedule. Zero regenerates on
// the next timer tick.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithTransform places the surface in the world. Scatter passes see the
// mesh through this transform.
func WithTransform(m mgl64.Mat4) Option {
	return func(o *options) {
		o.transform = m
	}
}

// WithCreaseThreshold enables the crease distance attribute. Edges whose
// faces meet at deg degrees or more count as creases.
func WithCreaseThreshold(deg float64) Option {
	return func(o *options) {
		o.crease = deg
	}
}

// WithOnCommit registers fn to run after every commit, outside the
// surface's lock.
func WithOnCommit(fn func(Commit)) Option {
	return func(o *options) {
		o.onCommit = fn
	}
}
