// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/internal/logging"
	"github.com/gogpu/terrain/noise"
)

// ErrLength is returned when the position buffers are not whole xyz triples
// of equal length.
var ErrLength = errors.New("displace: position buffers must be equal-length xyz triples")

// cancelCheckInterval is how many vertices the host loop processes between
// context checks.
const cancelCheckInterval = 4096

// Path identifies where a displacement ran.
type Path uint8

const (
	PathHost Path = iota
	PathDevice
)

func (p Path) String() string {
	if p == PathDevice {
		return "device"
	}
	return "host"
}

// Pipeline displaces position buffers. It is safe for concurrent use;
// device jobs are serialised on the backend.
type Pipeline struct {
	mu      sync.Mutex
	field   *noise.Field
	prim    noise.Primitive
	backend compute.Backend
	owned   bool
}

// Option configures a Pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	device  *compute.Device
	backend compute.Backend
	prim    noise.Primitive
}

// WithDevice runs displacement on dev when possible.
func WithDevice(dev *compute.Device) Option {
	return func(o *pipelineOptions) { o.device = dev }
}

// WithBackend uses an existing backend built for Kernel(). The pipeline does
// not close it.
func WithBackend(b compute.Backend) Option {
	return func(o *pipelineOptions) { o.backend = b }
}

// WithPrimitive replaces the host noise primitive. Primitives that are not
// portable force the host path.
func WithPrimitive(p noise.Primitive) Option {
	return func(o *pipelineOptions) { o.prim = p }
}

// New creates a pipeline for field. A device that cannot build the kernel
// is logged and ignored; the pipeline then runs on the host.
func New(field *noise.Field, opts ...Option) (*Pipeline, error) {
	if field == nil {
		field = noise.New(noise.DefaultSeed)
	}
	var o pipelineOptions
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{field: field, prim: field, backend: o.backend}
	if o.prim != nil {
		p.prim = o.prim
	}
	if p.backend == nil && o.device != nil {
		b, err := o.device.NewBackend(Kernel())
		switch {
		case err == nil:
			p.backend, p.owned = b, true
		case errors.Is(err, compute.ErrCapabilityUnavailable):
			logging.Logger().Warn("displace: device kernel unavailable, using host", "err", err)
		default:
			return nil, fmt.Errorf("displace: %w", err)
		}
	}
	return p, nil
}

// Field returns the noise field.
func (p *Pipeline) Field() *noise.Field { return p.field }

// HasDevice reports whether Run will try the device first.
func (p *Pipeline) HasDevice() bool {
	return p.backend != nil && noise.IsPortable(p.prim)
}

// Run writes the displaced form of original into out. It tries the device
// first and falls back to the host when the device reports
// compute.ErrCapabilityUnavailable; any other device error is returned.
func (p *Pipeline) Run(ctx context.Context, params noise.Params, original, out []float32) (Path, error) {
	if err := params.Validate(); err != nil {
		return PathHost, err
	}
	if err := checkLengths(original, out); err != nil {
		return PathHost, err
	}

	if p.HasDevice() {
		err := p.RunDevice(ctx, params, original, out)
		if err == nil {
			return PathDevice, nil
		}
		if !errors.Is(err, compute.ErrCapabilityUnavailable) {
			return PathDevice, err
		}
		logging.Logger().Warn("displace: device failed, using host", "err", err)
	}
	return PathHost, p.RunHost(ctx, params, original, out)
}

// RunHost displaces on the calling goroutine, one vertex at a time.
func (p *Pipeline) RunHost(ctx context.Context, params noise.Params, original, out []float32) error {
	if err := checkLengths(original, out); err != nil {
		return err
	}
	for i := 0; i < len(original); i += 3 {
		if (i/3)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		d := noise.Displace(p.prim, mgl32.Vec3{original[i], original[i+1], original[i+2]}, params)
		out[i], out[i+1], out[i+2] = d[0], d[1], d[2]
	}
	return nil
}

// RunDevice displaces on the configured backend.
func (p *Pipeline) RunDevice(ctx context.Context, params noise.Params, original, out []float32) error {
	if p.backend == nil {
		return fmt.Errorf("%w: no device configured", compute.ErrCapabilityUnavailable)
	}
	if err := checkLengths(original, out); err != nil {
		return err
	}
	n := uint32(len(original) / 3) //nolint:gosec // bounded by checkLengths

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.backend.Configure(Job(p.field, params, original)); err != nil {
		return err
	}
	results, err := p.backend.Dispatch(ctx, n)
	if err != nil {
		return err
	}
	var displaced []float32
	for _, r := range results {
		if r.Label == "displaced" {
			displaced = r.Float32s()
		}
	}
	if len(displaced) != len(out) {
		return fmt.Errorf("%w: readback holds %d values, want %d", compute.ErrBufferLayoutMismatch, len(displaced), len(out))
	}
	copy(out, displaced)
	return nil
}

// Close releases a backend the pipeline created.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.owned && p.backend != nil {
		p.backend.Close()
	}
	p.backend = nil
}

func checkLengths(original, out []float32) error {
	switch {
	case len(original)%3 != 0:
		return fmt.Errorf("%w: %d input values", ErrLength, len(original))
	case len(out) != len(original):
		return fmt.Errorf("%w: %d input values, %d output", ErrLength, len(original), len(out))
	case len(original)/3 > math.MaxUint32:
		return fmt.Errorf("%w: %d vertices exceed dispatch range", ErrLength, len(original)/3)
	}
	return nil
}
