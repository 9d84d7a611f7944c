// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package uv assigns planar texture coordinates to a position buffer by
// normalising X and Z over the buffer's bounding box.
package uv

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/internal/logging"
	"github.com/gogpu/terrain/mesh"
)

//go:embed uv.wgsl
var projectWGSL string

// ErrLength is returned when out cannot hold one uv pair per vertex.
var ErrLength = errors.New("uv: output must hold two values per vertex")

// Bounds returns the bounding box of positions. An empty buffer yields the
// zero box.
func Bounds(positions []float32) mesh.Bounds {
	b, _ := mesh.ComputeBounds(positions)
	return b
}

// ProjectCPU writes (u, v) for every vertex of positions into out.
func ProjectCPU(positions []float32, b mesh.Bounds, out []float32) error {
	if err := checkLengths(positions, out); err != nil {
		return err
	}
	invX, invZ := reciprocal(b.Min[0], b.Max[0]), reciprocal(b.Min[2], b.Max[2])
	for i, j := 0, 0; i+2 < len(positions); i, j = i+3, j+2 {
		out[j] = axis(positions[i], b.Min[0], invX)
		out[j+1] = axis(positions[i+2], b.Min[2], invZ)
	}
	return nil
}

// reciprocal returns 1/(hi-lo), or 0 for a zero-width axis. Both paths
// multiply by this value: f32 multiplication is exact-rounded on every
// device, division is not.
func reciprocal(lo, hi float32) float32 {
	span := hi - lo
	if span == 0 {
		return 0
	}
	return 1 / span
}

func axis(c, lo, inv float32) float32 {
	return min((c-lo)*inv, 1)
}

func checkLengths(positions, out []float32) error {
	if len(positions)%3 != 0 || len(out) != len(positions)/3*2 {
		return fmt.Errorf("%w: %d position values, %d uv values", ErrLength, len(positions), len(out))
	}
	return nil
}

// Kernel returns the projection kernel: bounds (uniform), positions
// (input), uvs (output).
func Kernel() *compute.Kernel {
	return &compute.Kernel{
		Label:  "terrain_uv",
		Source: projectWGSL,
		Bindings: []compute.Binding{
			{Label: "bounds", Role: compute.RoleUniform, Size: 32},
			{Label: "positions", Role: compute.RoleInput, Stride: 12},
			{Label: "uvs", Role: compute.RoleOutput, Stride: 8},
		},
	}
}

// Projector computes UVs, on a device when one was supplied.
type Projector struct {
	mu      sync.Mutex
	backend compute.Backend
	owned   bool
}

// Option configures a Projector.
type Option func(*Projector) error

// WithDevice builds the projection kernel on dev. A device that cannot
// build it is logged and the projector stays on the host.
func WithDevice(dev *compute.Device) Option {
	return func(p *Projector) error {
		if dev == nil {
			return nil
		}
		b, err := dev.NewBackend(Kernel())
		if err != nil {
			if errors.Is(err, compute.ErrCapabilityUnavailable) {
				logging.Logger().Warn("uv: device kernel unavailable, using host", "err", err)
				return nil
			}
			return fmt.Errorf("uv: %w", err)
		}
		p.backend, p.owned = b, true
		return nil
	}
}

// WithBackend uses a backend built for Kernel(). The projector does not
// close it.
func WithBackend(b compute.Backend) Option {
	return func(p *Projector) error {
		p.backend = b
		return nil
	}
}

// New creates a projector.
func New(opts ...Option) (*Projector, error) {
	p := &Projector{}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// HasDevice reports whether Project tries the device first.
func (p *Projector) HasDevice() bool { return p.backend != nil }

// Project writes UVs for positions into out, falling back to the host when
// the device reports compute.ErrCapabilityUnavailable.
func (p *Projector) Project(ctx context.Context, positions, out []float32) error {
	if err := checkLengths(positions, out); err != nil {
		return err
	}
	b := Bounds(positions)
	if p.backend != nil && len(positions) > 0 {
		err := p.projectDevice(ctx, positions, b, out)
		if err == nil {
			return nil
		}
		if !errors.Is(err, compute.ErrCapabilityUnavailable) {
			return err
		}
		logging.Logger().Warn("uv: device failed, using host", "err", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ProjectCPU(positions, b, out)
}

func (p *Projector) projectDevice(ctx context.Context, positions []float32, b mesh.Bounds, out []float32) error {
	n := uint32(len(positions) / 3) //nolint:gosec // bounded by the grid size
	uniform := packBounds(b, n)

	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.backend.Configure([]compute.BufferDescriptor{
		{Label: "bounds", Role: compute.RoleUniform, Data: uniform},
		{Label: "positions", Role: compute.RoleInput, Data: compute.Float32Bytes(positions)},
		{Label: "uvs", Role: compute.RoleOutput, Size: uint64(len(out)) * 4},
	})
	if err != nil {
		return err
	}
	results, err := p.backend.Dispatch(ctx, n)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Label == "uvs" {
			vals := r.Float32s()
			if len(vals) != len(out) {
				return fmt.Errorf("%w: readback holds %d values, want %d", compute.ErrBufferLayoutMismatch, len(vals), len(out))
			}
			copy(out, vals)
			return nil
		}
	}
	return fmt.Errorf("%w: no uvs readback", compute.ErrBufferLayoutMismatch)
}

func packBounds(b mesh.Bounds, n uint32) []byte {
	var pk compute.Packer
	return pk.F32(b.Min[0]).
		F32(b.Min[2]).
		F32(reciprocal(b.Min[0], b.Max[0])).
		F32(reciprocal(b.Min[2], b.Max[2])).
		U32(n).
		Bytes()
}

// Close releases a backend the projector created.
func (p *Projector) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.owned && p.backend != nil {
		p.backend.Close()
	}
	p.backend = nil
}
