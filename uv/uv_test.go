// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uv

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/mesh"
)

func TestProjectCPU(t *testing.T) {
	tests := []struct {
		name      string
		positions []float32
		want      []float32
	}{
		{
			name:      "unit square",
			positions: []float32{0, 0, 0, 2, 5, 0, 0, 1, 4, 2, 3, 4},
			want:      []float32{0, 0, 1, 0, 0, 1, 1, 1},
		},
		{
			name:      "midpoint",
			positions: []float32{-1, 0, -1, 1, 0, 1, 0, 0, 0},
			want:      []float32{0, 0, 1, 1, 0.5, 0.5},
		},
		{
			name:      "zero width X",
			positions: []float32{3, 0, 0, 3, 0, 10},
			want:      []float32{0, 0, 0, 1},
		},
		{
			name:      "inexact reciprocal",
			positions: []float32{0, 0, 0, 3, 0, 3},
			want:      []float32{0, 0, 1, 1},
		},
		{
			name:      "single vertex",
			positions: []float32{7, 7, 7},
			want:      []float32{0, 0},
		},
		{
			name:      "empty",
			positions: nil,
			want:      []float32{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]float32, len(tt.want))
			if err := ProjectCPU(tt.positions, Bounds(tt.positions), out); err != nil {
				t.Fatalf("ProjectCPU: %v", err)
			}
			for i := range tt.want {
				if out[i] != tt.want[i] {
					t.Errorf("out[%d] = %v, want %v", i, out[i], tt.want[i])
				}
			}
		})
	}
}

func TestProjectRange(t *testing.T) {
	g, err := mesh.NewGrid(9, 40, 20)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]float32, g.VertexCount()*2)
	p, _ := New()
	if err := p.Project(context.Background(), g.Positions(), out); err != nil {
		t.Fatalf("Project: %v", err)
	}
	for i, v := range out {
		if v < 0 || v > 1 {
			t.Fatalf("uv[%d] = %v outside [0,1]", i, v)
		}
	}
}

func TestProjectLength(t *testing.T) {
	p, _ := New()
	err := p.Project(context.Background(), make([]float32, 6), make([]float32, 3))
	if !errors.Is(err, ErrLength) {
		t.Errorf("err = %v, want ErrLength", err)
	}
}

type failingBackend struct{ err error }

func (f failingBackend) Kernel() *compute.Kernel                    { return Kernel() }
func (f failingBackend) Configure([]compute.BufferDescriptor) error { return nil }
func (f failingBackend) Dispatch(context.Context, uint32) ([]compute.Result, error) {
	return nil, f.err
}
func (f failingBackend) Close() {}

func TestProjectFallback(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 0, 1}
	p, _ := New(WithBackend(failingBackend{err: compute.ErrCapabilityUnavailable}))
	out := make([]float32, 4)
	if err := p.Project(context.Background(), positions, out); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if out[2] != 1 || out[3] != 1 {
		t.Errorf("fallback uvs = %v", out)
	}

	p, _ = New(WithBackend(failingBackend{err: compute.ErrNotConfigured}))
	if err := p.Project(context.Background(), positions, out); !errors.Is(err, compute.ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestKernelCompiles(t *testing.T) {
	if _, err := compute.CompileSPIRV(Kernel().Source); err != nil {
		t.Fatalf("CompileSPIRV: %v", err)
	}
}

func TestHostDeviceAgree(t *testing.T) {
	dev, err := compute.Open()
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer dev.Close()

	p, err := New(WithDevice(dev))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()
	if !p.HasDevice() {
		t.Skip("device kernel unavailable")
	}

	g, _ := mesh.NewGrid(32, 10, 30)
	pos := g.Positions()
	gpu := make([]float32, g.VertexCount()*2)
	if err := p.projectDevice(context.Background(), pos, Bounds(pos), gpu); err != nil {
		t.Skipf("GPU dispatch unavailable: %v", err)
	}
	host := make([]float32, len(gpu))
	if err := ProjectCPU(pos, Bounds(pos), host); err != nil {
		t.Fatal(err)
	}
	for i := range host {
		if host[i] != gpu[i] {
			t.Fatalf("uv %d: host=%v gpu=%v", i, host[i], gpu[i])
		}
	}
}

func TestPackBounds(t *testing.T) {
	b := mesh.Bounds{Min: [3]float32{-1, 0, 2}, Max: [3]float32{2, 9, 2}}
	words := compute.Result{Data: packBounds(b, 7)}.Uint32s()
	if len(words) != 8 {
		t.Fatalf("uniform holds %d words, want 8", len(words))
	}
	want := []uint32{
		math.Float32bits(-1),
		math.Float32bits(2),
		math.Float32bits(float32(1) / 3),
		0,
		7,
	}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d = %#x, want %#x", i, words[i], w)
		}
	}
}
