// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displace

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/mesh"
	"github.com/gogpu/terrain/noise"
)

// fakeBackend records calls and returns a scripted dispatch outcome.
type fakeBackend struct {
	configured []compute.BufferDescriptor
	dispatched uint32
	result     []float32
	err        error
	closed     bool
}

func (f *fakeBackend) Kernel() *compute.Kernel { return Kernel() }

func (f *fakeBackend) Configure(bufs []compute.BufferDescriptor) error {
	if err := Kernel().CheckDescriptors(bufs); err != nil {
		return err
	}
	f.configured = bufs
	return nil
}

func (f *fakeBackend) Dispatch(_ context.Context, n uint32) ([]compute.Result, error) {
	f.dispatched = n
	if f.err != nil {
		return nil, f.err
	}
	return []compute.Result{
		{Label: "perm", Role: compute.RoleInput, Data: f.configured[1].Data},
		{Label: "original", Role: compute.RoleInput, Data: f.configured[2].Data},
		{Label: "displaced", Role: compute.RoleOutput, Data: compute.Float32Bytes(f.result)},
	}, nil
}

func (f *fakeBackend) Close() { f.closed = true }

func testGrid(t *testing.T, res int) *mesh.Grid {
	t.Helper()
	g, err := mesh.NewGrid(res, 100, 100)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestRunHost(t *testing.T) {
	g := testGrid(t, 16)
	p, err := New(noise.New(noise.DefaultSeed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	params := noise.DefaultParams()
	out := make([]float32, len(g.Original()))
	path, err := p.Run(context.Background(), params, g.Original(), out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if path != PathHost {
		t.Errorf("path = %v, want host", path)
	}

	orig := g.Original()
	var raised int
	for i := 0; i < len(out); i += 3 {
		if out[i] != orig[i] || out[i+2] != orig[i+2] {
			t.Fatalf("vertex %d: X/Z changed", i/3)
		}
		dy := out[i+1] - orig[i+1]
		if dy < 0 || dy > params.MaxHeight {
			t.Fatalf("vertex %d: height %v outside [0, %v]", i/3, dy, params.MaxHeight)
		}
		if dy > 0 {
			raised++
		}
	}
	if raised == 0 {
		t.Error("no vertex was displaced")
	}
}

func TestRunDeterministic(t *testing.T) {
	g := testGrid(t, 8)
	params := noise.DefaultParams()
	run := func() []float32 {
		p, _ := New(noise.New("same"))
		out := make([]float32, len(g.Original()))
		if _, err := p.Run(context.Background(), params, g.Original(), out); err != nil {
			t.Fatalf("Run: %v", err)
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("value %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRunValidation(t *testing.T) {
	p, _ := New(nil)
	ctx := context.Background()

	bad := noise.DefaultParams()
	bad.Octaves = -1
	if _, err := p.Run(ctx, bad, make([]float32, 3), make([]float32, 3)); !errors.Is(err, noise.ErrInvalidParams) {
		t.Errorf("negative octaves: err = %v", err)
	}

	tests := []struct {
		name    string
		in, out int
	}{
		{"ragged", 4, 4},
		{"short output", 6, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Run(ctx, noise.DefaultParams(), make([]float32, tt.in), make([]float32, tt.out))
			if !errors.Is(err, ErrLength) {
				t.Errorf("err = %v, want ErrLength", err)
			}
		})
	}
}

func TestRunHostCancelled(t *testing.T) {
	g := testGrid(t, 8)
	p, _ := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := make([]float32, len(g.Original()))
	if err := p.RunHost(ctx, noise.DefaultParams(), g.Original(), out); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunDevicePath(t *testing.T) {
	g := testGrid(t, 4)
	want := make([]float32, len(g.Original()))
	for i := range want {
		want[i] = float32(i)
	}
	fb := &fakeBackend{result: want}
	p, err := New(nil, WithBackend(fb))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	params := noise.DefaultParams()
	params.Mode = noise.ModeSingle

	out := make([]float32, len(want))
	path, err := p.Run(context.Background(), params, g.Original(), out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if path != PathDevice {
		t.Errorf("path = %v, want device", path)
	}
	if fb.dispatched != 16 {
		t.Errorf("dispatched %d elements, want 16", fb.dispatched)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}

	u := fb.configured[0].Data
	if len(u) != uniformSize {
		t.Fatalf("uniform is %d bytes, want %d", len(u), uniformSize)
	}
	words := compute.Result{Data: u}.Uint32s()
	if words[9] != uint32(params.Octaves) || words[10] != 1 || words[11] != 16 {
		t.Errorf("uniform tail = %v, want [%d 1 16]", words[9:], params.Octaves)
	}

	p.Close()
	if fb.closed {
		t.Error("Close released a backend the pipeline does not own")
	}
}

func TestRunFallsBackOnCapabilityLoss(t *testing.T) {
	g := testGrid(t, 4)
	fb := &fakeBackend{err: compute.ErrCapabilityUnavailable}
	p, _ := New(nil, WithBackend(fb))

	out := make([]float32, len(g.Original()))
	path, err := p.Run(context.Background(), noise.DefaultParams(), g.Original(), out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if path != PathHost {
		t.Errorf("path = %v, want host after capability loss", path)
	}

	host := make([]float32, len(out))
	if err := p.RunHost(context.Background(), noise.DefaultParams(), g.Original(), host); err != nil {
		t.Fatalf("RunHost: %v", err)
	}
	for i := range out {
		if out[i] != host[i] {
			t.Fatalf("fallback differs from host at %d", i)
		}
	}
}

func TestRunReturnsOtherDeviceErrors(t *testing.T) {
	g := testGrid(t, 4)
	fb := &fakeBackend{err: compute.ErrBufferLayoutMismatch}
	p, _ := New(nil, WithBackend(fb))

	out := make([]float32, len(g.Original()))
	if _, err := p.Run(context.Background(), noise.DefaultParams(), g.Original(), out); !errors.Is(err, compute.ErrBufferLayoutMismatch) {
		t.Errorf("err = %v, want ErrBufferLayoutMismatch", err)
	}
}

func TestNonPortablePrimitiveStaysOnHost(t *testing.T) {
	g := testGrid(t, 4)
	fb := &fakeBackend{}
	p, _ := New(nil, WithBackend(fb), WithPrimitive(noise.NewOpenSimplex("x")))
	if p.HasDevice() {
		t.Fatal("HasDevice true for a host-only primitive")
	}
	out := make([]float32, len(g.Original()))
	path, err := p.Run(context.Background(), noise.DefaultParams(), g.Original(), out)
	if err != nil || path != PathHost {
		t.Fatalf("Run = %v, %v", path, err)
	}
	if fb.dispatched != 0 {
		t.Error("backend dispatched for a host-only primitive")
	}
}

func TestKernelCompiles(t *testing.T) {
	k := Kernel()
	if err := k.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	words, err := compute.CompileSPIRV(k.Source)
	if err != nil {
		t.Fatalf("CompileSPIRV: %v", err)
	}
	if words[0] != 0x07230203 {
		t.Errorf("bad SPIR-V magic %#x", words[0])
	}
}

func TestPathString(t *testing.T) {
	if PathHost.String() != "host" || PathDevice.String() != "device" {
		t.Error("unexpected Path strings")
	}
}
