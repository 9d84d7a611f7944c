// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"errors"
	"math"
	"testing"
)

const scaleKernelWGSL = `
struct Params {
    scale: f32,
    count: u32,
    _pad0: u32,
    _pad1: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src: array<f32>;
@group(0) @binding(2) var<storage, read_write> dst: array<f32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    let i = id.x;
    if (i >= params.count) {
        return;
    }
    dst[i] = src[i] * params.scale;
}
`

func scaleKernel() *Kernel {
	return &Kernel{
		Label:  "scale",
		Source: scaleKernelWGSL,
		Bindings: []Binding{
			{Label: "params", Role: RoleUniform, Size: 16},
			{Label: "src", Role: RoleInput, Stride: 4},
			{Label: "dst", Role: RoleOutput, Stride: 4},
		},
	}
}

func scaleJob(scale float32, src []float32) []BufferDescriptor {
	params := (&Packer{}).F32(scale).U32(uint32(len(src))).Bytes() //nolint:gosec // test sizes
	return []BufferDescriptor{
		{Label: "params", Role: RoleUniform, Data: params},
		{Label: "src", Role: RoleInput, Data: Float32Bytes(src)},
		{Label: "dst", Role: RoleOutput, Size: uint64(4 * len(src))},
	}
}

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		n, local, want uint32
	}{
		{0, 64, 0},
		{1, 64, 1},
		{63, 64, 1},
		{64, 64, 1},
		{65, 64, 2},
		{160000, 64, 2500},
		{math.MaxUint32, 64, 67108864},
		{100, 0, 2},
		{10, 1, 10},
	}
	for _, tt := range tests {
		if got := WorkgroupCount(tt.n, tt.local); got != tt.want {
			t.Errorf("WorkgroupCount(%d, %d) = %d, want %d", tt.n, tt.local, got, tt.want)
		}
	}
}

func TestKernelDefaults(t *testing.T) {
	k := scaleKernel()
	if k.Entry() != "main" {
		t.Errorf("Entry() = %q, want main", k.Entry())
	}
	if k.LocalSize() != DefaultWorkgroupSize {
		t.Errorf("LocalSize() = %d, want %d", k.LocalSize(), DefaultWorkgroupSize)
	}
	if err := k.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestKernelValidate(t *testing.T) {
	tests := []struct {
		name string
		k    Kernel
	}{
		{"no source", Kernel{Label: "k", Bindings: []Binding{{Role: RoleInput, Stride: 4}}}},
		{"no bindings", Kernel{Label: "k", Source: "x"}},
		{"size and stride", Kernel{Label: "k", Source: "x", Bindings: []Binding{{Role: RoleInput, Size: 4, Stride: 4}}}},
		{"neither", Kernel{Label: "k", Source: "x", Bindings: []Binding{{Role: RoleInput}}}},
		{"bad role", Kernel{Label: "k", Source: "x", Bindings: []Binding{{Role: 9, Size: 4}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.k.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestCheckDescriptors(t *testing.T) {
	k := scaleKernel()
	if err := k.CheckDescriptors(scaleJob(2, []float32{1, 2, 3})); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]BufferDescriptor) []BufferDescriptor
	}{
		{"too few", func(b []BufferDescriptor) []BufferDescriptor { return b[:2] }},
		{"too many", func(b []BufferDescriptor) []BufferDescriptor { return append(b, b[1]) }},
		{"swapped roles", func(b []BufferDescriptor) []BufferDescriptor {
			b[1], b[2] = b[2], b[1]
			return b
		}},
		{"uniform size", func(b []BufferDescriptor) []BufferDescriptor {
			b[0].Data = b[0].Data[:8]
			return b
		}},
		{"unaligned", func(b []BufferDescriptor) []BufferDescriptor {
			b[2].Size = 6
			return b
		}},
		{"empty", func(b []BufferDescriptor) []BufferDescriptor {
			b[1].Data = nil
			return b
		}},
		{"data exceeds size", func(b []BufferDescriptor) []BufferDescriptor {
			b[1].Size = 4
			return b
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bufs := tt.mutate(scaleJob(2, []float32{1, 2, 3}))
			if err := k.CheckDescriptors(bufs); !errors.Is(err, ErrBufferLayoutMismatch) {
				t.Errorf("CheckDescriptors() = %v, want ErrBufferLayoutMismatch", err)
			}
		})
	}
}

func TestCheckElements(t *testing.T) {
	k := scaleKernel()
	bufs := scaleJob(1, make([]float32, 10))
	if err := k.CheckElements(bufs, 10); err != nil {
		t.Errorf("CheckElements(10) = %v", err)
	}
	for _, n := range []uint32{0, 9, 11} {
		if err := k.CheckElements(bufs, n); !errors.Is(err, ErrBufferLayoutMismatch) {
			t.Errorf("CheckElements(%d) = %v, want ErrBufferLayoutMismatch", n, err)
		}
	}
}

func TestPacker(t *testing.T) {
	b := (&Packer{}).F32(1).U32(7).F32(-2).Bytes()
	if len(b) != 16 {
		t.Fatalf("len = %d, want 16", len(b))
	}
	r := Result{Data: b}
	f := r.Float32s()
	u := r.Uint32s()
	if f[0] != 1 || u[1] != 7 || f[2] != -2 || u[3] != 0 {
		t.Errorf("packed = %v / %v", f, u)
	}

	twelve := (&Packer{}).U32(1).U32(2).U32(3).U32(4).U32(5).Bytes()
	if len(twelve) != 32 {
		t.Errorf("20-byte block padded to %d, want 32", len(twelve))
	}
}

func TestByteHelpers(t *testing.T) {
	in := []float32{0, -1.5, float32(math.Inf(1)), 3.25}
	out := Result{Data: Float32Bytes(in)}.Float32s()
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("float %d: %v != %v", i, in[i], out[i])
		}
	}
	u := Result{Data: Uint32Bytes([]uint32{1, 1 << 31})}.Uint32s()
	if u[0] != 1 || u[1] != 1<<31 {
		t.Errorf("uint32 round trip = %v", u)
	}
}

func TestRoleString(t *testing.T) {
	for r, want := range map[Role]string{RoleUniform: "uniform", RoleInput: "input", RoleOutput: "output", 5: "Role(5)"} {
		if r.String() != want {
			t.Errorf("Role(%d).String() = %q, want %q", r, r.String(), want)
		}
	}
}
