// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displace

import (
	_ "embed"

	"github.com/gogpu/terrain/compute"
	"github.com/gogpu/terrain/noise"
)

//go:embed displace.wgsl
var displaceWGSL string

// uniformSize is the byte size of the kernel's Params block.
const uniformSize = 48

// vertexStride is the byte size of one packed xyz position.
const vertexStride = 12

// Kernel returns the displacement kernel declaration. Bindings, in order:
// params (uniform), perm (input), original (input), displaced (output).
func Kernel() *compute.Kernel {
	return &compute.Kernel{
		Label:  "terrain_displace",
		Source: displaceWGSL,
		Bindings: []compute.Binding{
			{Label: "params", Role: compute.RoleUniform, Size: uniformSize},
			{Label: "perm", Role: compute.RoleInput, Size: noise.PermSize * 4},
			{Label: "original", Role: compute.RoleInput, Stride: vertexStride},
			{Label: "displaced", Role: compute.RoleOutput, Stride: vertexStride},
		},
	}
}

// packParams lays out params in the kernel's uniform order.
func packParams(p noise.Params, count uint32) []byte {
	var pk compute.Packer
	return pk.
		F32(p.Amplitude).
		F32(p.Frequency).
		F32(p.Offset).
		F32(p.DistortHeight).
		F32(p.Exponentiation).
		F32(p.Lacunarity).
		F32(p.PosX).
		F32(p.PosY).
		F32(p.MaxHeight).
		U32(uint32(p.Octaves)). //nolint:gosec // validated to [0, MaxOctaves]
		U32(p.Mode.Passes()).
		U32(count).
		Bytes()
}

// Job builds the buffer descriptors for displacing original.
func Job(field *noise.Field, params noise.Params, original []float32) []compute.BufferDescriptor {
	count := uint32(len(original) / 3) //nolint:gosec // checked by callers
	return []compute.BufferDescriptor{
		{Label: "params", Role: compute.RoleUniform, Data: packParams(params, count)},
		{Label: "perm", Role: compute.RoleInput, Data: compute.Uint32Bytes(field.Perm())},
		{Label: "original", Role: compute.RoleInput, Data: compute.Float32Bytes(original)},
		{Label: "displaced", Role: compute.RoleOutput, Size: uint64(len(original)) * 4},
	}
}
