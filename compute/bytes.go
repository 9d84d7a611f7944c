// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"encoding/binary"
	"math"
)

// Float32Bytes encodes v little-endian.
func Float32Bytes(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// Uint32Bytes encodes v little-endian.
func Uint32Bytes(v []uint32) []byte {
	out := make([]byte, 4*len(v))
	for i, u := range v {
		binary.LittleEndian.PutUint32(out[i*4:], u)
	}
	return out
}

// Float32s decodes the result as little-endian float32 values.
func (r Result) Float32s() []float32 {
	out := make([]float32, len(r.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.Data[i*4:]))
	}
	return out
}

// Uint32s decodes the result as little-endian uint32 values.
func (r Result) Uint32s() []uint32 {
	out := make([]uint32, len(r.Data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(r.Data[i*4:])
	}
	return out
}

// Packer builds a uniform block of 4-byte scalars in declaration order.
// WGSL places f32 and u32 struct members at consecutive 4-byte offsets, so
// a struct of scalars maps directly onto successive Packer calls; Bytes pads
// the block to a multiple of 16.
type Packer struct {
	buf []byte
}

// F32 appends a float32.
func (p *Packer) F32(v float32) *Packer {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, math.Float32bits(v))
	return p
}

// U32 appends a uint32.
func (p *Packer) U32(v uint32) *Packer {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
	return p
}

// Bytes returns the block padded to 16 bytes.
func (p *Packer) Bytes() []byte {
	for len(p.buf)%16 != 0 {
		p.buf = append(p.buf, 0)
	}
	return p.buf
}
