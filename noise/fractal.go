// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is a 3D gradient noise function.
type Primitive interface {
	Noise3(x, y, z float32) float32
}

// PortablePrimitive is a Primitive that the compute kernel can reproduce.
type PortablePrimitive interface {
	Primitive
	Portable() bool
}

// IsPortable reports whether prim can be evaluated on a compute device.
func IsPortable(prim Primitive) bool {
	pp, ok := prim.(PortablePrimitive)
	return ok && pp.Portable()
}

// Fractal sums Octaves ridged octaves of prim at p and shapes the result:
//
//	sum = Σ (1-|n_i|)²·a_i,  n_i = prim(p·f_i/Offset + (PosX, PosY, 0))
//	a_{i+1} = 0.2·a_i,  f_{i+1} = Lacunarity·f_i
//	return min(sum^Exponentiation, FractalLimit) · DistortHeight
//
// A zero sum yields zero regardless of the exponent.
func Fractal(prim Primitive, p mgl32.Vec3, params Params) float32 {
	var sum float32
	amplitude := params.Amplitude
	frequency := params.Frequency
	for range params.Octaves {
		s := frequency / params.Offset
		n := prim.Noise3(p[0]*s+params.PosX, p[1]*s+params.PosY, p[2]*s)
		r := 1 - abs(n)
		sum += r * r * amplitude
		amplitude *= 0.2
		frequency *= params.Lacunarity
	}
	if sum <= 0 {
		return 0
	}
	shaped := float32(math.Min(math.Pow(float64(sum), float64(params.Exponentiation)), FractalLimit))
	return shaped * params.DistortHeight
}

// Height returns the vertical displacement for p, already clamped to
// MaxHeight. The horizontal coordinates of p are never changed by
// displacement.
func Height(prim Primitive, p mgl32.Vec3, params Params) float32 {
	a := Fractal(prim, p, params)
	total := a
	if params.Mode == ModeFeedback {
		b := Fractal(prim, mgl32.Vec3{p[0], p[1] + a, p[2]}, params)
		c := Fractal(prim, mgl32.Vec3{p[0], p[1] + b, p[2]}, params)
		total = a + b + c
	}
	return min(total, params.MaxHeight)
}

// Displace returns p with Height added to its Y coordinate.
func Displace(prim Primitive, p mgl32.Vec3, params Params) mgl32.Vec3 {
	return mgl32.Vec3{p[0], p[1] + Height(prim, p, params), p[2]}
}

// Fractal is shorthand for Fractal(f, p, params).
func (f *Field) Fractal(p mgl32.Vec3, params Params) float32 {
	return Fractal(f, p, params)
}

// Displace is shorthand for Displace(f, p, params).
func (f *Field) Displace(p mgl32.Vec3, params Params) mgl32.Vec3 {
	return Displace(f, p, params)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
