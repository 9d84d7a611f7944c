// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"math"

	"github.com/gogpu/terrain/internal/seedrand"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed = "fixed-seed"

// PermSize is the length of the wrapped permutation table.
const PermSize = 512

const (
	f3 = float32(1.0 / 3.0)
	g3 = float32(1.0 / 6.0)
)

// grad3 holds the twelve cube-edge gradients. The compute kernel carries the
// same table in the same order.
var grad3 = [12][3]float32{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Field is seeded 3D simplex noise. A Field is immutable after New and safe
// for concurrent use.
type Field struct {
	seed string
	perm [PermSize]uint8
}

// New builds a field from a string seed. Equal seeds give equal fields.
func New(seed string) *Field {
	f := &Field{seed: seed}
	rng := seedrand.New(seed)
	for i := range 256 {
		f.perm[i] = uint8(i)
	}
	for i := range 255 {
		r := i + int(rng.Float64()*float64(256-i))
		f.perm[i], f.perm[r] = f.perm[r], f.perm[i]
	}
	for i := 256; i < PermSize; i++ {
		f.perm[i] = f.perm[i-256]
	}
	return f
}

// Seed returns the seed the field was built from.
func (f *Field) Seed() string { return f.seed }

// Perm returns a copy of the permutation table widened to uint32, the
// layout the compute kernel binds.
func (f *Field) Perm() []uint32 {
	out := make([]uint32, PermSize)
	for i, v := range f.perm {
		out[i] = uint32(v)
	}
	return out
}

// Portable reports that Field has a device implementation.
func (f *Field) Portable() bool { return true }

// Noise3 returns simplex noise at (x, y, z), roughly in [-1, 1].
func (f *Field) Noise3(x, y, z float32) float32 {
	s := (x + y + z) * f3
	i := floor(x + s)
	j := floor(y + s)
	k := floor(z + s)
	t := float32(i+j+k) * g3
	x0 := x - (float32(i) - t)
	y0 := y - (float32(j) - t)
	z0 := z - (float32(k) - t)

	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float32(i1) + g3
	y1 := y0 - float32(j1) + g3
	z1 := z0 - float32(k1) + g3
	x2 := x0 - float32(i2) + 2*g3
	y2 := y0 - float32(j2) + 2*g3
	z2 := z0 - float32(k2) + 2*g3
	x3 := x0 - 1 + 3*g3
	y3 := y0 - 1 + 3*g3
	z3 := z0 - 1 + 3*g3

	ii, jj, kk := i&255, j&255, k&255
	p := &f.perm
	gi0 := ii + int(p[jj+int(p[kk])])
	gi1 := ii + i1 + int(p[jj+j1+int(p[kk+k1])])
	gi2 := ii + i2 + int(p[jj+j2+int(p[kk+k2])])
	gi3 := ii + 1 + int(p[jj+1+int(p[kk+1])])

	n := f.corner(x0, y0, z0, gi0) +
		f.corner(x1, y1, z1, gi1) +
		f.corner(x2, y2, z2, gi2) +
		f.corner(x3, y3, z3, gi3)
	return 32 * n
}

func (f *Field) corner(x, y, z float32, gi int) float32 {
	t := 0.6 - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	g := &grad3[f.perm[gi]%12]
	t *= t
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}

func floor(v float32) int {
	return int(math.Floor(float64(v)))
}
