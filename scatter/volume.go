// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidVolume is returned for boxes with non-positive extents or a
// singular transform.
var ErrInvalidVolume = errors.New("scatter: invalid volume")

// Volume is a box centred on the origin of its own frame.
type Volume struct {
	// Transform maps box-local coordinates to world space.
	Transform mgl64.Mat4
	// HalfExtents are the box's half sizes along its local axes.
	HalfExtents mgl64.Vec3
}

// NewBox returns an axis-aligned box of the given full size centred at
// center.
func NewBox(center, size mgl64.Vec3) Volume {
	return Volume{
		Transform:   mgl64.Translate3D(center[0], center[1], center[2]),
		HalfExtents: size.Mul(0.5),
	}
}

// Validate reports whether the volume can bound samples.
func (v Volume) Validate() error {
	for i, h := range v.HalfExtents {
		if !(h > 0) || math.IsInf(h, 0) {
			return fmt.Errorf("%w: half extent %d is %v", ErrInvalidVolume, i, h)
		}
	}
	if v.Transform.Det() == 0 {
		return fmt.Errorf("%w: singular transform", ErrInvalidVolume)
	}
	return nil
}

// WorldBounds returns the world-space axis-aligned box enclosing the
// volume's eight transformed corners.
func (v Volume) WorldBounds() (lo, hi mgl64.Vec3) {
	h := v.HalfExtents
	for i := range 8 {
		c := mgl64.Vec3{h[0], h[1], h[2]}
		if i&1 != 0 {
			c[0] = -c[0]
		}
		if i&2 != 0 {
			c[1] = -c[1]
		}
		if i&4 != 0 {
			c[2] = -c[2]
		}
		w := transformPoint(v.Transform, c)
		if i == 0 {
			lo, hi = w, w
			continue
		}
		for k := range 3 {
			lo[k] = math.Min(lo[k], w[k])
			hi[k] = math.Max(hi[k], w[k])
		}
	}
	return lo, hi
}

// containsLocal reports whether a box-local point lies inside the box,
// faces included.
func (v Volume) containsLocal(p mgl64.Vec3) bool {
	for k := range 3 {
		if p[k] < -v.HalfExtents[k] || p[k] > v.HalfExtents[k] {
			return false
		}
	}
	return true
}

func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
