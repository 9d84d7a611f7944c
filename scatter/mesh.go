// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidMeshReference is returned when a pass is given a mesh it cannot
// read triangles from.
var ErrInvalidMeshReference = errors.New("scatter: invalid mesh reference")

// Mesh supplies triangles in model space plus the transform placing them in
// the world. Indices may be empty, in which case every nine position values
// form one triangle.
type Mesh interface {
	Positions() []float32
	Indices() []uint32
	WorldTransform() mgl64.Mat4
}

// StaticMesh is a Mesh over caller-owned slices.
type StaticMesh struct {
	Pos   []float32
	Idx   []uint32
	World mgl64.Mat4
}

// MeshAt wraps positions and indices placed by world.
func MeshAt(positions []float32, indices []uint32, world mgl64.Mat4) StaticMesh {
	return StaticMesh{Pos: positions, Idx: indices, World: world}
}

func (m StaticMesh) Positions() []float32       { return m.Pos }
func (m StaticMesh) Indices() []uint32          { return m.Idx }
func (m StaticMesh) WorldTransform() mgl64.Mat4 { return m.World }

// checkMesh reports whether m yields whole, in-range triangles.
func checkMesh(m Mesh) error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrInvalidMeshReference)
	}
	pos, idx := m.Positions(), m.Indices()
	if len(pos) == 0 || len(pos)%3 != 0 {
		return fmt.Errorf("%w: %d position values", ErrInvalidMeshReference, len(pos))
	}
	if len(idx) == 0 {
		if len(pos)%9 != 0 {
			return fmt.Errorf("%w: %d position values do not form whole triangles", ErrInvalidMeshReference, len(pos))
		}
		return nil
	}
	if len(idx)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrInvalidMeshReference, len(idx))
	}
	n := uint32(len(pos) / 3) //nolint:gosec // mesh sizes fit in uint32
	for i, v := range idx {
		if v >= n {
			return fmt.Errorf("%w: index %d refers to vertex %d of %d", ErrInvalidMeshReference, i, v, n)
		}
	}
	return nil
}

// triangle is a world-space face with its area.
type triangle struct {
	a, b, c mgl64.Vec3
	area    float64
}

// collectFaces returns the world-space faces of m with positive area whose
// bounding box touches [lo, hi].
func collectFaces(m Mesh, lo, hi mgl64.Vec3) []triangle {
	pos, idx := m.Positions(), m.Indices()
	world := m.WorldTransform()
	vertex := func(v int) mgl64.Vec3 {
		return transformPoint(world, mgl64.Vec3{float64(pos[v*3]), float64(pos[v*3+1]), float64(pos[v*3+2])})
	}

	faceCount := len(pos) / 9
	if len(idx) > 0 {
		faceCount = len(idx) / 3
	}
	var faces []triangle
	for f := range faceCount {
		var t triangle
		if len(idx) > 0 {
			t.a, t.b, t.c = vertex(int(idx[f*3])), vertex(int(idx[f*3+1])), vertex(int(idx[f*3+2]))
		} else {
			t.a, t.b, t.c = vertex(f*3), vertex(f*3+1), vertex(f*3+2)
		}
		if !t.touches(lo, hi) {
			continue
		}
		t.area = 0.5 * t.b.Sub(t.a).Cross(t.c.Sub(t.a)).Len()
		if t.area > 0 {
			faces = append(faces, t)
		}
	}
	return faces
}

func (t triangle) touches(lo, hi mgl64.Vec3) bool {
	for k := range 3 {
		tmin := min(t.a[k], t.b[k], t.c[k])
		tmax := max(t.a[k], t.b[k], t.c[k])
		if tmax < lo[k] || tmin > hi[k] {
			return false
		}
	}
	return true
}

// point returns u*a + v*b + w*c with w = 1-u-v.
func (t triangle) point(u, v float64) mgl64.Vec3 {
	w := 1 - u - v
	return t.a.Mul(u).Add(t.b.Mul(v)).Add(t.c.Mul(w))
}
