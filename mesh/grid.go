// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResolution is returned for grids with fewer than two vertices
	// per side.
	ErrInvalidResolution = errors.New("mesh: resolution must be at least 2")

	// ErrLengthMismatch is returned when a replacement buffer does not match
	// the size of the attribute it replaces.
	ErrLengthMismatch = errors.New("mesh: buffer length mismatch")
)

// Grid is a resolution×resolution vertex plane in the XZ plane, centred on
// the origin, with two triangles per quad.
type Grid struct {
	resolution    int
	width, height float32

	positions []float32
	original  []float32
	indices   []uint32
	normals   []float32
	uvs       []float32
	creases   []float32

	dirty Dirty
}

// NewGrid builds a flat grid spanning width along X and height along Z.
//
// Vertex (x, y) of the lattice sits at X = -(x/(r-1)·width - width/2),
// Z = y/(r-1)·height - height/2, Y = 0. Each quad is split into the
// triangles (i, i+r+1, i+r) and (i, i+1, i+r+1), which face +Y.
func NewGrid(resolution int, width, height float32) (*Grid, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, resolution)
	}
	r := resolution
	n := r * r
	g := &Grid{
		resolution: r,
		width:      width,
		height:     height,
		positions:  make([]float32, n*3),
		original:   make([]float32, n*3),
		indices:    make([]uint32, 0, 6*(r-1)*(r-1)),
		normals:    make([]float32, n*3),
		uvs:        make([]float32, n*2),
	}

	step := float32(r - 1)
	for y := range r {
		for x := range r {
			i := x + y*r
			px := float32(x)/step*width - width/2
			pz := float32(y)/step*height - height/2
			g.positions[i*3+0] = -px
			g.positions[i*3+1] = 0
			g.positions[i*3+2] = pz

			if x < r-1 && y < r-1 {
				ui, ur := uint32(i), uint32(r) //nolint:gosec // resolution bounded by memory
				g.indices = append(g.indices,
					ui, ui+ur+1, ui+ur,
					ui, ui+1, ui+ur+1,
				)
			}
		}
	}
	copy(g.original, g.positions)
	ComputeNormals(g.positions, g.indices, g.normals)
	g.dirty.Mark(AttrAll)
	return g, nil
}

// Resolution returns the number of vertices per side.
func (g *Grid) Resolution() int { return g.resolution }

// Size returns the extent along X and Z.
func (g *Grid) Size() (width, height float32) { return g.width, g.height }

// VertexCount returns resolution².
func (g *Grid) VertexCount() int { return g.resolution * g.resolution }

// TriangleCount returns 2·(resolution-1)².
func (g *Grid) TriangleCount() int { return len(g.indices) / 3 }

// Positions returns the live position buffer (x, y, z per vertex).
func (g *Grid) Positions() []float32 { return g.positions }

// Original returns the undisplaced positions captured at construction.
// The returned slice must not be modified.
func (g *Grid) Original() []float32 { return g.original }

// Indices returns the triangle index buffer.
func (g *Grid) Indices() []uint32 { return g.indices }

// Normals returns the per-vertex normal buffer.
func (g *Grid) Normals() []float32 { return g.normals }

// UVs returns the per-vertex texture coordinate buffer.
func (g *Grid) UVs() []float32 { return g.uvs }

// CreaseDistance returns the per-vertex distance to the nearest crease, or
// nil if SetCreaseDistance has never been called.
func (g *Grid) CreaseDistance() []float32 { return g.creases }

// Dirty returns the attribute change tracker.
func (g *Grid) Dirty() *Dirty { return &g.dirty }

// SetPositions overwrites the position buffer and marks it dirty.
func (g *Grid) SetPositions(src []float32) error {
	if err := replace(g.positions, src, "positions"); err != nil {
		return err
	}
	g.dirty.Mark(AttrPosition)
	return nil
}

// SetNormals overwrites the normal buffer and marks it dirty.
func (g *Grid) SetNormals(src []float32) error {
	if err := replace(g.normals, src, "normals"); err != nil {
		return err
	}
	g.dirty.Mark(AttrNormal)
	return nil
}

// SetUVs overwrites the UV buffer and marks it dirty.
func (g *Grid) SetUVs(src []float32) error {
	if err := replace(g.uvs, src, "uvs"); err != nil {
		return err
	}
	g.dirty.Mark(AttrUV)
	return nil
}

// SetCreaseDistance stores the crease distance attribute, allocating it on
// first use.
func (g *Grid) SetCreaseDistance(src []float32) error {
	if g.creases == nil {
		g.creases = make([]float32, g.VertexCount())
	}
	if err := replace(g.creases, src, "crease distance"); err != nil {
		return err
	}
	g.dirty.Mark(AttrCrease)
	return nil
}

// RecomputeNormals rebuilds normals from the current positions.
func (g *Grid) RecomputeNormals() {
	ComputeNormals(g.positions, g.indices, g.normals)
	g.dirty.Mark(AttrNormal)
}

// Reset restores the original flat positions.
func (g *Grid) Reset() {
	copy(g.positions, g.original)
	g.RecomputeNormals()
	g.dirty.Mark(AttrPosition)
}

func replace(dst, src []float32, name string) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %s has %d values, got %d", ErrLengthMismatch, name, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
