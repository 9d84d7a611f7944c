// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"errors"
	"math"
	"testing"
)

func TestNewGridCounts(t *testing.T) {
	tests := []struct {
		res       int
		verts     int
		indices   int
		triangles int
	}{
		{2, 4, 6, 2},
		{4, 16, 54, 18},
		{10, 100, 486, 162},
	}
	for _, tt := range tests {
		g, err := NewGrid(tt.res, 4, 4)
		if err != nil {
			t.Fatalf("NewGrid(%d): %v", tt.res, err)
		}
		if got := g.VertexCount(); got != tt.verts {
			t.Errorf("res %d: VertexCount = %d, want %d", tt.res, got, tt.verts)
		}
		if got := len(g.Positions()); got != tt.verts*3 {
			t.Errorf("res %d: len(Positions) = %d, want %d", tt.res, got, tt.verts*3)
		}
		if got := len(g.Indices()); got != tt.indices {
			t.Errorf("res %d: len(Indices) = %d, want %d", tt.res, got, tt.indices)
		}
		if got := g.TriangleCount(); got != tt.triangles {
			t.Errorf("res %d: TriangleCount = %d, want %d", tt.res, got, tt.triangles)
		}
		if got := len(g.UVs()); got != tt.verts*2 {
			t.Errorf("res %d: len(UVs) = %d, want %d", tt.res, got, tt.verts*2)
		}
	}
}

func TestNewGridInvalidResolution(t *testing.T) {
	for _, res := range []int{-1, 0, 1} {
		if _, err := NewGrid(res, 1, 1); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("NewGrid(%d) error = %v, want ErrInvalidResolution", res, err)
		}
	}
}

func TestNewGridFlatWithUpNormals(t *testing.T) {
	g, err := NewGrid(4, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	pos := g.Positions()
	nrm := g.Normals()
	for v := range g.VertexCount() {
		if pos[v*3+1] != 0 {
			t.Errorf("vertex %d: y = %v, want 0", v, pos[v*3+1])
		}
		if nrm[v*3] != 0 || nrm[v*3+1] != 1 || nrm[v*3+2] != 0 {
			t.Errorf("vertex %d: normal = %v, want (0,1,0)", v, nrm[v*3:v*3+3])
		}
	}
}

func TestNewGridLayout(t *testing.T) {
	g, err := NewGrid(3, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	pos := g.Positions()
	// First vertex: X mirrored to +width/2, Z at -height/2.
	if pos[0] != 5 || pos[2] != -10 {
		t.Errorf("vertex 0 = (%v, %v), want (5, -10)", pos[0], pos[2])
	}
	last := (g.VertexCount() - 1) * 3
	if pos[last] != -5 || pos[last+2] != 10 {
		t.Errorf("last vertex = (%v, %v), want (-5, 10)", pos[last], pos[last+2])
	}

	want := []uint32{0, 4, 3, 0, 1, 4}
	for i, w := range want {
		if g.Indices()[i] != w {
			t.Fatalf("first quad indices = %v, want %v", g.Indices()[:6], want)
		}
	}
	for _, idx := range g.Indices() {
		if int(idx) >= g.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestOriginalIsSnapshot(t *testing.T) {
	g, _ := NewGrid(3, 2, 2)
	before := append([]float32(nil), g.Original()...)

	lifted := append([]float32(nil), g.Positions()...)
	for i := 1; i < len(lifted); i += 3 {
		lifted[i] = 7
	}
	if err := g.SetPositions(lifted); err != nil {
		t.Fatal(err)
	}
	for i, v := range g.Original() {
		if v != before[i] {
			t.Fatalf("original[%d] changed: %v -> %v", i, before[i], v)
		}
	}
	if g.Positions()[1] != 7 {
		t.Error("SetPositions did not write through")
	}

	g.Reset()
	if g.Positions()[1] != 0 {
		t.Error("Reset did not restore original positions")
	}
}

func TestSetLengthMismatch(t *testing.T) {
	g, _ := NewGrid(3, 2, 2)
	ptr := &g.Positions()[0]
	if err := g.SetPositions(make([]float32, 5)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("SetPositions error = %v, want ErrLengthMismatch", err)
	}
	if err := g.SetUVs(make([]float32, 3)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("SetUVs error = %v, want ErrLengthMismatch", err)
	}
	if err := g.SetNormals(nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("SetNormals error = %v, want ErrLengthMismatch", err)
	}
	if &g.Positions()[0] != ptr {
		t.Error("position buffer was reallocated")
	}
}

func TestDirtyTracking(t *testing.T) {
	g, _ := NewGrid(2, 1, 1)
	if got := g.Dirty().Take(); got != AttrAll {
		t.Errorf("fresh grid dirty = %v, want %v", got, AttrAll)
	}
	if got := g.Dirty().Peek(); got != 0 {
		t.Errorf("after Take dirty = %v, want none", got)
	}

	_ = g.SetUVs(make([]float32, 8))
	g.RecomputeNormals()
	got := g.Dirty().Take()
	if !got.Has(AttrUV|AttrNormal) || got.Has(AttrPosition) {
		t.Errorf("dirty = %v, want normal|uv", got)
	}
	if s := (AttrPosition | AttrUV).String(); s != "position|uv" {
		t.Errorf("String() = %q", s)
	}
	if s := Attribute(0).String(); s != "none" {
		t.Errorf("String() = %q, want none", s)
	}
}

func TestComputeNormalsSlope(t *testing.T) {
	g, _ := NewGrid(3, 2, 2)
	pos := append([]float32(nil), g.Positions()...)
	// y = z gives a 45° ramp; every normal is (0, 1, -1)/√2.
	for i := 0; i < len(pos); i += 3 {
		pos[i+1] = pos[i+2]
	}
	out := make([]float32, len(pos))
	ComputeNormals(pos, g.Indices(), out)
	want := float32(1 / math.Sqrt2)
	for v := 0; v < len(out); v += 3 {
		if !near(out[v], 0) || !near(out[v+1], want) || !near(out[v+2], -want) {
			t.Fatalf("vertex %d normal = %v", v/3, out[v:v+3])
		}
	}
}

func TestComputeBounds(t *testing.T) {
	if _, ok := ComputeBounds(nil); ok {
		t.Error("ComputeBounds(nil) ok = true")
	}
	b, ok := ComputeBounds([]float32{1, 2, 3, -1, 5, 0, 4, -2, 1})
	if !ok {
		t.Fatal("ComputeBounds ok = false")
	}
	if b.Min != [3]float32{-1, -2, 0} || b.Max != [3]float32{4, 5, 3} {
		t.Errorf("bounds = %+v", b)
	}
	if b.Size() != [3]float32{5, 7, 3} {
		t.Errorf("Size() = %v", b.Size())
	}
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }
