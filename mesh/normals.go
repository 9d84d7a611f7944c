// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import "math"

// ComputeNormals writes area-weighted vertex normals for an indexed triangle
// list into out, which must hold len(positions) values. Each face adds
// (C-B)×(A-B) to its three vertices; the sums are then normalised.
// Vertices referenced by no face, or whose contributions cancel, get a zero
// normal.
func ComputeNormals(positions []float32, indices []uint32, out []float32) {
	clear(out)
	for f := 0; f+2 < len(indices); f += 3 {
		a, b, c := int(indices[f])*3, int(indices[f+1])*3, int(indices[f+2])*3

		cbx := positions[c] - positions[b]
		cby := positions[c+1] - positions[b+1]
		cbz := positions[c+2] - positions[b+2]
		abx := positions[a] - positions[b]
		aby := positions[a+1] - positions[b+1]
		abz := positions[a+2] - positions[b+2]

		nx := cby*abz - cbz*aby
		ny := cbz*abx - cbx*abz
		nz := cbx*aby - cby*abx

		for _, v := range [3]int{a, b, c} {
			out[v] += nx
			out[v+1] += ny
			out[v+2] += nz
		}
	}

	for v := 0; v+2 < len(out); v += 3 {
		x, y, z := out[v], out[v+1], out[v+2]
		l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
		if l == 0 {
			continue
		}
		out[v] = x / l
		out[v+1] = y / l
		out[v+2] = z / l
	}
}
