// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max [3]float32
}

// ComputeBounds returns the bounding box of a packed xyz position buffer.
// ok is false when positions holds no complete vertex.
func ComputeBounds(positions []float32) (b Bounds, ok bool) {
	if len(positions) < 3 {
		return Bounds{}, false
	}
	copy(b.Min[:], positions[:3])
	copy(b.Max[:], positions[:3])
	for i := 3; i+2 < len(positions); i += 3 {
		for k := range 3 {
			v := positions[i+k]
			if v < b.Min[k] {
				b.Min[k] = v
			}
			if v > b.Max[k] {
				b.Max[k] = v
			}
		}
	}
	return b, true
}

// Size returns Max - Min per axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}
