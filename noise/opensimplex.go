// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"hash/fnv"

	"github.com/ojrac/opensimplex-go"
)

// OpenSimplex adapts github.com/ojrac/opensimplex-go to Primitive.
//
// It has no compute kernel: a displacement pipeline configured with it
// always runs on the host.
type OpenSimplex struct {
	src opensimplex.Noise
}

// NewOpenSimplex seeds the generator from a string, hashed with FNV-1a so
// the same seed strings used elsewhere can drive it.
func NewOpenSimplex(seed string) *OpenSimplex {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return &OpenSimplex{src: opensimplex.New(int64(h.Sum64()))} //nolint:gosec // seed bits, sign irrelevant
}

// Noise3 evaluates OpenSimplex noise in float64 and narrows the result.
func (o *OpenSimplex) Noise3(x, y, z float32) float32 {
	return float32(o.src.Eval3(float64(x), float64(y), float64(z)))
}
