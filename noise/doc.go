// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package noise implements the height function used to displace terrain.
//
// The primitive is seeded 3D simplex noise. Octaves of it are folded into
// ridges, (1-|n|)², summed with geometrically decaying amplitude and raised
// to a power. Displace stacks three such evaluations, each sampled at a
// point lifted by the previous result, which produces the characteristic
// terraced ridgelines.
//
// Field evaluates entirely in float32 and in the same operation order as
// the compute kernel in package displace, so host and device results agree
// to within rounding.
package noise
