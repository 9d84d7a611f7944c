// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh provides the regular grid that terrain displacement writes
// into, plus the per-vertex attributes derived from it.
//
// A Grid owns flat float32 buffers laid out the way GPU vertex buffers
// expect them: three floats per position and normal, two per UV, one per
// crease distance. Buffers are allocated once by NewGrid and overwritten in
// place afterwards, so slices handed to a renderer stay valid across
// regenerations.
//
// Grid performs no locking. Callers that regenerate while other goroutines
// read (see terrain.Surface) must serialise access themselves.
package mesh
