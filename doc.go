// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package terrain generates a displaced heightfield surface and scatters
// instances across it.
//
// # Overview
//
// A [Surface] owns a square grid mesh. Every regeneration displaces the
// grid's flat positions with ridged fractal noise, rebuilds normals and
// planar UVs, optionally measures distance to the nearest crease, and
// commits all of it at once. Readers never see a half-updated mesh.
//
// Displacement and UV projection run on a GPU compute device when one is
// supplied with [WithDevice] and fall back to the CPU when the device is
// missing or fails. Both paths evaluate the same float32 function.
//
// # Quick Start
//
//	s, err := terrain.New(512, 100, 100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	p := noise.DefaultParams()
//	p.Octaves = 6
//	if _, err := s.Regenerate(ctx, p); err != nil {
//	    log.Fatal(err)
//	}
//
//	sampler, _ := scatter.NewSampler(
//	    scatter.NewBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{50, 40, 50}),
//	    scatter.DefaultConfig(),
//	)
//	res, _ := s.Scatter(ctx, sampler)
//
// # Interactive Editing
//
// [Surface.Schedule] debounces rapid parameter changes: each call gets a
// new generation number and only the newest one is committed. A
// regeneration that finishes after a newer one was requested returns
// [ErrSuperseded] and leaves the mesh untouched.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to receive device
// selection, fallback and scatter warnings from every sub-package.
//
// # Packages
//
//   - noise: seeded simplex noise and the displacement height function
//   - compute: WGSL kernels on gogpu/wgpu devices
//   - displace, uv: per-vertex passes with device and host paths
//   - mesh: the grid, normals, bounds and crease distance
//   - scatter: area-weighted instance placement
package terrain
