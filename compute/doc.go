// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compute runs one-dimensional WGSL compute kernels over flat
// buffers on a wgpu device.
//
// A Kernel declares its bindings in order: role (uniform, read-only input,
// read-write output) and either a fixed byte size or a per-element stride.
// A Backend built for that kernel is configured with matching
// BufferDescriptors, then dispatched over an element count:
//
//	dev, err := compute.Open()
//	if err != nil {
//		// errors.Is(err, compute.ErrCapabilityUnavailable): run on the host.
//	}
//	defer dev.Close()
//
//	b, err := dev.NewBackend(kernel)
//	err = b.Configure([]compute.BufferDescriptor{...})
//	results, err := b.Dispatch(ctx, n)
//
// Dispatch uses ceil(n/WorkgroupSize) workgroups along X and returns one
// Result per input and output buffer, in declaration order. Descriptors
// that disagree with the kernel are rejected with ErrBufferLayoutMismatch
// before anything is submitted.
//
// Building with the nogpu tag removes the wgpu dependency; Open then always
// reports ErrCapabilityUnavailable.
package compute
