// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import "errors"

var (
	// ErrCapabilityUnavailable means no usable compute device could be
	// acquired or a device-side object could not be created. Callers are
	// expected to fall back to a host implementation.
	ErrCapabilityUnavailable = errors.New("compute: capability unavailable")

	// ErrBufferLayoutMismatch means the configured buffers do not match the
	// kernel's declared bindings. It is a programming error, not a reason to
	// fall back.
	ErrBufferLayoutMismatch = errors.New("compute: buffer layout mismatch")

	// ErrNotConfigured is returned by Dispatch before a successful Configure.
	ErrNotConfigured = errors.New("compute: backend not configured")

	// ErrWorkgroupLimit is returned when a dispatch needs more workgroups than
	// the device allows in one dimension. Dispatch wraps it together with
	// ErrCapabilityUnavailable so callers fall back to the host.
	ErrWorkgroupLimit = errors.New("compute: workgroup count exceeds device limit")

	// ErrClosed is returned by operations on a closed device or backend.
	ErrClosed = errors.New("compute: closed")
)
