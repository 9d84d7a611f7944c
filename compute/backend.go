// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"time"
)

// Backend executes one kernel over configured buffers.
//
// A Backend is reusable: each job calls Configure with fresh buffers and
// then Dispatch. Implementations serialise their own calls, but a
// Configure/Dispatch pair from one caller may be interleaved with another
// caller's, so users sharing a Backend must hold their own lock across the
// pair.
type Backend interface {
	Kernel() *Kernel
	Configure(bufs []BufferDescriptor) error
	Dispatch(ctx context.Context, elementCount uint32) ([]Result, error)
	Close()
}

// DefaultTimeout bounds the wait for a submitted dispatch.
const DefaultTimeout = 5 * time.Second

// DefaultWorkgroupLimit is the WebGPU default for
// maxComputeWorkgroupsPerDimension.
const DefaultWorkgroupLimit = 65535

type options struct {
	timeout        time.Duration
	workgroupLimit uint32
	cacheSize      int
}

func defaultOptions() options {
	return options{
		timeout:        DefaultTimeout,
		workgroupLimit: DefaultWorkgroupLimit,
		cacheSize:      16,
	}
}

// Option configures a Device.
type Option func(*options)

// WithTimeout sets how long Dispatch waits for the device.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithWorkgroupLimit overrides the per-dimension workgroup limit.
func WithWorkgroupLimit(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.workgroupLimit = n
		}
	}
}

// WithShaderCache sets how many compiled kernels the device keeps.
func WithShaderCache(entries int) Option {
	return func(o *options) {
		if entries >= 0 {
			o.cacheSize = entries
		}
	}
}
