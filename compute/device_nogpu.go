// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package compute

import (
	"context"
	"fmt"

	"github.com/gogpu/gpucontext"
)

var errNoGPU = fmt.Errorf("%w: built with nogpu", ErrCapabilityUnavailable)

// Device is unavailable in nogpu builds.
type Device struct{}

// Open always fails in nogpu builds.
func Open(...Option) (*Device, error) { return nil, errNoGPU }

// OpenShared always fails in nogpu builds.
func OpenShared(gpucontext.DeviceProvider, ...Option) (*Device, error) { return nil, errNoGPU }

// Name returns an empty string.
func (*Device) Name() string { return "" }

// Close does nothing.
func (*Device) Close() {}

// NewBackend always fails in nogpu builds.
func (*Device) NewBackend(*Kernel) (*GPUBackend, error) { return nil, errNoGPU }

// GPUBackend is unavailable in nogpu builds.
type GPUBackend struct{}

var _ Backend = (*GPUBackend)(nil)

// Kernel returns nil.
func (*GPUBackend) Kernel() *Kernel { return nil }

// Configure always fails in nogpu builds.
func (*GPUBackend) Configure([]BufferDescriptor) error { return errNoGPU }

// Dispatch always fails in nogpu builds.
func (*GPUBackend) Dispatch(context.Context, uint32) ([]Result, error) { return nil, errNoGPU }

// Close does nothing.
func (*GPUBackend) Close() {}
