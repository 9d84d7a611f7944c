// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package compute

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/terrain/internal/cache"
	"github.com/gogpu/terrain/internal/logging"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device is an opened compute device shared by any number of backends.
type Device struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
	external bool // true when the device belongs to a host application
	closed   bool

	timeout        time.Duration
	workgroupLimit uint32
	modules        *cache.Cache[string, []uint32]
}

// Open acquires a Vulkan adapter, preferring discrete and integrated GPUs,
// and opens a device on it. Every failure wraps ErrCapabilityUnavailable.
func Open(opts ...Option) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrCapabilityUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", ErrCapabilityUnavailable, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", ErrCapabilityUnavailable)
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", ErrCapabilityUnavailable, err)
	}

	d := newDevice(openDev.Device, openDev.Queue, selected.Info.Name, false, opts)
	d.instance = instance
	logging.Logger().Info("compute: device opened", "adapter", d.name)
	return d, nil
}

// OpenShared wraps the device of a host application. The provider must
// also expose HalDevice() and HalQueue() returning wgpu hal objects; the
// device is not destroyed by Close.
func OpenShared(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrCapabilityUnavailable)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrCapabilityUnavailable)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrCapabilityUnavailable)
	}
	logging.Logger().Info("compute: using shared device")
	return newDevice(device, queue, "shared", true, opts), nil
}

// Wrap adopts an already opened hal device and queue without taking
// ownership.
func Wrap(device hal.Device, queue hal.Queue, opts ...Option) *Device {
	return newDevice(device, queue, "wrapped", true, opts)
}

func newDevice(device hal.Device, queue hal.Queue, name string, external bool, opts []Option) *Device {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Device{
		device:         device,
		queue:          queue,
		name:           name,
		external:       external,
		timeout:        o.timeout,
		workgroupLimit: o.workgroupLimit,
		modules:        cache.New[string, []uint32](o.cacheSize),
	}
}

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// Close releases the device unless it is shared. Backends created from the
// device must be closed first.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if !d.external && d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	d.device, d.queue, d.instance = nil, nil, nil
}

func (d *Device) handles() (hal.Device, hal.Queue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, nil, ErrClosed
	}
	return d.device, d.queue, nil
}

// compile returns SPIR-V words for the kernel, compiling at most once per
// distinct source while the entry stays cached.
func (d *Device) compile(k *Kernel) ([]uint32, error) {
	return d.modules.GetOrCreate(k.Source, func() ([]uint32, error) {
		return CompileSPIRV(k.Source)
	})
}
