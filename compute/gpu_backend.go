// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package compute

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/terrain/internal/logging"
)

// GPUBackend runs a kernel on a Device.
type GPUBackend struct {
	mu     sync.Mutex
	dev    *Device
	kernel *Kernel
	closed bool

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	job *jobResources
}

var _ Backend = (*GPUBackend)(nil)

// jobResources are the buffers of the current configuration.
type jobResources struct {
	descs     []BufferDescriptor
	sizes     []uint64
	buffers   []hal.Buffer
	staging   []hal.Buffer // nil entries for uniforms
	bindGroup hal.BindGroup
}

// NewBackend compiles the kernel and creates its pipeline. Failures creating
// device objects wrap ErrCapabilityUnavailable; a kernel that does not
// compile is reported as is.
func (d *Device) NewBackend(k *Kernel) (*GPUBackend, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	device, _, err := d.handles()
	if err != nil {
		return nil, err
	}
	spirv, err := d.compile(k)
	if err != nil {
		return nil, fmt.Errorf("compute: kernel %q: %w", k.Label, err)
	}

	b := &GPUBackend{dev: d, kernel: k}
	if err := b.createPipeline(device, spirv); err != nil {
		b.destroyPipeline(device)
		return nil, fmt.Errorf("%w: kernel %q: %w", ErrCapabilityUnavailable, k.Label, err)
	}
	logging.Logger().Debug("compute: backend created", "kernel", k.Label, "bindings", len(k.Bindings))
	return b, nil
}

func (b *GPUBackend) createPipeline(device hal.Device, spirv []uint32) error {
	var err error
	b.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  b.kernel.Label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	entries := make([]gputypes.BindGroupLayoutEntry, len(b.kernel.Bindings))
	for i, bind := range b.kernel.Bindings {
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i), //nolint:gosec // binding count is tiny
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: bindingType(bind.Role)},
		}
	}
	b.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   b.kernel.Label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	b.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            b.kernel.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	b.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   b.kernel.Label + "_pipeline",
		Layout:  b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: b.kernel.Entry()},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	return nil
}

func bindingType(r Role) gputypes.BufferBindingType {
	switch r {
	case RoleUniform:
		return gputypes.BufferBindingTypeUniform
	case RoleInput:
		return gputypes.BufferBindingTypeReadOnlyStorage
	default:
		return gputypes.BufferBindingTypeStorage
	}
}

func bufferUsage(r Role) gputypes.BufferUsage {
	if r == RoleUniform {
		return gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
	}
	return gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst
}

// Kernel returns the kernel the backend runs.
func (b *GPUBackend) Kernel() *Kernel { return b.kernel }

// Configure replaces the job buffers: it validates bufs against the kernel,
// releases the previous buffers, allocates new ones and uploads their data.
func (b *GPUBackend) Configure(bufs []BufferDescriptor) error {
	if err := b.kernel.CheckDescriptors(bufs); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	device, queue, err := b.dev.handles()
	if err != nil {
		return err
	}
	b.releaseJob(device)

	job := &jobResources{
		descs:   append([]BufferDescriptor(nil), bufs...),
		sizes:   make([]uint64, len(bufs)),
		buffers: make([]hal.Buffer, len(bufs)),
		staging: make([]hal.Buffer, len(bufs)),
	}
	if err := b.allocate(device, queue, job); err != nil {
		job.release(device)
		return fmt.Errorf("%w: kernel %q: %w", ErrCapabilityUnavailable, b.kernel.Label, err)
	}
	b.job = job
	return nil
}

func (b *GPUBackend) allocate(device hal.Device, queue hal.Queue, job *jobResources) error {
	entries := make([]gputypes.BindGroupEntry, len(job.descs))
	for i, d := range job.descs {
		size := d.ByteSize()
		job.sizes[i] = size
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: b.kernel.Label + "_" + d.Label,
			Size:  size,
			Usage: bufferUsage(d.Role),
		})
		if err != nil {
			return fmt.Errorf("create buffer %q: %w", d.Label, err)
		}
		job.buffers[i] = buf
		if len(d.Data) > 0 {
			queue.WriteBuffer(buf, 0, d.Data)
		}

		if d.Role != RoleUniform {
			staging, err := device.CreateBuffer(&hal.BufferDescriptor{
				Label: b.kernel.Label + "_" + d.Label + "_staging",
				Size:  size,
				Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
			})
			if err != nil {
				return fmt.Errorf("create staging buffer %q: %w", d.Label, err)
			}
			job.staging[i] = staging
		}

		entries[i] = gputypes.BindGroupEntry{
			Binding:  uint32(i), //nolint:gosec // binding count is tiny
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: size},
		}
	}

	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   b.kernel.Label + "_bind",
		Layout:  b.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	job.bindGroup = bg
	return nil
}

// Dispatch runs the kernel over elementCount elements and reads back every
// input and output buffer. The context is consulted before submission only;
// submitted work runs to completion. Device failures after validation, such
// as a lost device or a fence timeout, wrap ErrCapabilityUnavailable, and so
// does ErrWorkgroupLimit: the element count fits on the host even when it
// does not fit in one dispatch.
func (b *GPUBackend) Dispatch(ctx context.Context, elementCount uint32) ([]Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	if b.job == nil {
		return nil, ErrNotConfigured
	}
	if err := b.kernel.CheckElements(b.job.descs, elementCount); err != nil {
		return nil, err
	}
	groups := WorkgroupCount(elementCount, b.kernel.LocalSize())
	if groups > b.dev.workgroupLimit {
		return nil, fmt.Errorf("%w: %w: %d workgroups for %d elements, limit %d",
			ErrCapabilityUnavailable, ErrWorkgroupLimit, groups, elementCount, b.dev.workgroupLimit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	device, queue, err := b.dev.handles()
	if err != nil {
		return nil, err
	}

	logging.Logger().Debug("compute: dispatch",
		"kernel", b.kernel.Label, "elements", elementCount, "workgroups", groups)

	if err := b.submitAndWait(device, queue, groups); err != nil {
		return nil, fmt.Errorf("%w: kernel %q: %w", ErrCapabilityUnavailable, b.kernel.Label, err)
	}

	results := make([]Result, 0, len(b.job.descs))
	for i, d := range b.job.descs {
		if d.Role == RoleUniform {
			continue
		}
		data := make([]byte, b.job.sizes[i])
		if err := queue.ReadBuffer(b.job.staging[i], 0, data); err != nil {
			return nil, fmt.Errorf("%w: kernel %q: readback %q: %w", ErrCapabilityUnavailable, b.kernel.Label, d.Label, err)
		}
		results = append(results, Result{Label: d.Label, Role: d.Role, Data: data})
	}
	return results, nil
}

func (b *GPUBackend) submitAndWait(device hal.Device, queue hal.Queue, groups uint32) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: b.kernel.Label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(b.kernel.Label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: b.kernel.Label + "_pass"})
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.job.bindGroup, nil)
	pass.Dispatch(groups, 1, 1)
	pass.End()

	for i, staging := range b.job.staging {
		if staging == nil {
			continue
		}
		encoder.CopyBufferToBuffer(b.job.buffers[i], staging, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: b.job.sizes[i]},
		})
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)
	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, b.dev.timeout)
	if err != nil || !ok {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

// Close releases the job buffers and the pipeline.
func (b *GPUBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	device, _, err := b.dev.handles()
	if err != nil {
		return
	}
	b.releaseJob(device)
	b.destroyPipeline(device)
}

func (b *GPUBackend) releaseJob(device hal.Device) {
	if b.job != nil {
		b.job.release(device)
		b.job = nil
	}
}

func (r *jobResources) release(device hal.Device) {
	if r.bindGroup != nil {
		device.DestroyBindGroup(r.bindGroup)
	}
	for _, buf := range r.staging {
		if buf != nil {
			device.DestroyBuffer(buf)
		}
	}
	for _, buf := range r.buffers {
		if buf != nil {
			device.DestroyBuffer(buf)
		}
	}
}

func (b *GPUBackend) destroyPipeline(device hal.Device) {
	if b.pipeline != nil {
		device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}
