// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"errors"
	"fmt"
)

// DefaultWorkgroupSize is the X dimension of @workgroup_size used by the
// terrain kernels.
const DefaultWorkgroupSize = 64

// Role is how a kernel accesses a buffer.
type Role uint8

const (
	// RoleUniform is a small read-only parameter block.
	RoleUniform Role = iota
	// RoleInput is a read-only storage buffer.
	RoleInput
	// RoleOutput is a read-write storage buffer.
	RoleOutput
)

func (r Role) String() string {
	switch r {
	case RoleUniform:
		return "uniform"
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Binding declares one kernel binding. Exactly one of Size and Stride is
// non-zero: Size fixes the byte length, Stride makes it Stride×elementCount.
type Binding struct {
	Label  string
	Role   Role
	Size   uint64
	Stride uint64
}

// Kernel is a WGSL compute shader and the buffer layout it expects.
// Binding i of group 0 is Bindings[i].
type Kernel struct {
	Label         string
	Source        string
	EntryPoint    string // defaults to "main"
	WorkgroupSize uint32 // defaults to DefaultWorkgroupSize
	Bindings      []Binding
}

// Entry returns the entry point name.
func (k *Kernel) Entry() string {
	if k.EntryPoint == "" {
		return "main"
	}
	return k.EntryPoint
}

// LocalSize returns the workgroup X dimension.
func (k *Kernel) LocalSize() uint32 {
	if k.WorkgroupSize == 0 {
		return DefaultWorkgroupSize
	}
	return k.WorkgroupSize
}

// Validate checks the kernel declaration itself.
func (k *Kernel) Validate() error {
	if k.Source == "" {
		return fmt.Errorf("compute: kernel %q has no source", k.Label)
	}
	if len(k.Bindings) == 0 {
		return fmt.Errorf("compute: kernel %q declares no bindings", k.Label)
	}
	for i, b := range k.Bindings {
		if (b.Size == 0) == (b.Stride == 0) {
			return fmt.Errorf("compute: kernel %q binding %d (%s): exactly one of Size and Stride must be set", k.Label, i, b.Label)
		}
		if b.Role > RoleOutput {
			return fmt.Errorf("compute: kernel %q binding %d: %v", k.Label, i, b.Role)
		}
	}
	return nil
}

// BufferDescriptor is one buffer of a job. Size is the byte length; when
// zero, len(Data) is used. Data, if present, is uploaded at Configure and
// may be shorter than Size.
type BufferDescriptor struct {
	Label string
	Role  Role
	Data  []byte
	Size  uint64
}

// ByteSize returns the allocation size.
func (d BufferDescriptor) ByteSize() uint64 {
	if d.Size != 0 {
		return d.Size
	}
	return uint64(len(d.Data))
}

// Result is the read-back content of an input or output buffer.
type Result struct {
	Label string
	Role  Role
	Data  []byte
}

// CheckDescriptors verifies everything about bufs that does not depend on
// the element count.
func (k *Kernel) CheckDescriptors(bufs []BufferDescriptor) error {
	if len(bufs) != len(k.Bindings) {
		return fmt.Errorf("%w: kernel %q expects %d buffers, got %d",
			ErrBufferLayoutMismatch, k.Label, len(k.Bindings), len(bufs))
	}
	var errs []error
	for i, d := range bufs {
		b := k.Bindings[i]
		size := d.ByteSize()
		switch {
		case d.Role != b.Role:
			errs = append(errs, fmt.Errorf("binding %d (%s): role %v, kernel expects %v", i, b.Label, d.Role, b.Role))
		case size == 0:
			errs = append(errs, fmt.Errorf("binding %d (%s): empty buffer", i, b.Label))
		case size%4 != 0:
			errs = append(errs, fmt.Errorf("binding %d (%s): size %d is not a multiple of 4", i, b.Label, size))
		case uint64(len(d.Data)) > size:
			errs = append(errs, fmt.Errorf("binding %d (%s): %d data bytes exceed size %d", i, b.Label, len(d.Data), size))
		case b.Size != 0 && size != b.Size:
			errs = append(errs, fmt.Errorf("binding %d (%s): size %d, kernel expects %d", i, b.Label, size, b.Size))
		case b.Stride != 0 && size%b.Stride != 0:
			errs = append(errs, fmt.Errorf("binding %d (%s): size %d is not a multiple of stride %d", i, b.Label, size, b.Stride))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: kernel %q: %w", ErrBufferLayoutMismatch, k.Label, errors.Join(errs...))
	}
	return nil
}

// CheckElements verifies per-element buffers hold exactly n elements.
func (k *Kernel) CheckElements(bufs []BufferDescriptor, n uint32) error {
	if len(bufs) != len(k.Bindings) {
		return fmt.Errorf("%w: kernel %q expects %d buffers, got %d",
			ErrBufferLayoutMismatch, k.Label, len(k.Bindings), len(bufs))
	}
	for i, b := range k.Bindings {
		if b.Stride == 0 {
			continue
		}
		if want := b.Stride * uint64(n); bufs[i].ByteSize() != want {
			return fmt.Errorf("%w: kernel %q binding %d (%s): %d bytes for %d elements, want %d",
				ErrBufferLayoutMismatch, k.Label, i, b.Label, bufs[i].ByteSize(), n, want)
		}
	}
	return nil
}

// WorkgroupCount returns ceil(n/localSize).
func WorkgroupCount(n, localSize uint32) uint32 {
	if localSize == 0 {
		localSize = DefaultWorkgroupSize
	}
	return uint32((uint64(n) + uint64(localSize) - 1) / uint64(localSize)) //nolint:gosec // quotient ≤ n
}
