// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mesh

import (
	"strings"
	"sync/atomic"
)

// Attribute identifies a vertex buffer of a Grid.
type Attribute uint32

const (
	AttrPosition Attribute = 1 << iota
	AttrNormal
	AttrUV
	AttrCrease

	AttrAll = AttrPosition | AttrNormal | AttrUV | AttrCrease
)

// Has reports whether every bit of o is set in a.
func (a Attribute) Has(o Attribute) bool { return a&o == o }

func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		bit  Attribute
		name string
	}{
		{AttrPosition, "position"},
		{AttrNormal, "normal"},
		{AttrUV, "uv"},
		{AttrCrease, "crease"},
	} {
		if a&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// Dirty records which attributes changed since a consumer last uploaded
// them. All methods are lock-free and safe for concurrent use.
type Dirty struct {
	bits atomic.Uint32
}

// Mark flags attributes as changed.
func (d *Dirty) Mark(a Attribute) { d.bits.Or(uint32(a)) }

// Peek returns the pending set without clearing it.
func (d *Dirty) Peek() Attribute { return Attribute(d.bits.Load()) }

// Take returns the pending set and clears it.
func (d *Dirty) Take() Attribute { return Attribute(d.bits.Swap(0)) }
