// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package seedrand provides a deterministic pseudo-random stream keyed by an
// arbitrary string.
//
// The generator is RC4 with the first 256 bytes dropped. Keys are mixed from
// the UTF-16 code units of the seed and each float is assembled from 48 to 52
// bits of keystream, so a given seed yields the same sequence of doubles as
// the widely deployed JavaScript "seedrandom" package. Scenes authored
// against that generator therefore reproduce bit-for-bit.
//
// A Stream is not safe for concurrent use.
package seedrand

import "unicode/utf16"

const (
	width        = 256
	mask         = width - 1
	chunks       = 6
	startDenom   = float64(1 << (8 * chunks))
	significance = float64(1 << 52)
	overflow     = significance * 2
)

// Stream is an RC4-drop[256] keystream that yields uniform doubles in [0, 1).
type Stream struct {
	i, j int
	s    [width]int
}

// New returns a stream keyed by seed. An empty seed is valid.
func New(seed string) *Stream {
	key := mixKey(seed)
	if len(key) == 0 {
		key = []int{0}
	}

	st := &Stream{}
	for i := range width {
		st.s[i] = i
	}
	j := 0
	for i := range width {
		t := st.s[i]
		j = mask & (j + key[i%len(key)] + t)
		st.s[i] = st.s[j]
		st.s[j] = t
	}
	for range width {
		st.byte()
	}
	return st
}

// mixKey folds the seed into at most 256 key bytes.
func mixKey(seed string) []int {
	units := utf16.Encode([]rune(seed))
	key := make([]int, 0, min(len(units), width))
	var smear int32
	for j, c := range units {
		idx := j & mask
		var k int32
		if idx < len(key) {
			k = int32(key[idx]) //nolint:gosec // key bytes are < 256
		}
		smear ^= k * 19
		v := int(mask & (smear + int32(c)))
		if idx < len(key) {
			key[idx] = v
		} else {
			key = append(key, v)
		}
	}
	return key
}

// byte advances the keystream by one output byte.
func (st *Stream) byte() int {
	st.i = mask & (st.i + 1)
	t := st.s[st.i]
	st.j = mask & (st.j + t)
	st.s[st.i] = st.s[st.j]
	st.s[st.j] = t
	return st.s[mask&(st.s[st.i]+st.s[st.j])]
}

func (st *Stream) bytes(count int) float64 {
	var r float64
	for range count {
		r = r*width + float64(st.byte())
	}
	return r
}

// Float64 returns the next value in [0, 1).
func (st *Stream) Float64() float64 {
	n := st.bytes(chunks)
	d := startDenom
	x := 0.0
	for n < significance {
		n = (n + x) * width
		d *= width
		x = st.bytes(1)
	}
	for n >= overflow {
		n /= 2
		d /= 2
		x = float64(uint32(x) >> 1)
	}
	return (n + x) / d
}

// Range returns a value in [lo, hi).
func (st *Stream) Range(lo, hi float64) float64 {
	return st.Float64()*(hi-lo) + lo
}
