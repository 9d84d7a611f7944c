// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package cache provides a small generic LRU cache.
//
// The compute package uses it to keep compiled kernel binaries keyed by
// kernel source, so backends created repeatedly for the same kernel skip the
// WGSL compiler.
//
//	c := cache.New[string, []uint32](16)
//	words, err := c.GetOrCreate(src, func() ([]uint32, error) { return compile(src) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
