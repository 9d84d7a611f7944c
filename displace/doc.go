// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package displace applies the noise height function to every vertex of a
// position buffer, on a compute device when one is available and on the
// host otherwise.
//
// Both paths read the undisplaced positions and write a fresh buffer of the
// same length; X and Z pass through unchanged and Y gains the clamped
// height. The device path uploads the field's permutation table with the
// positions so the kernel evaluates the same function the host does.
package displace
