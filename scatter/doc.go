// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scatter places instances on a triangle mesh inside an oriented
// box.
//
// Placement is area weighted: a face is chosen with probability
// proportional to its world-space area and a point is drawn uniformly on
// it. Points outside the box are rejected, and an optional density map
// rejects points in proportion to its darkness. Every random draw for one
// pass comes from a single stream seeded by the configuration, so the same
// mesh, box and configuration always produce the same transforms.
//
// A pass never runs forever: after MaxAttempts draws it stops and returns
// what it has, in state StateExhausted.
package scatter
