// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package terrain

import (
	"log/slog"

	"github.com/gogpu/terrain/internal/logging"
)

// SetLogger configures the logger for terrain and all its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// Log levels used:
//   - [slog.LevelDebug]: dispatch sizes, superseded generations
//   - [slog.LevelInfo]: GPU adapter selected
//   - [slog.LevelWarn]: CPU fallback, empty scatter volumes, attempt limits
//
// Example:
//
//	terrain.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) { logging.Set(l) }

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger { return logging.Logger() }
