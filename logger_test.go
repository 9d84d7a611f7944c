// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package terrain

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/terrain/internal/logging"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLoggerReachesSubPackages(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if Logger() != custom || logging.Logger() != custom {
		t.Fatal("SetLogger did not install the logger everywhere")
	}
	logging.Logger().Warn("scatter warning", "key", "value")
	if !strings.Contains(buf.String(), "scatter warning") {
		t.Errorf("log output missing message: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)
	if !logging.Nop(Logger().Handler()) {
		t.Error("SetLogger(nil) did not restore the silent handler")
	}
}
