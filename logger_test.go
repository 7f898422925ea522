package glfx

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestNopHandlerDiscards(t *testing.T) {
	var h slog.Handler = nopHandler{}
	ctx := context.Background()
	if h.Enabled(ctx, slog.LevelError) {
		t.Error("nopHandler enabled at error level")
	}
	if err := h.Handle(ctx, slog.NewRecord(time.Time{}, slog.LevelError, "dropped", 0)); err != nil {
		t.Errorf("Handle() = %v", err)
	}
	h = h.WithAttrs([]slog.Attr{slog.Int("id", 7)}).WithGroup("native")
	if _, ok := h.(nopHandler); !ok {
		t.Errorf("derived handler is %T, want nopHandler", h)
	}
}

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

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if Logger() != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}

	c, err := NewContext(newFakeNative(), GL33)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	c.Close()
	if !strings.Contains(buf.String(), "context created") {
		t.Errorf("expected context creation to be logged, got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestWithLoggerPropagatesToNative(t *testing.T) {
	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	n := newFakeNative()
	c, err := NewContext(n, GL40, WithLogger(custom))
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	defer c.Close()

	if n.logger != custom {
		t.Error("NewContext did not propagate the logger through SetLogger")
	}
	if !strings.Contains(buf.String(), "MAX_PATCH_VERTICES") {
		t.Errorf("capability queries not logged at debug level: %s", buf.String())
	}
	if Logger() == custom {
		t.Error("WithLogger replaced the package logger")
	}
}

func TestBackendLoggerFixedAtCreation(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	first := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(first)
	n := newFakeNative()
	c, err := NewContext(n, GL33)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if n.logger != first {
		t.Fatal("backend did not receive the package logger")
	}

	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if n.logger != first {
		t.Error("SetLogger replaced the logger of an existing backend")
	}
}

func TestLoggerSwapDuringCleanup(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	// Orphan capture logs from cleanup goroutines while the logger is
	// replaced from another goroutine.
	c, err := NewContext(newFakeNative(), GL33)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var wg sync.WaitGroup
	wg.Go(func() {
		for range 50 {
			SetLogger(slog.Default())
			SetLogger(nil)
		}
	})
	wg.Go(func() {
		for range 50 {
			allocateOrphan(t, c)
			runtime.GC()
		}
	})
	wg.Wait()
	c.EndFrame()
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
}

func BenchmarkLoggerDisabledLog(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("glfx: allocated", "kind", KindBuffer, "id", 1)
	}
}

// allocateOrphan allocates a buffer id and drops the handle unreleased.
func allocateOrphan(t *testing.T, c *Context) {
	t.Helper()
	if _, err := c.NewBuffer().Allocate(); err != nil {
		t.Error(err)
	}
}
