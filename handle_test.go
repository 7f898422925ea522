package glfx_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/gogpu/glfx"
)

func TestHandleLazyAllocation(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)

	b := c.NewBuffer()
	if b.State() != glfx.Unallocated || b.ID() != 0 {
		t.Fatalf("new buffer state = %s, id = %d", b.State(), b.ID())
	}
	if rec.CallCount("GenObjects") != 0 {
		t.Fatal("NewBuffer issued a native allocation")
	}

	id, err := b.Allocate()
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	again, err := b.Allocate()
	if err != nil || again != id {
		t.Errorf("second Allocate() = %d, %v; want %d", again, err, id)
	}
	if got := rec.CallCount("GenObjects"); got != 1 {
		t.Errorf("GenObjects called %d times, want 1", got)
	}
	if !b.IsAllocated() || b.Kind() != glfx.KindBuffer {
		t.Errorf("state = %s, kind = %s", b.State(), b.Kind())
	}
}

func TestHandleAllocationRetry(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)
	tex := c.NewTexture()

	rec.FailNextAlloc(glfx.KindTexture, glfx.OutOfMemory)
	_, err := tex.Allocate()
	var ae *glfx.AllocationError
	if !errors.As(err, &ae) {
		t.Fatalf("Allocate() error = %v, want *AllocationError", err)
	}
	if ae.Kind != glfx.KindTexture || ae.Code != glfx.OutOfMemory {
		t.Errorf("AllocationError = %+v", ae)
	}
	if tex.State() != glfx.Unallocated {
		t.Fatalf("state after failed allocation = %s, want unallocated", tex.State())
	}

	id, err := tex.Allocate()
	if err != nil || id == 0 {
		t.Fatalf("retry Allocate() = %d, %v", id, err)
	}
	if !rec.IsLive(glfx.KindTexture, id) {
		t.Error("retried allocation is not live in the native layer")
	}
}

func TestHandleRelease(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)

	b := c.NewBuffer()
	b.Release() // unallocated: no-op
	if rec.CallCount("DeleteObjects") != 0 {
		t.Fatal("Release of an unallocated handle reached the native layer")
	}

	id, err := b.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	b.Release()
	b.Release()
	if got := rec.CallCount("DeleteObjects"); got != 1 {
		t.Errorf("DeleteObjects called %d times, want 1", got)
	}
	if rec.IsLive(glfx.KindBuffer, id) {
		t.Error("buffer still live after Release")
	}
	if b.State() != glfx.Released || b.ID() != 0 {
		t.Errorf("state = %s, id = %d after Release", b.State(), b.ID())
	}

	_, err = b.Allocate()
	if !errors.Is(err, glfx.ErrReleased) {
		t.Errorf("Allocate after Release = %v, want ErrReleased", err)
	}
	if err := b.SetData([]byte{1}, glfx.StaticDraw); !errors.Is(err, glfx.ErrReleased) {
		t.Errorf("SetData after Release = %v, want ErrReleased", err)
	}
}

func TestHandleReleaseFailurePanics(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)
	b := c.NewBuffer()
	if _, err := b.Allocate(); err != nil {
		t.Fatal(err)
	}
	rec.FailNextRelease(glfx.KindBuffer, glfx.InvalidOperation)

	defer func() {
		r := recover()
		err, ok := r.(error)
		var ge *glfx.GraphicsError
		if !ok || !errors.As(err, &ge) {
			t.Fatalf("recover() = %v, want *GraphicsError", r)
		}
		if ge.Code != glfx.InvalidOperation {
			t.Errorf("Code = %s, want INVALID_OPERATION", ge.Code)
		}
	}()
	b.Release()
	t.Fatal("Release did not panic")
}

func TestStaleErrorsIgnoredByLifecycle(t *testing.T) {
	c, rec := newContext(t, glfx.GL33, glfx.WithErrorChecks(false))

	// Left over from an unchecked call.
	rec.InjectError(glfx.InvalidOperation)
	b := c.NewBuffer()
	id, err := b.Allocate()
	if err != nil {
		t.Fatalf("Allocate() with a stale error = %v", err)
	}
	if got := rec.Live(glfx.KindBuffer); got != 1 {
		t.Errorf("native buffers = %d, want 1", got)
	}

	rec.InjectError(glfx.InvalidValue)
	b.Release()
	if rec.IsLive(glfx.KindBuffer, id) {
		t.Error("buffer live after Release")
	}

	ids := make([]uint32, 1)
	rec.GenObjects(glfx.KindTexture, ids)
	if !c.LeakRegistry().Append(glfx.KindTexture, ids[0]) {
		t.Fatal("Append rejected an orphan")
	}
	rec.InjectError(glfx.InvalidEnum)
	if n := c.EndFrame(); n != 1 {
		t.Errorf("EndFrame() = %d, want 1", n)
	}
	if rec.IsLive(glfx.KindTexture, ids[0]) {
		t.Error("orphaned texture live after EndFrame")
	}
	if code := rec.GetError(); code != glfx.NoError {
		t.Errorf("GetError() = %s, want the stale codes consumed", code)
	}
}

func TestAllocationFailureLeavesNoObject(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)
	b := c.NewBuffer()
	rec.FailNextAlloc(glfx.KindBuffer, glfx.OutOfMemory)
	if _, err := b.Allocate(); err == nil {
		t.Fatal("Allocate() succeeded")
	}
	if _, err := b.Allocate(); err != nil {
		t.Fatal(err)
	}
	if got := rec.Live(glfx.KindBuffer); got != 1 {
		t.Errorf("native buffers after retry = %d, want 1", got)
	}
}

func TestZeroValueHandle(t *testing.T) {
	var b glfx.Buffer
	if b.State() != glfx.Unallocated || b.ID() != 0 || b.IsAllocated() {
		t.Errorf("zero buffer: state = %s, id = %d", b.State(), b.ID())
	}
	b.Release()
	if _, err := b.Allocate(); !errors.Is(err, glfx.ErrInvalidArgument) {
		t.Errorf("Allocate() on a zero buffer = %v, want ErrInvalidArgument", err)
	}

	var p glfx.Program
	p.Release()
	if p.State() != glfx.ProgramUnlinked {
		t.Errorf("zero program state = %s", p.State())
	}
}

// allocateAndDrop returns the id of a buffer nothing references anymore.
func allocateAndDrop(t *testing.T, c *glfx.Context) uint32 {
	b := c.NewBuffer()
	id, err := b.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestOrphanReleasedAtEndFrame(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)
	id := allocateAndDrop(t, c)

	deadline := time.Now().Add(2 * time.Second)
	for c.LeakRegistry().Pending() == 0 {
		if time.Now().After(deadline) {
			t.Skip("collector did not run the cleanup in time")
		}
		runtime.GC()
		time.Sleep(time.Millisecond)
	}

	if !rec.IsLive(glfx.KindBuffer, id) {
		t.Fatal("orphan released before EndFrame")
	}
	if rec.CallCount("DeleteObjects") != 0 {
		t.Fatal("cleanup issued a native call")
	}
	if n := c.EndFrame(); n != 1 {
		t.Errorf("EndFrame() = %d, want 1", n)
	}
	if rec.IsLive(glfx.KindBuffer, id) {
		t.Error("orphan still live after EndFrame")
	}
	if c.LeakRegistry().Pending() != 0 {
		t.Error("registry not empty after EndFrame")
	}
}

func TestExplicitReleaseIsNotOrphaned(t *testing.T) {
	c, _ := newContext(t, glfx.GL33)
	b := c.NewBuffer()
	if _, err := b.Allocate(); err != nil {
		t.Fatal(err)
	}
	b.Release()

	for range 5 {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}
	if n := c.LeakRegistry().Pending(); n != 0 {
		t.Errorf("released handle captured as orphan: %d pending", n)
	}
}

func TestEndFrameBatchesPerKind(t *testing.T) {
	c, rec := newContext(t, glfx.GL33)
	reg := c.LeakRegistry()

	var (
		keep              []any
		buffers, textures []uint32
	)
	for range 3 {
		b := c.NewBuffer()
		id, _ := b.Allocate()
		buffers = append(buffers, id)
		tex := c.NewTexture()
		tid, _ := tex.Allocate()
		textures = append(textures, tid)
		keep = append(keep, b, tex)
	}
	// Stand in for the collector; the wrappers stay reachable via keep.
	for _, id := range buffers {
		reg.Append(glfx.KindBuffer, id)
	}
	for _, id := range textures {
		reg.Append(glfx.KindTexture, id)
	}
	rec.ResetCalls()

	if n := c.EndFrame(); n != 6 {
		t.Fatalf("EndFrame() = %d, want 6", n)
	}
	if got := rec.CallCount("DeleteObjects"); got != 2 {
		t.Errorf("DeleteObjects called %d times, want one per kind", got)
	}
	if got := rec.Live(glfx.KindBuffer); got != 0 {
		t.Errorf("%d buffers live after drain", got)
	}
	runtime.KeepAlive(keep)
}

func TestContextStats(t *testing.T) {
	c, _ := newContext(t, glfx.GL33)

	b1, b2 := c.NewBuffer(), c.NewBuffer()
	if _, err := b1.Allocate(); err != nil {
		t.Fatal(err)
	}
	if _, err := b2.Allocate(); err != nil {
		t.Fatal(err)
	}
	b1.Release()
	c.LeakRegistry().Append(glfx.KindBuffer, b2.ID())

	s := c.Stats()
	k := s.Kinds[glfx.KindBuffer]
	if k.Allocations != 2 || k.Releases != 1 || k.OrphansCaptured != 1 || k.OrphansPending != 1 {
		t.Errorf("buffer stats = %+v", k)
	}
	if s.Pending() != 1 || s.Live() != 1 {
		t.Errorf("Pending() = %d, Live() = %d", s.Pending(), s.Live())
	}

	c.EndFrame()
	s = c.Stats()
	if s.Frames != 1 || s.Drains != 1 {
		t.Errorf("Frames = %d, Drains = %d", s.Frames, s.Drains)
	}
	if s.Kinds[glfx.KindBuffer].OrphansReleased != 1 || s.Live() != 0 {
		t.Errorf("after drain stats = %+v, live %d", s.Kinds[glfx.KindBuffer], s.Live())
	}
	if s.Version != glfx.GL33 {
		t.Errorf("Version = %s", s.Version)
	}
	runtime.KeepAlive(b2)
}

func TestSharedLeakRegistry(t *testing.T) {
	reg := glfx.NewLeakRegistry()
	a, recA := newContext(t, glfx.GL33, glfx.WithLeakRegistry(reg))
	b, _ := newContext(t, glfx.GL33, glfx.WithLeakRegistry(reg))

	if a.LeakRegistry() != reg || b.LeakRegistry() != reg {
		t.Fatal("contexts do not share the registry")
	}
	buf := b.NewBuffer()
	id, err := buf.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Release()
	reg.Append(glfx.KindBuffer, id)

	if n := a.EndFrame(); n != 1 {
		t.Errorf("EndFrame() on the sharing context = %d, want 1", n)
	}
	if recA.CallCount("DeleteObjects") != 1 {
		t.Error("drain did not go through the draining context")
	}
}
