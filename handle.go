package glfx

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// HandleState is the lifecycle state of a Handle.
type HandleState uint32

// Handle states. A handle moves Unallocated -> Allocated -> Released, each
// step at most once.
const (
	Unallocated HandleState = iota
	Allocated
	Released
)

// String returns the state name.
func (s HandleState) String() string {
	switch s {
	case Unallocated:
		return "unallocated"
	case Allocated:
		return "allocated"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("HandleState(%d)", uint32(s))
	}
}

// handleCell is the part of a handle the runtime cleanup can see. It must
// not point back at the owning resource.
type handleCell struct {
	id    atomic.Uint32
	state atomic.Uint32
}

func (c *handleCell) load() (uint32, HandleState) {
	return c.id.Load(), HandleState(c.state.Load())
}

// Handle owns one native object. Resource types embed it and are created
// through Context factories. A zero-value handle reports Unallocated, its
// Release is a no-op and its Allocate fails.
//
// Allocation is deferred to the first call that needs the native id,
// because the native call requires the owning context to be current.
type Handle struct {
	kind    ObjectKind
	ctx     *Context
	cell    *handleCell
	cleanup runtime.Cleanup
}

// orphanRef is the cleanup argument registered for every resource.
type orphanRef struct {
	leaks *LeakRegistry
	kind  ObjectKind
	cell  *handleCell
}

// orphan runs on a runtime cleanup goroutine once the owning resource is
// unreachable. It only records the id; the release happens in
// Context.EndFrame.
func orphan(ref orphanRef) {
	id, state := ref.cell.load()
	if state != Allocated || id == 0 {
		return
	}
	ref.leaks.Append(ref.kind, id)
}

// track initializes h for owner and arms the leak capture.
func track[T any](c *Context, owner *T, h *Handle, kind ObjectKind) {
	h.kind = kind
	h.ctx = c
	h.cell = &handleCell{}
	h.cleanup = runtime.AddCleanup(owner, orphan, orphanRef{leaks: c.leaks, kind: kind, cell: h.cell})
}

// Kind returns the object kind.
func (h *Handle) Kind() ObjectKind { return h.kind }

// State returns the lifecycle state.
func (h *Handle) State() HandleState {
	if h.cell == nil {
		return Unallocated
	}
	_, s := h.cell.load()
	return s
}

// IsAllocated reports whether the native object exists.
func (h *Handle) IsAllocated() bool {
	return h.State() == Allocated
}

// ID returns the native id, or 0 if the handle is not allocated.
func (h *Handle) ID() uint32 {
	if h.cell == nil {
		return 0
	}
	id, _ := h.cell.load()
	return id
}

// Allocate returns the native id, creating the native object on the first
// call. A failed allocation leaves the handle unallocated and returns an
// *AllocationError; calling Allocate again retries.
func (h *Handle) Allocate() (uint32, error) {
	if h.cell == nil {
		return 0, precondition("allocate", ErrInvalidArgument, "%s handle not created by a context", h.kind)
	}
	id, state := h.cell.load()
	switch state {
	case Allocated:
		return id, nil
	case Released:
		return 0, precondition("allocate", ErrReleased, "%s handle", h.kind)
	}
	if h.ctx.closed {
		return 0, ErrContextClosed
	}

	n, log := h.ctx.native, h.ctx.logger()
	clearErrors(n, log, "allocate")
	var ids [1]uint32
	n.GenObjects(h.kind, ids[:])
	code := n.GetError()
	if code != NoError || ids[0] == 0 {
		log.Debug("glfx: allocation failed", "kind", h.kind.String(), "code", code.String())
		if ids[0] != 0 {
			// The name exists natively; delete it, the handle stays
			// unallocated.
			clearErrors(n, log, "allocate")
			n.DeleteObjects(h.kind, ids[:])
			clearErrors(n, log, "allocate")
		}
		return 0, &AllocationError{Kind: h.kind, Code: code}
	}

	h.cell.id.Store(ids[0])
	h.cell.state.Store(uint32(Allocated))
	h.ctx.stats.allocated(h.kind)
	h.ctx.logger().Debug("glfx: allocated", "kind", h.kind.String(), "id", ids[0])
	return ids[0], nil
}

// Release deletes the native object. It is a no-op on an unallocated or
// already released handle. A native error during release leaves the native
// layer in an undefined state and panics.
func (h *Handle) Release() {
	if h.cell == nil {
		return
	}
	id, state := h.cell.load()
	if state != Allocated {
		return
	}
	h.cleanup.Stop()
	h.cell.id.Store(0)
	h.cell.state.Store(uint32(Released))

	clearErrors(h.ctx.native, h.ctx.logger(), "release")
	h.ctx.native.DeleteObjects(h.kind, []uint32{id})
	if code := h.ctx.native.GetError(); code != NoError {
		h.ctx.fatal("release", h.kind, 1, code)
	}
	h.ctx.stats.released(h.kind)
	h.ctx.logger().Debug("glfx: released", "kind", h.kind.String(), "id", id)
}

// mustOwn reports a precondition failure when h belongs to another context.
func (h *Handle) mustOwn(c *Context, op string) error {
	if h.ctx != c {
		return precondition(op, ErrInvalidArgument, "%s belongs to another context", h.kind)
	}
	return nil
}

// mustBeLive is mustOwn plus a check that h has not been released. It
// runs before any native call that reads the id.
func (h *Handle) mustBeLive(c *Context, op string) error {
	if err := h.mustOwn(c, op); err != nil {
		return err
	}
	if h.State() == Released {
		return precondition(op, ErrReleased, "%s handle", h.kind)
	}
	return nil
}
