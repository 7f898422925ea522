package glfx

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// maxErrorDrain bounds how many queued native error codes a single check
// consumes after reporting the first one.
const maxErrorDrain = 8

// Context is the operation surface bound to one context version.
//
// A Context is not safe for concurrent use: every method except Stats must
// be called from the goroutine that owns the native context.
type Context struct {
	native   Native
	version  Version
	caps     *Capabilities
	features Feature
	opts     options

	leaks     *LeakRegistry
	ownsLeaks bool

	stacks        [numMatrixModes]*MatrixStack
	activeQueries map[queryKey]*Query

	stats  statsCounters
	frames atomic.Uint64
	closed bool
}

// NewContext creates the facade for version v over an already-current
// native context.
//
// The version chain is applied ancestor first: for every version up to and
// including v, that version's capability keys are queried and its
// operation groups enabled. A native error during the capability queries
// means the native context does not actually provide v and is returned as
// a *GraphicsError.
func NewContext(n Native, v Version, opts ...Option) (*Context, error) {
	if n == nil {
		return nil, errors.New("glfx: nil native layer")
	}
	if !v.Valid() {
		return nil, fmt.Errorf("glfx: version %s is not supported", v)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		native:        n,
		version:       v,
		opts:          o,
		activeQueries: make(map[queryKey]*Query),
	}
	log := c.logger()
	propagateLogger(n, log)

	b := newCapabilityBuilder(v)
	for _, ext := range extensions {
		if ext.version > v {
			break
		}
		b.query(n, ext, log)
		if code := n.GetError(); code != NoError {
			return nil, &GraphicsError{Op: "query " + ext.version.String() + " capabilities", Code: code}
		}
		c.features |= ext.features
	}
	c.caps = b.build()

	if o.leaks != nil {
		c.leaks = o.leaks
	} else {
		c.leaks = NewLeakRegistry()
		c.ownsLeaks = true
	}

	for i := range c.stacks {
		c.stacks[i] = NewMatrixStack(o.stackDepth)
	}

	log.Info("glfx: context created",
		"version", v.String(),
		"features", c.features.String(),
		"capabilities", c.caps.Len())
	return c, nil
}

// Version returns the context version.
func (c *Context) Version() Version { return c.version }

// Capabilities returns the immutable capability snapshot.
func (c *Context) Capabilities() *Capabilities { return c.caps }

// Supports reports whether every operation group in f is enabled.
func (c *Context) Supports(f Feature) bool { return c.features&f == f }

// Features returns the enabled operation groups.
func (c *Context) Features() Feature { return c.features }

// LeakRegistry returns the registry the context drains.
func (c *Context) LeakRegistry() *LeakRegistry { return c.leaks }

// MatrixStack returns the stack for mode, or nil for an unknown mode.
func (c *Context) MatrixStack(mode MatrixMode) *MatrixStack {
	if mode >= numMatrixModes {
		return nil
	}
	return c.stacks[mode]
}

// EndFrame releases every orphaned id captured since the previous frame.
// Call it once per frame boundary from the context goroutine; it is never
// invoked implicitly, so ids queued for use later in a frame stay valid.
func (c *Context) EndFrame() int {
	if c.closed {
		return 0
	}
	c.frames.Add(1)
	n := c.leaks.Drain(c.native)
	if n > 0 {
		c.logger().Warn("glfx: released orphaned handles", "count", n)
	}
	return n
}

// Close drains the leak registry and shuts the context down. Resources
// still alive must have been released by the caller; their later
// reclamation is dropped. Close is idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.leaks.Drain(c.native)
	if c.ownsLeaks {
		c.leaks.Close()
	}
	c.closed = true
	c.logger().Info("glfx: context closed", "version", c.version.String())
}

// logger returns the context logger or the package logger.
func (c *Context) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}

// require checks that the context is open and provides feature f.
func (c *Context) require(op string, f Feature) error {
	if c.closed {
		return ErrContextClosed
	}
	if !c.Supports(f) {
		return precondition(op, ErrVersionUnsupported, "requires %s, context is %s", f, c.version)
	}
	return nil
}

// check polls the native error state after a state-mutating call. The
// first code is returned; further queued codes are logged and cleared.
func (c *Context) check(op string) error {
	if !c.opts.errorChecks {
		return nil
	}
	code := c.native.GetError()
	if code == NoError {
		return nil
	}
	clearErrors(c.native, c.logger(), op)
	return &GraphicsError{Op: op, Code: code}
}

// clearErrors consumes up to maxErrorDrain queued native error codes so
// the next poll only sees errors of the following call. Discarded codes
// are logged at warn level.
func clearErrors(n Native, log *slog.Logger, op string) {
	for range maxErrorDrain {
		code := n.GetError()
		if code == NoError {
			return
		}
		log.Warn("glfx: discarded native error", "op", op, "code", code.String())
	}
}

// fatal logs and panics on a failed release; the native layer is in an
// undefined state and no caller can recover.
func (c *Context) fatal(op string, kind ObjectKind, count int, code ErrorCode) {
	err := &GraphicsError{Op: fmt.Sprintf("%s %d %s ids", op, count, kind), Code: code}
	c.logger().Error("glfx: release failed", "kind", kind.String(), "count", count, "code", code.String())
	panic(err)
}

// intCap is shorthand for a capability the caller's feature gate
// guarantees.
func (c *Context) intCap(name string) int64 {
	return c.caps.mustInt(name)
}
