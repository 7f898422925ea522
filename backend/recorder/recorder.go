package recorder

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/gogpu/glfx"
	"github.com/gogpu/glfx/backend"
	"github.com/gogpu/glfx/internal/debuglog"
	"github.com/gogpu/glfx/internal/names"
)

// CompileFunc decides whether a shader compiles and returns its info log.
type CompileFunc func(stage glfx.ShaderStage, source string) (ok bool, log string)

// DefaultCompile accepts every non-blank source.
func DefaultCompile(_ glfx.ShaderStage, source string) (bool, string) {
	if strings.TrimSpace(source) == "" {
		return false, "error: empty shader source"
	}
	return true, ""
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMaxVersion limits the emulated context version. Limits introduced
// by later versions are reported as unknown (InvalidEnum). The default is
// GL 4.6.
func WithMaxVersion(v glfx.Version) Option {
	return func(r *Recorder) {
		r.version = v
	}
}

// WithCompiler replaces DefaultCompile.
func WithCompiler(fn CompileFunc) Option {
	return func(r *Recorder) {
		if fn != nil {
			r.compile = fn
		}
	}
}

// WithLimit overrides one limit.
func WithLimit(pname glfx.Enum, value float64) Option {
	return func(r *Recorder) {
		l, ok := r.limits[pname]
		if !ok {
			l.since = glfx.GL33
		}
		l.value = value
		r.limits[pname] = l
	}
}

// Recorder is an in-memory glfx.Native. It is safe for concurrent use,
// although glfx only calls it from the context goroutine.
type Recorder struct {
	mu      sync.Mutex
	log     *slog.Logger
	version glfx.Version
	limits  map[glfx.Enum]limit
	compile CompileFunc
	closed  bool

	tables  [glfx.NumObjectKinds]names.Table[any]
	errors  []glfx.ErrorCode
	calls   []string
	deletes [glfx.NumObjectKinds]int

	failAlloc   map[glfx.ObjectKind]glfx.ErrorCode
	failRelease map[glfx.ObjectKind]glfx.ErrorCode

	state
	debug debuglog.Log
}

// New returns a Recorder emulating a GL 4.6 context.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		log:         slog.New(nopHandler{}),
		version:     glfx.GL46,
		limits:      defaultLimits(),
		compile:     DefaultCompile,
		failAlloc:   make(map[glfx.ObjectKind]glfx.ErrorCode),
		failRelease: make(map[glfx.ObjectKind]glfx.ErrorCode),
	}
	r.state.init()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ backend.Backend = (*Recorder)(nil)

// Name implements backend.Backend.
func (r *Recorder) Name() string { return backend.BackendRecorder }

// Close implements backend.Backend. Later allocations fail with
// ContextLost.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// SetLogger sets the recorder's logger. glfx.NewContext propagates the
// context logger here.
func (r *Recorder) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l == nil {
		l = slog.New(nopHandler{})
	}
	r.log = l
}

// GetError implements glfx.Native.
func (r *Recorder) GetError() glfx.ErrorCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errors) == 0 {
		return glfx.NoError
	}
	code := r.errors[0]
	r.errors = r.errors[1:]
	return code
}

// InjectError queues code as if the last call had failed.
func (r *Recorder) InjectError(code glfx.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, code)
}

// FailNextAlloc makes the next GenObjects call for kind fail with code.
func (r *Recorder) FailNextAlloc(kind glfx.ObjectKind, code glfx.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAlloc[kind] = code
}

// FailNextRelease makes the next DeleteObjects call for kind fail with
// code. The objects are not deleted.
func (r *Recorder) FailNextRelease(kind glfx.ObjectKind, code glfx.ErrorCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failRelease[kind] = code
}

// GenObjects implements glfx.Native.
func (r *Recorder) GenObjects(kind glfx.ObjectKind, ids []uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("GenObjects")
	if !kind.Valid() {
		r.raise("GenObjects", glfx.InvalidEnum)
		return
	}
	if r.closed {
		r.raise("GenObjects", glfx.ContextLost)
		return
	}
	if code, ok := r.failAlloc[kind]; ok {
		delete(r.failAlloc, kind)
		r.raise("GenObjects", code)
		return
	}
	for i := range ids {
		ids[i] = r.tables[kind].Create(newObject(kind))
	}
}

// DeleteObjects implements glfx.Native.
func (r *Recorder) DeleteObjects(kind glfx.ObjectKind, ids []uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("DeleteObjects")
	if !kind.Valid() {
		r.raise("DeleteObjects", glfx.InvalidEnum)
		return
	}
	if code, ok := r.failRelease[kind]; ok {
		delete(r.failRelease, kind)
		r.raise("DeleteObjects", code)
		return
	}
	for _, id := range ids {
		if _, ok := r.tables[kind].Drop(id); ok {
			r.deletes[kind]++
			if kind == glfx.KindQuery {
				r.freeQuerySlot(id)
			}
		}
	}
}

// Live returns the number of live objects of kind.
func (r *Recorder) Live(kind glfx.ObjectKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tables[kind].Live()
}

// IsLive reports whether id names a live object of kind.
func (r *Recorder) IsLive(kind glfx.ObjectKind, id uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tables[kind].Get(id)
	return ok
}

// Deleted returns how many objects of kind were deleted.
func (r *Recorder) Deleted(kind glfx.ObjectKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes[kind]
}

// Calls returns the names of every call issued so far, in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallCount returns how often the named call was issued.
func (r *Recorder) CallCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (r *Recorder) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = r.calls[:0]
}

// record appends to the call log. Caller must hold r.mu.
func (r *Recorder) record(name string) {
	r.calls = append(r.calls, name)
}

// raise queues an error and, like a debug context, emits an API error
// message. Caller must hold r.mu.
func (r *Recorder) raise(op string, code glfx.ErrorCode) {
	r.errors = append(r.errors, code)
	r.log.Debug("recorder: error", "op", op, "code", code.String())
	r.emit(glfx.DebugMessage{
		Source:   glfx.DebugSourceAPI,
		Type:     glfx.DebugTypeError,
		ID:       uint32(code),
		Severity: glfx.DebugSeverityHigh,
		Text:     code.String() + " in " + op,
	})
}

// lookup returns the live object of kind named id. Caller must hold r.mu.
func (r *Recorder) lookup(kind glfx.ObjectKind, id uint32) (any, bool) {
	return r.tables[kind].Get(id)
}

func newObject(kind glfx.ObjectKind) any {
	switch kind {
	case glfx.KindBuffer:
		return &bufferObject{}
	case glfx.KindTexture:
		return &textureObject{params: make(map[glfx.Enum]float32)}
	case glfx.KindQuery:
		return &queryObject{}
	case glfx.KindShader:
		return &shaderObject{}
	case glfx.KindProgram:
		return &programObject{}
	default:
		return nil
	}
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func init() {
	backend.Register(backend.BackendRecorder, func() (backend.Backend, error) {
		return New(), nil
	})
}
