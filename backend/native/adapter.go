// Package native provides a glfx.Native over a gogpu/wgpu HAL device.
//
// Storage objects (buffers, textures, shader modules, compute pipelines)
// are real HAL resources; the remaining GL state (queries, patch
// parameters, viewports, image units) is tracked on the CPU.
//
// Shader sources are WGSL. CompileShader translates them to SPIR-V with
// naga, and program binaries carry that SPIR-V.
package native

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gogpu/glfx"
	"github.com/gogpu/glfx/backend"
	"github.com/gogpu/glfx/internal/debuglog"
	"github.com/gogpu/glfx/internal/names"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// HALAdapter implements glfx.Native on a hal.Device and hal.Queue.
//
// Thread Safety: HALAdapter is safe for concurrent use from multiple
// goroutines. All operations are serialized by a mutex.
type HALAdapter struct {
	mu     sync.Mutex
	log    *slog.Logger
	device hal.Device
	queue  hal.Queue
	limits gputypes.Limits
	caps   map[glfx.Enum]float64

	// release runs on Close for devices the adapter opened itself.
	release func()
	closed  bool

	objects [glfx.NumObjectKinds]names.Table[any]
	errors  []glfx.ErrorCode

	program uint32
	gl      glState
	debug   debuglog.Log
}

// New creates a HALAdapter on device and queue. If limits is nil,
// gputypes.DefaultLimits is assumed. The caller keeps ownership of the
// device.
func New(device hal.Device, queue hal.Queue, limits *gputypes.Limits) *HALAdapter {
	lim := gputypes.DefaultLimits()
	if limits != nil {
		lim = *limits
	}
	a := &HALAdapter{
		log:    slog.New(nopHandler{}),
		device: device,
		queue:  queue,
		limits: lim,
		caps:   capabilities(lim),
	}
	a.gl.init()
	return a
}

// NewFromProvider creates a HALAdapter on the device of a gpucontext
// provider. The provider must expose its HAL objects through
// HalDevice and HalQueue.
func NewFromProvider(p gpucontext.DeviceProvider) (*HALAdapter, error) {
	hp, ok := p.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrNoHALDevice
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrNoHALDevice
	}
	return New(device, queue, nil), nil
}

// OpenNoop creates a HALAdapter on a fresh noop HAL device. The device is
// destroyed when the adapter is closed.
func OpenNoop() (*HALAdapter, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, err
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoHALDevice
	}
	limits := gputypes.DefaultLimits()
	open, err := adapters[0].Adapter.Open(0, limits)
	if err != nil {
		instance.Destroy()
		return nil, err
	}
	a := New(open.Device, open.Queue, &limits)
	a.release = func() {
		open.Device.Destroy()
		instance.Destroy()
	}
	return a, nil
}

var _ backend.Backend = (*HALAdapter)(nil)

// Name implements backend.Backend.
func (a *HALAdapter) Name() string { return backend.BackendHAL }

// Device returns the underlying HAL device.
func (a *HALAdapter) Device() hal.Device { return a.device }

// Close implements backend.Backend. It destroys every live object and,
// for adapters made by OpenNoop, the device.
func (a *HALAdapter) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	for kind := range glfx.NumObjectKinds {
		a.objects[kind].Each(func(_ uint32, obj any) {
			a.destroy(obj)
		})
		a.objects[kind] = names.Table[any]{}
	}
	if a.release != nil {
		a.release()
	}
	a.log.Debug("native: adapter closed")
}

// SetLogger sets the adapter's logger. glfx.NewContext propagates the
// context logger here. The HAL logger is left alone; use hal.SetLogger
// for device-level messages.
func (a *HALAdapter) SetLogger(l *slog.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l == nil {
		l = slog.New(nopHandler{})
	}
	a.log = l
}

// GetError implements glfx.Native.
func (a *HALAdapter) GetError() glfx.ErrorCode {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.errors) == 0 {
		return glfx.NoError
	}
	code := a.errors[0]
	a.errors = a.errors[1:]
	return code
}

// GenObjects implements glfx.Native.
func (a *HALAdapter) GenObjects(kind glfx.ObjectKind, ids []uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !kind.Valid() {
		a.raise("GenObjects", glfx.InvalidEnum)
		return
	}
	if a.closed {
		a.raise("GenObjects", glfx.ContextLost)
		return
	}
	for i := range ids {
		ids[i] = a.objects[kind].Create(newObject(kind))
	}
}

// DeleteObjects implements glfx.Native. The HAL resources behind the
// objects are destroyed immediately.
func (a *HALAdapter) DeleteObjects(kind glfx.ObjectKind, ids []uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !kind.Valid() {
		a.raise("DeleteObjects", glfx.InvalidEnum)
		return
	}
	for _, id := range ids {
		obj, ok := a.objects[kind].Drop(id)
		if !ok {
			continue
		}
		a.destroy(obj)
		switch {
		case kind == glfx.KindProgram && id == a.program:
			a.program = 0
		case kind == glfx.KindQuery:
			for slot, active := range a.gl.activeQueries {
				if active == id {
					delete(a.gl.activeQueries, slot)
				}
			}
		}
	}
}

// Live returns the number of live objects of kind.
func (a *HALAdapter) Live(kind glfx.ObjectKind) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.objects[kind].Live()
}

// raise queues code and emits an API error message. Caller must hold a.mu.
func (a *HALAdapter) raise(op string, code glfx.ErrorCode) {
	a.errors = append(a.errors, code)
	a.log.Debug("native: error", "op", op, "code", code.String())
	a.emit(glfx.DebugMessage{
		Source:   glfx.DebugSourceAPI,
		Type:     glfx.DebugTypeError,
		ID:       uint32(code),
		Severity: glfx.DebugSeverityHigh,
		Text:     code.String() + " in " + op,
	})
}

// fail raises the code a HAL error maps to. Caller must hold a.mu.
func (a *HALAdapter) fail(op string, err error) {
	a.log.Warn("native: hal call failed", "op", op, "err", err)
	a.raise(op, codeFor(err))
}

// lookup returns the live object of kind named id. Caller must hold a.mu.
func (a *HALAdapter) lookup(kind glfx.ObjectKind, id uint32) (any, bool) {
	return a.objects[kind].Get(id)
}

// destroy releases the HAL resources of obj. Caller must hold a.mu.
func (a *HALAdapter) destroy(obj any) {
	switch o := obj.(type) {
	case *bufferObject:
		o.release(a.device)
	case *textureObject:
		o.release(a.device)
	case *shaderObject:
		o.release(a.device)
	case *programObject:
		o.release(a.device)
	}
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
	backend.Register(backend.BackendHAL, func() (backend.Backend, error) {
		return OpenNoop()
	})
}
