// Package glfx provides a capability-versioned facade over a stateful,
// OpenGL-style graphics API.
//
// # Overview
//
// A [Context] is bound to one negotiated API [Version] (GL 3.3 through 4.6)
// and to a [Native] implementation that issues the actual calls against the
// current native context. Every version contributes capability keys and
// operations on top of the versions below it; constructing a context applies
// those extensions in order, so a context for 4.3 has every 3.3 through 4.2
// capability plus its own.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glfx"
//	    "github.com/gogpu/glfx/backend/recorder"
//	)
//
//	ctx, err := glfx.NewContext(recorder.New(), glfx.GL43)
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	buf := ctx.NewBuffer()
//	if err := buf.SetData(vertices, glfx.StaticDraw); err != nil {
//	    return err
//	}
//	defer buf.Release()
//
//	// Once per frame, on the context goroutine:
//	ctx.EndFrame()
//
// # Resource Lifecycle
//
// Resources ([Buffer], [Texture], [Program], ...) embed a [Handle]. The
// native object is allocated lazily on first use and released exactly once,
// either explicitly through Release or, if the resource becomes unreachable
// while still allocated, through the context's [LeakRegistry]. The registry
// only records orphaned ids; the native release happens in
// [Context.EndFrame], on the goroutine that owns the native context.
//
// # Threading
//
// A Context and its resources must be used from the goroutine that owns the
// native context (pin it with runtime.LockOSThread). [LeakRegistry.Append]
// and [Context.Stats] are the only entry points safe to call from other
// goroutines.
//
// # Matrices
//
// [MatrixStack] composes 4x4 transforms by right-multiplication. A context
// owns one stack per [MatrixMode]; [Context.UniformMatrix] uploads the
// current matrix of a stack to a program uniform.
package glfx

// Version information
const (
	// LibraryVersion is the current version of the library.
	LibraryVersion = "0.3.0"
)
