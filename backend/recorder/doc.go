// Package recorder provides an in-memory glfx native layer.
//
// A Recorder behaves like a conformant driver for everything glfx issues:
// object names are allocated per kind, errors are queued for GetError,
// programs link when every attached shader compiled, program binaries
// round-trip, and the debug message log honours message control filters.
// Nothing is rendered.
//
// It exists for tests, headless tooling and dry runs of cmd/glcaps. The
// recorder can be told to fail:
//
//	rec := recorder.New(recorder.WithMaxVersion(glfx.GL43))
//	rec.FailNextAlloc(glfx.KindTexture, glfx.OutOfMemory)
//
// and every call is logged by name for assertions (Calls, CallCount).
package recorder
