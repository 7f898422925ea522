// Package backend provides the registry of glfx native layers.
//
// A backend is a glfx.Native plus a lifecycle. Backend packages register a
// factory from init(), so importing them makes the backend available:
//
//	import (
//		_ "github.com/gogpu/glfx/backend/native"
//		_ "github.com/gogpu/glfx/backend/recorder"
//	)
//
// # Backend Selection
//
// Use Default to open the best available backend, or Open to request one
// by name:
//
//	b, err := backend.Open(backend.BackendRecorder)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	ctx, err := glfx.NewContext(b, glfx.GL45)
//
// # Available Backends
//
//   - "hal": wgpu HAL device; storage objects are real GPU resources and
//     program binaries are SPIR-V
//   - "recorder": in-memory native layer with configurable limits, error
//     injection and a call log
package backend
