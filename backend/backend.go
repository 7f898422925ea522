package backend

import (
	"errors"

	"github.com/gogpu/glfx"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("backend: closed")
)

// Backend names.
const (
	// BackendHAL bridges onto a wgpu HAL device (backend/native).
	BackendHAL = "hal"

	// BackendRecorder is the in-memory native layer (backend/recorder).
	BackendRecorder = "recorder"
)

// Backend is a native layer that owns the resources behind it.
//
// Backends must be registered via Register and are opened via Open or
// Default.
type Backend interface {
	glfx.Native

	// Name returns the backend identifier (e.g. "recorder", "hal").
	Name() string

	// Close releases everything the backend created. The backend must
	// not be used after Close.
	Close()
}
