package native

import (
	"errors"

	"github.com/gogpu/glfx"
	"github.com/gogpu/wgpu/hal"
)

// Package errors for the HAL backend.
var (
	// ErrNoHALDevice is returned when no HAL device can be obtained.
	ErrNoHALDevice = errors.New("native: no HAL device available")
)

// codeFor maps a HAL error to the error code a GL driver would record.
func codeFor(err error) glfx.ErrorCode {
	switch {
	case err == nil:
		return glfx.NoError
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return glfx.OutOfMemory
	case errors.Is(err, hal.ErrDeviceLost):
		return glfx.ContextLost
	default:
		return glfx.InvalidOperation
	}
}
