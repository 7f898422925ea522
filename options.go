package glfx

import "log/slog"

// Default configuration values.
const (
	// DefaultMatrixStackDepth is the capacity of each context matrix stack.
	DefaultMatrixStackDepth = 32

	// DefaultUniformCacheSize is the soft limit of each program's uniform
	// location cache.
	DefaultUniformCacheSize = 64
)

// Option configures a Context during creation.
//
// Example:
//
//	ctx, err := glfx.NewContext(native, glfx.GL45,
//	    glfx.WithLogger(logger),
//	    glfx.WithMatrixStackDepth(64),
//	)
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	logger           *slog.Logger
	stackDepth       int
	leaks            *LeakRegistry
	errorChecks      bool
	uniformCacheSize int
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		stackDepth:       DefaultMatrixStackDepth,
		errorChecks:      true,
		uniformCacheSize: DefaultUniformCacheSize,
	}
}

// WithLogger sets a logger for this context only. Without it the context
// logs through the package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMatrixStackDepth sets the capacity of each matrix stack.
// Values below 1 keep the default.
func WithMatrixStackDepth(depth int) Option {
	return func(o *options) {
		if depth >= 1 {
			o.stackDepth = depth
		}
	}
}

// WithLeakRegistry makes the context drain a registry shared with other
// contexts of the same share group. The context does not close a shared
// registry.
func WithLeakRegistry(r *LeakRegistry) Option {
	return func(o *options) {
		o.leaks = r
	}
}

// WithErrorChecks enables or disables the GetError poll after
// state-mutating calls. Allocation and release are always checked.
// Checks are enabled by default.
func WithErrorChecks(enabled bool) Option {
	return func(o *options) {
		o.errorChecks = enabled
	}
}

// WithUniformCacheSize sets the soft limit of each program's uniform
// location cache. Zero means unlimited.
func WithUniformCacheSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.uniformCacheSize = n
		}
	}
}
