package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Factory opens a new backend instance.
type Factory func() (Backend, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first that opens wins).
	backendPriority = []string{BackendHAL, BackendRecorder}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens the named backend.
func Open(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	b, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", name, err)
	}
	return b, nil
}

// Default opens the best available backend based on priority. Backends
// outside the priority list are tried in name order afterwards.
func Default() (Backend, error) {
	tried := make(map[string]bool)
	var firstErr error
	try := func(name string) Backend {
		tried[name] = true
		if !IsRegistered(name) {
			return nil
		}
		b, err := Open(name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return nil
		}
		return b
	}

	for _, name := range backendPriority {
		if b := try(name); b != nil {
			return b, nil
		}
	}
	for _, name := range Available() {
		if tried[name] {
			continue
		}
		if b := try(name); b != nil {
			return b, nil
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrBackendNotAvailable
}
