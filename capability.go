package glfx

import (
	"fmt"
	"log/slog"
)

// Capability describes one queryable context limit.
type Capability struct {
	// Name is the stable key the value is stored under.
	Name string

	// Param is the query parameter passed to the native layer.
	Param Enum

	// Float selects GetFloat instead of GetInteger.
	Float bool
}

// Capabilities is an immutable snapshot of the limits a context reported
// at construction. A snapshot for version N holds every key of every
// lower version, with the same query behind it, plus the keys N adds.
type Capabilities struct {
	version    Version
	keys       []string
	ints       map[string]int64
	floats     map[string]float64
	introduced map[string]Version
}

// Version returns the context version the snapshot was built for.
func (c *Capabilities) Version() Version { return c.version }

// Len returns the number of capability keys.
func (c *Capabilities) Len() int { return len(c.keys) }

// Keys returns the capability names in chain order (lowest version first).
func (c *Capabilities) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Has reports whether name is part of the snapshot.
func (c *Capabilities) Has(name string) bool {
	_, ok := c.introduced[name]
	return ok
}

// Int returns an integer capability.
func (c *Capabilities) Int(name string) (int64, bool) {
	v, ok := c.ints[name]
	return v, ok
}

// Float returns a capability as float64. Integer capabilities are
// converted.
func (c *Capabilities) Float(name string) (float64, bool) {
	if v, ok := c.floats[name]; ok {
		return v, true
	}
	if v, ok := c.ints[name]; ok {
		return float64(v), true
	}
	return 0, false
}

// Introduced returns the version that added name.
func (c *Capabilities) Introduced(name string) (Version, bool) {
	v, ok := c.introduced[name]
	return v, ok
}

// Value returns the capability formatted for display.
func (c *Capabilities) Value(name string) string {
	if v, ok := c.ints[name]; ok {
		return fmt.Sprintf("%d", v)
	}
	if v, ok := c.floats[name]; ok {
		return fmt.Sprintf("%g", v)
	}
	return ""
}

// mustInt returns an integer capability the caller's feature gate
// guarantees exists.
func (c *Capabilities) mustInt(name string) int64 {
	v, ok := c.ints[name]
	if !ok {
		panic(fmt.Sprintf("glfx: capability %s missing from %s snapshot", name, c.version))
	}
	return v
}

// capabilityBuilder assembles a snapshot while the chain is applied.
type capabilityBuilder struct {
	caps *Capabilities
}

func newCapabilityBuilder(v Version) *capabilityBuilder {
	return &capabilityBuilder{caps: &Capabilities{
		version:    v,
		ints:       make(map[string]int64),
		floats:     make(map[string]float64),
		introduced: make(map[string]Version),
	}}
}

// query issues the native query for every capability of ext.
func (b *capabilityBuilder) query(n Native, ext extension, log *slog.Logger) {
	for _, c := range ext.caps {
		if c.Float {
			b.caps.floats[c.Name] = n.GetFloat(c.Param)
		} else {
			b.caps.ints[c.Name] = n.GetInteger(c.Param)
		}
		b.caps.keys = append(b.caps.keys, c.Name)
		b.caps.introduced[c.Name] = ext.version
		log.Debug("glfx: capability", "version", ext.version.String(), "name", c.Name, "value", b.caps.Value(c.Name))
	}
}

func (b *capabilityBuilder) build() *Capabilities {
	c := b.caps
	b.caps = nil
	return c
}
