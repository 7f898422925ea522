package glfx

import (
	"fmt"
	"sync"
)

// initialOrphanCapacity is the first allocation of a per-kind orphan buffer.
const initialOrphanCapacity = 16

// orphanBuffer is an append-only id buffer paired with a count. It grows
// by doubling and never shrinks; draining only resets the count.
type orphanBuffer struct {
	ids []uint32
	n   int
}

func (b *orphanBuffer) push(id uint32) {
	if b.n == len(b.ids) {
		grown := make([]uint32, max(2*len(b.ids), initialOrphanCapacity))
		copy(grown, b.ids[:b.n])
		b.ids = grown
	}
	b.ids[b.n] = id
	b.n++
}

// LeakRegistry collects native ids whose owning resource was reclaimed by
// the garbage collector while still allocated.
//
// Append is safe to call from any goroutine and never touches the native
// layer. Drain performs the batch release and must only be called by the
// goroutine that owns the native context, never concurrently with itself.
type LeakRegistry struct {
	mu      sync.Mutex
	pending [NumObjectKinds]orphanBuffer
	closed  bool

	captured [NumObjectKinds]uint64
	swept    [NumObjectKinds]uint64
	drains   uint64
	dropped  uint64

	// batch is the drain-side copy of one kind's pending ids, so the
	// native call runs without holding mu.
	batch []uint32
}

// NewLeakRegistry returns an empty registry.
func NewLeakRegistry() *LeakRegistry {
	return &LeakRegistry{}
}

// Append records an orphaned id. It reports false if the registry has been
// closed; the id is then dropped because no context remains to release it.
func (r *LeakRegistry) Append(kind ObjectKind, id uint32) bool {
	if !kind.Valid() || id == 0 {
		return false
	}
	r.mu.Lock()
	if r.closed {
		r.dropped++
		r.mu.Unlock()
		Logger().Warn("glfx: orphaned handle after registry close", "kind", kind.String(), "id", id)
		return false
	}
	r.pending[kind].push(id)
	r.captured[kind]++
	r.mu.Unlock()
	return true
}

// Pending returns the number of ids waiting for the next drain.
func (r *LeakRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for i := range r.pending {
		total += r.pending[i].n
	}
	return total
}

// PendingKind returns the number of ids of one kind waiting for a drain.
func (r *LeakRegistry) PendingKind(kind ObjectKind) int {
	if !kind.Valid() {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[kind].n
}

// Drain releases every pending id with one DeleteObjects call per kind and
// resets the registry to empty. It returns the number of ids released.
//
// A native error during the batch release has no caller that could react
// to it and panics with a *GraphicsError.
func (r *LeakRegistry) Drain(n Native) int {
	released := 0
	for k := range NumObjectKinds {
		kind := ObjectKind(k)

		r.mu.Lock()
		buf := &r.pending[kind]
		if buf.n == 0 {
			r.mu.Unlock()
			continue
		}
		r.batch = append(r.batch[:0], buf.ids[:buf.n]...)
		buf.n = 0
		r.swept[kind] += uint64(len(r.batch))
		r.mu.Unlock()

		clearErrors(n, Logger(), "release orphaned "+kind.String())
		n.DeleteObjects(kind, r.batch)
		if code := n.GetError(); code != NoError {
			err := &GraphicsError{Op: fmt.Sprintf("release %d orphaned %s ids", len(r.batch), kind), Code: code}
			Logger().Error("glfx: batch release failed", "kind", kind.String(), "count", len(r.batch), "code", code.String())
			panic(err)
		}
		released += len(r.batch)
	}

	r.mu.Lock()
	r.drains++
	r.mu.Unlock()
	return released
}

// Close marks the registry closed. Later appends are dropped. Close does
// not release pending ids; drain first.
func (r *LeakRegistry) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// LeakStats is a snapshot of registry counters.
type LeakStats struct {
	Captured [NumObjectKinds]uint64
	Released [NumObjectKinds]uint64
	Pending  [NumObjectKinds]int
	Drains   uint64
	Dropped  uint64
}

// Stats returns a snapshot of the registry counters.
func (r *LeakRegistry) Stats() LeakStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := LeakStats{
		Captured: r.captured,
		Released: r.swept,
		Drains:   r.drains,
		Dropped:  r.dropped,
	}
	for i := range r.pending {
		s.Pending[i] = r.pending[i].n
	}
	return s
}
