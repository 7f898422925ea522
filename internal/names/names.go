// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package names hands out object names for native backends.
//
// Names are small positive integers, unique among the live entries of one
// Table. Zero is never a valid name. A released name is reused by a later
// Create, the way driver object namespaces behave.
package names

type slot[T any] struct {
	live bool
	val  T
}

// Table maps names to values. The zero value is an empty table.
//
// Table is not safe for concurrent use.
type Table[T any] struct {
	slots []slot[T]
	free  []uint32
}

// Create stores v under a fresh name.
func (t *Table[T]) Create(v T) uint32 {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[id-1] = slot[T]{live: true, val: v}
		return id
	}
	t.slots = append(t.slots, slot[T]{live: true, val: v})
	return uint32(len(t.slots))
}

// Get returns the value stored under id.
func (t *Table[T]) Get(id uint32) (T, bool) {
	if id == 0 || int(id) > len(t.slots) || !t.slots[id-1].live {
		var zero T
		return zero, false
	}
	return t.slots[id-1].val, true
}

// Drop releases id and returns the value it held.
func (t *Table[T]) Drop(id uint32) (T, bool) {
	v, ok := t.Get(id)
	if !ok {
		return v, false
	}
	t.slots[id-1] = slot[T]{}
	t.free = append(t.free, id)
	return v, true
}

// Live returns the number of live names.
func (t *Table[T]) Live() int {
	return len(t.slots) - len(t.free)
}

// Each calls fn for every live entry in name order.
func (t *Table[T]) Each(fn func(id uint32, v T)) {
	for i, s := range t.slots {
		if s.live {
			fn(uint32(i+1), s.val)
		}
	}
}
