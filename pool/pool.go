// Package pool implements the fixed-capacity typed memory pool that backs
// the order book's hot-path allocations: orders and price levels.
// Capacity is fixed at construction; exhausting it is fatal.
package pool

import (
	"fmt"
	"unsafe"
)

// slot pairs one stored object with a free bit. T being the first field
// keeps &slot and &slot.object at the same address.
type slot[T any] struct {
	object T
	free   bool
}

// Pool is a preallocated, fixed-size store of T. Allocate/Deallocate never
// touch the heap after construction: the backing array is sized once and
// never grows.
type Pool[T any] struct {
	store        []slot[T]
	nextFreeIdx  int
}

// New preallocates a pool of exactly capacity slots, all initially free.
func New[T any](capacity int) *Pool[T] {
	if capacity <= 0 {
		panic("pool: capacity must be positive")
	}
	store := make([]slot[T], capacity)
	for i := range store {
		store[i].free = true
	}
	return &Pool[T]{store: store}
}

// Allocate returns a pointer to the next free slot, written with value.
// The pointer is stable for the object's lifetime: it will not move and,
// after a Deallocate/Allocate pair, the same address is reused bit-exact.
//
// Allocate panics if every slot is currently in use: pool exhaustion is a
// fatal condition, not one callers are expected to recover from.
func (p *Pool[T]) Allocate(value T) *T {
	s := &p.store[p.nextFreeIdx]
	if !s.free {
		panic(fmt.Sprintf("pool: exhausted at capacity %d", len(p.store)))
	}
	s.object = value
	s.free = false
	p.advanceFreeIdx()
	return &s.object
}

// advanceFreeIdx walks forward from the slot just allocated until it finds
// the next free slot, wrapping around the end of the store. Worst case is
// O(N) (pool full of long-lived objects save one slot); in steady-state
// churn it is amortized O(1).
func (p *Pool[T]) advanceFreeIdx() {
	n := len(p.store)
	start := p.nextFreeIdx
	for i := 0; i < n; i++ {
		p.nextFreeIdx++
		if p.nextFreeIdx == n {
			p.nextFreeIdx = 0
		}
		if p.store[p.nextFreeIdx].free {
			return
		}
	}
	// No free slot anywhere; leave the cursor where Allocate will discover
	// the exhaustion itself on its next call.
	p.nextFreeIdx = start
}

// Deallocate returns obj's slot to the pool. obj must have come from this
// Pool's Allocate and must not already be free; violating either is a
// fatal precondition violation.
func (p *Pool[T]) Deallocate(obj *T) {
	idx := p.indexOf(obj)
	s := &p.store[idx]
	if s.free {
		panic(fmt.Sprintf("pool: double-free at index %d", idx))
	}
	s.free = true
	var zero T
	s.object = zero
	// The next Allocate reuses this slot, at the same address.
	p.nextFreeIdx = idx
}

// indexOf recovers the slot index from the object pointer by subtracting
// base addresses via unsafe.Pointer/uintptr arithmetic.
func (p *Pool[T]) indexOf(obj *T) int {
	base := uintptr(unsafe.Pointer(&p.store[0]))
	target := uintptr(unsafe.Pointer(obj))
	elemSize := unsafe.Sizeof(p.store[0])
	if target < base {
		panic("pool: deallocate of pointer not owned by this pool")
	}
	offset := target - base
	idx := int(offset / elemSize)
	if idx >= len(p.store) || offset%elemSize != 0 {
		panic("pool: deallocate of pointer not owned by this pool")
	}
	return idx
}

// Cap returns the pool's fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.store) }
