package urcu

import (
	"sync/atomic"

	"github.com/kolkov/urcu/internal/rcu/barrier"
)

// Dereference performs an acquire-load of slot. Call it only from within a
// read-side critical section (between ReadLock and ReadUnlock); the value
// returned is valid for the remainder of that critical section.
//
//go:nosplit
func Dereference[T any](slot *atomic.Pointer[T]) *T {
	return slot.Load()
}

// AssignPointer stores v into slot with release semantics, after a full
// fence. Use this when v was newly constructed and there is no prior value
// in slot that needs reclaiming — if there is, use XchgPointer or
// PublishContent instead so the prior value isn't silently dropped.
func AssignPointer[T any](slot *atomic.Pointer[T], v *T) {
	barrier.FullFence()
	slot.Store(v)
}

// XchgPointer atomically swaps v into slot and returns the prior value.
// The caller owns the returned value and is responsible for reclaiming it
// only after a grace period — call SynchronizeRCU (or hand it to a
// Reclaimer) before freeing it. PublishContent does both steps for you.
func XchgPointer[T any](slot *atomic.Pointer[T], v *T) *T {
	return slot.Swap(v)
}

// PublishContent swaps v into slot and blocks until every reader that
// might have observed the prior value has exited its critical section at
// least once, then returns that prior value, now safe to reclaim.
func PublishContent[T any](slot *atomic.Pointer[T], v *T) *T {
	old := slot.Swap(v)
	SynchronizeRCU()
	return old
}
