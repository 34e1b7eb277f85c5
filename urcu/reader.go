package urcu

import (
	"github.com/kolkov/urcu/internal/rcu/core"
	"github.com/kolkov/urcu/internal/rcu/reader"
)

// Reader is the handle a goroutine obtains from Register and retains for
// as long as it wants to take part in read-side critical sections.
//
// Go has no address-stable thread-local storage, so the handle itself is
// this package's stand-in for one: only the goroutine holding it can reach
// its state, which is the same guarantee a thread-local would provide.
// Passing a Reader to another goroutine and calling ReadLock/ReadUnlock
// from both is a contract violation (undefined by the spec this
// implements) and is the caller's responsibility to avoid, the same way
// sharing a sync.Locker across goroutines incorrectly would be.
type Reader struct {
	st *reader.State
}

// Register registers the calling goroutine as a reader and returns its
// handle. Call Unregister when the goroutine is done taking part in
// read-side critical sections; forgetting to do so leaks one registry
// entry for the life of the process (the registry is never shrunk, per
// SPEC_FULL.md's Design Notes).
func Register() *Reader {
	return &Reader{st: core.RegisterThread()}
}

// Unregister removes r from the reader registry. Panics if r is still
// inside a critical section (ReadLock called more times than ReadUnlock).
func (r *Reader) Unregister() {
	core.UnregisterThread(r.st)
}

// ReadLock enters a read-side critical section. Wait-free and safe to call
// at arbitrary nesting depth; each call must be matched by exactly one
// ReadUnlock.
//
// Performance target: a handful of nanoseconds, zero allocations — two
// atomic loads (the global counter and the reader's depth) and an atomic
// store, nothing else.
//
//go:nosplit
func (r *Reader) ReadLock() {
	r.st.Enter(core.GPCounter())
}

// ReadUnlock leaves one level of read-side critical section nesting.
// Calling it without a matching ReadLock on the same Reader panics.
//
//go:nosplit
func (r *Reader) ReadUnlock() {
	r.st.Exit()
}
