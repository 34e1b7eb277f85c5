// Package registry implements the append-grown array of active readers
// that SynchronizeRCU scans on every grace period.
//
// All mutation is expected to happen under a caller-held mutex (the core
// package's global writer-exclusion lock); Registry itself does no locking,
// the same division of responsibility the teacher's own freeTIDs pool
// (internal/race/api/race.go) uses between the pool slice and tidPoolMu.
package registry

import "github.com/kolkov/urcu/internal/rcu/reader"

// initialCapacity matches the distilled spec's scenario 4 starting point.
const initialCapacity = 4

type entry struct {
	gid   int64
	state *reader.State
}

// Registry holds one entry per currently-registered reader. It never
// shrinks its backing capacity; Remove only shortens the live length.
type Registry struct {
	entries []entry
}

// New returns an empty registry at the spec's initial capacity.
func New() *Registry {
	return &Registry{entries: make([]entry, 0, initialCapacity)}
}

// Add appends a new reader entry, doubling capacity explicitly when the
// backing array is full rather than relying on append's unspecified growth
// factor — scenario 4 requires the 4→8 doubling to be a guaranteed,
// testable transition.
func (r *Registry) Add(gid int64, st *reader.State) {
	if len(r.entries) == cap(r.entries) {
		grown := make([]entry, len(r.entries), cap(r.entries)*2)
		copy(grown, r.entries)
		r.entries = grown
	}
	r.entries = append(r.entries, entry{gid: gid, state: st})
}

// Remove deletes the entry matching st by identity, using swap-with-last so
// removal is O(1) and order-independent, exactly as the distilled spec
// requires. It panics if st is not present, mirroring unregister_thread's
// "aborts if not present" contract.
func (r *Registry) Remove(st *reader.State) {
	for i := range r.entries {
		if r.entries[i].state == st {
			last := len(r.entries) - 1
			r.entries[i] = r.entries[last]
			r.entries = r.entries[:last]
			return
		}
	}
	panic("urcu: unregister of a reader not present in the registry")
}

// Len reports the number of currently-registered readers.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Cap reports the current backing capacity, exposed for the registry
// doubling test (scenario 4).
func (r *Registry) Cap() int {
	return cap(r.entries)
}

// Snapshot returns the *reader.State of every currently-registered reader.
// Safe to call only while the caller holds the same mutex that guards
// Add/Remove; the returned slice is a fresh copy so a writer's wait-phase
// scan is unaffected by concurrent registry mutation that happens after the
// snapshot is taken (which cannot occur anyway while the writer holds the
// mutex for the whole of SynchronizeRCU, but the copy keeps the accessor
// honest on its own).
func (r *Registry) Snapshot() []*reader.State {
	out := make([]*reader.State, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.state
	}
	return out
}
