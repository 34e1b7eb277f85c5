// Package reader implements the per-reader state a registered goroutine
// owns for the lifetime of its registration: the nesting depth/parity
// snapshot and the need-mb flag used by signal-coerced fence forcing.
package reader

import (
	"sync/atomic"

	"github.com/kolkov/urcu/internal/rcu/gp"
)

// State is the heap-allocated block a registered reader's handle points at,
// and that the registry also holds a pointer to for the duration of the
// reader's registration. It is the Go stand-in for the original's
// thread-local active_depth and need_mb: one allocation, referenced from
// both places, outliving any single ReadLock/ReadUnlock call.
type State struct {
	depth  atomic.Uint64
	needMB atomic.Bool
	gid    int64
}

// New allocates a fresh, unregistered-depth reader state for the given
// goroutine identity (used only for diagnostics, never read on the fast
// path).
func New(gid int64) *State {
	return &State{gid: gid}
}

// GID returns the goroutine identity captured at registration.
func (s *State) GID() int64 {
	return s.gid
}

// Enter advances the reader one level of nesting. On outermost entry
// (depth was zero) it snapshots gpCtr's parity; on a nested entry it
// preserves the existing snapshot.
//
//go:nosplit
func (s *State) Enter(gpCtr uint64) {
	d := gp.Depth(s.depth.Load())
	if !d.InCriticalSection() {
		s.depth.Store(uint64(gp.Snapshot(gp.Depth(gpCtr))))
		return
	}
	s.depth.Store(uint64(d.Nest()))
}

// Exit leaves one level of nesting. Panics on a depth-zero underflow
// (ReadUnlock called without a matching ReadLock), per the contract
// violation in SPEC_FULL.md §7 — the check is a single branch against a
// value already loaded for the decrement, not a separate hot-path cost.
//
//go:nosplit
func (s *State) Exit() {
	d := gp.Depth(s.depth.Load())
	if !d.InCriticalSection() {
		panic("urcu: ReadUnlock called without a matching ReadLock")
	}
	s.depth.Store(uint64(d.Unnest()))
}

// Depth returns the current raw depth word, for the writer's wait-phase
// scans and for contract-violation checks (Unregister, double ReadUnlock).
//
//go:nosplit
func (s *State) Depth() gp.Depth {
	return gp.Depth(s.depth.Load())
}

// InCriticalSection reports whether the reader is currently inside any
// nesting of ReadLock.
//
//go:nosplit
func (s *State) InCriticalSection() bool {
	return s.Depth().InCriticalSection()
}

// Quiescent reports whether this reader has drained with respect to the
// supplied current generation counter value.
//
//go:nosplit
func (s *State) Quiescent(currentGPCtr uint64) bool {
	return s.Depth().Quiescent(gp.Depth(currentGPCtr))
}

// RequestFence sets need_mb, asking the fence-service goroutine (see
// internal/rcu/core's signal-coerced mode) to execute a full fence on this
// reader's behalf and clear the flag.
func (s *State) RequestFence() {
	s.needMB.Store(true)
}

// FenceRequested reports whether need_mb is still set.
func (s *State) FenceRequested() bool {
	return s.needMB.Load()
}

// ClearFence clears need_mb. Called only by the fence-service goroutine
// after executing a full fence on this reader's behalf.
func (s *State) ClearFence() {
	s.needMB.Store(false)
}
