// Package gp implements the bit layout shared by the global grace-period
// counter and each reader's per-goroutine depth word.
//
// Both gp_ctr and active_depth are the same machine word shape: one parity
// bit capturing which of the two grace-period phases is "current", and a
// low-bits nesting count that is non-zero exactly when a reader is inside a
// read-side critical section. Depth models that shared shape once so the
// core package never duplicates the bit arithmetic.
package gp

// Depth is the packed {parity bit, nesting count} word used for both
// gp_ctr (the global counter) and active_depth (a reader's own state).
type Depth uint64

const (
	// PhaseBit is the parity bit: flipped by the writer on every call to
	// SynchronizeRCU, twice per grace period.
	PhaseBit Depth = 1 << 63

	// Count is the nesting-depth unit. A reader at nesting depth n has
	// n*Count added to its snapshot of the parity bit.
	Count Depth = 1

	// nestMask isolates the nesting-count bits from the parity bit.
	nestMask Depth = ^PhaseBit
)

// InCriticalSection reports whether d encodes a non-zero nesting depth.
//
//go:nosplit
func (d Depth) InCriticalSection() bool {
	return d&nestMask != 0
}

// Phase returns the parity bit captured in d.
//
//go:nosplit
func (d Depth) Phase() Depth {
	return d & PhaseBit
}

// Snapshot builds the depth word an outermost ReadLock writes: nesting
// count of one, parity bit copied from the current global counter gpCtr.
//
//go:nosplit
func Snapshot(gpCtr Depth) Depth {
	return Count | gpCtr.Phase()
}

// Nest returns d with its nesting count incremented by one, preserving the
// parity bit captured at outermost entry.
//
//go:nosplit
func (d Depth) Nest() Depth {
	return d + Count
}

// Unnest returns d with its nesting count decremented by one. When the
// count reaches zero the parity snapshot is dropped too, so a reader outside
// any critical section always has a depth word of exactly zero.
//
//go:nosplit
func (d Depth) Unnest() Depth {
	n := d - Count
	if !n.InCriticalSection() {
		return 0
	}
	return n
}

// Flip returns gpCtr with its parity bit inverted. Called twice per grace
// period by the writer, never by a reader.
//
//go:nosplit
func (d Depth) Flip() Depth {
	return d ^ PhaseBit
}

// Quiescent reports whether a reader whose own depth word is d has drained
// with respect to the old phase once the global counter reads current: it
// has either left the critical section entirely, or re-entered and its
// snapshot already matches current's parity.
//
//go:nosplit
func (d Depth) Quiescent(current Depth) bool {
	if !d.InCriticalSection() {
		return true
	}
	return d.Phase() == current.Phase()
}
