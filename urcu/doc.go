// Package urcu provides a userspace Read-Copy-Update synchronization
// primitive for Go: readers traverse shared pointer-based data structures
// with wait-free, non-blocking reads, while a writer publishes updates and
// waits for all prior readers to depart before reclaiming replaced memory.
//
// A reader registers once per goroutine and keeps the returned handle for
// the goroutine's lifetime:
//
//	r := urcu.Register()
//	defer r.Unregister()
//
//	r.ReadLock()
//	v := urcu.Dereference(&sharedSlot)
//	// ... use v ...
//	r.ReadUnlock()
//
// A writer publishes a new value and reclaims the old one only after every
// reader that might still be observing it has moved on:
//
//	old := urcu.PublishContent(&sharedSlot, newValue)
//	// old is now safe to free/reclaim.
//
// See doc comments on SynchronizeRCU, PublishContent, and Reclaimer for the
// grace-period guarantees each provides.
package urcu
