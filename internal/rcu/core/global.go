package core

import (
	"sync"
	"sync/atomic"

	"github.com/kolkov/urcu/internal/rcu/gid"
	"github.com/kolkov/urcu/internal/rcu/reader"
	"github.com/kolkov/urcu/internal/rcu/registry"
)

// manager is the process-wide singleton: the global generation counter, the
// writer-exclusion mutex, and the reader registry they guard. Modeled on
// internal/race/detector/detector.go's single mutex-guarded struct with a
// lazily-initialized backing store.
type manager struct {
	gpCounter atomic.Uint64
	mu        sync.Mutex
	reg       *registry.Registry
	mode      atomic.Int32

	once        sync.Once
	initialized atomic.Bool
}

var global manager

func (m *manager) ensureInit() {
	m.once.Do(func() {
		m.reg = registry.New()
		if Mode(m.mode.Load()) == ModeSignalCoerced {
			startFenceService(m)
		}
		m.initialized.Store(true)
	})
}

// SetMode selects the fence-forcing strategy SynchronizeRCU uses. It must
// be called before the first RegisterThread of the process; calling it
// afterward panics, since the fence-service goroutine (if any) is only
// started once, at first registration.
func SetMode(mode Mode) {
	if global.initialized.Load() {
		panic("urcu: SetMode called after the first Register; mode is fixed for the process lifetime")
	}
	if mode == ModeSignalCoerced && !signalCoercionSupported {
		panic("urcu: ModeSignalCoerced is not supported on this platform")
	}
	global.mode.Store(int32(mode))
}

// CurrentMode reports the active fence-forcing strategy.
func CurrentMode() Mode {
	return Mode(global.mode.Load())
}

// RegisterThread registers the calling goroutine as a reader and returns
// its freshly allocated state. The caller (urcu.Register) wraps this in
// the public *Reader handle the goroutine retains as its reader-local
// storage.
func RegisterThread() *reader.State {
	global.ensureInit()

	st := reader.New(gid.Current())

	global.mu.Lock()
	oldCap := global.reg.Cap()
	global.reg.Add(st.GID(), st)
	newCap := global.reg.Cap()
	global.mu.Unlock()

	if newCap != oldCap {
		logRegistryGrowth(oldCap, newCap)
	}
	return st
}

// UnregisterThread removes a reader's state from the registry. It panics
// if the reader is still inside a critical section, matching
// unregister_thread's "registered, depth 0" precondition.
func UnregisterThread(st *reader.State) {
	if st.InCriticalSection() {
		panic("urcu: Unregister called while still inside a read-side critical section")
	}
	global.mu.Lock()
	global.reg.Remove(st)
	global.mu.Unlock()
}

// GPCounter returns the current value of the global generation counter,
// for a reader's outermost ReadLock to snapshot.
//
//go:nosplit
func GPCounter() uint64 {
	return global.gpCounter.Load()
}
