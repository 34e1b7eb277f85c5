//go:build unix

package core

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kolkov/urcu/internal/rcu/barrier"
	"github.com/kolkov/urcu/internal/rcu/reader"
)

// signalCoercionSupported reports that SIGUSR1-based fence coercion is
// available on this build.
const signalCoercionSupported = true

var (
	fenceServiceOnce sync.Once
	fenceMu          sync.Mutex
	fencePending     []*reader.State
)

// startFenceService starts the process-wide goroutine that answers
// SIGUSR1 broadcasts by executing a full fence and clearing need_mb on
// every reader the writer has asked it to service. It is started once, at
// first registration, and runs for the life of the process — there being
// no natural point at which to stop it, the same as the original's
// once-per-process signal handler installation.
func startFenceService(m *manager) {
	fenceServiceOnce.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGUSR1)
		go func() {
			for range ch {
				barrier.FullFence()
				fenceMu.Lock()
				for _, st := range fencePending {
					st.ClearFence()
				}
				fencePending = fencePending[:0]
				fenceMu.Unlock()
				barrier.FullFence()
			}
		}()
	})
}

// signalCoerceFenceAll implements §4.4's full-coercion pass: every reader
// in readers is flagged, the process is signaled, and the writer waits
// (resending and sleeping) until every flag clears.
func signalCoerceFenceAll(readers []*reader.State) {
	enqueueFenceTargets(readers)
	for _, st := range readers {
		st.RequestFence()
	}
	waitForFenceClear(readers)
}

// signalCoerceFenceOne targets a single laggard reader, used by
// waitForQuiescence once a wait phase has spun past kickReaderLoops.
func signalCoerceFenceOne(st *reader.State) {
	enqueueFenceTargets([]*reader.State{st})
	st.RequestFence()
	waitForFenceClear([]*reader.State{st})
}

func enqueueFenceTargets(readers []*reader.State) {
	fenceMu.Lock()
	fencePending = append(fencePending, readers...)
	fenceMu.Unlock()
}

// waitForFenceClear resends the broadcast signal and sleeps ~1ms between
// attempts until every reader's need_mb has cleared, tolerating both a
// dropped signal and the coarser-than-original process-wide targeting.
func waitForFenceClear(readers []*reader.State) {
	for {
		pending := 0
		for _, st := range readers {
			if st.FenceRequested() {
				pending++
			}
		}
		if pending == 0 {
			break
		}
		logFenceBroadcast(pending)
		_ = unix.Kill(os.Getpid(), unix.SIGUSR1)
		time.Sleep(time.Millisecond)
	}
	barrier.FullFence()
}
