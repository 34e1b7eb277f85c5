package urcu

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kolkov/urcu/internal/rcu/core"
)

// TestReclaimerBatchesGracePeriods covers scenario 7: deferring K
// callbacks in quick succession triggers strictly fewer than K calls to
// SynchronizeRCU, and every deferred callback eventually runs exactly
// once.
func TestReclaimerBatchesGracePeriods(t *testing.T) {
	const k = 50

	before := core.SyncCalls()

	rc := NewReclaimer()
	var ran atomic.Int64
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		rc.Defer(func() {
			ran.Add(1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("not all %d deferred callbacks ran in time", k)
	}
	rc.Close()

	if ran.Load() != k {
		t.Fatalf("ran = %d, want %d", ran.Load(), k)
	}

	after := core.SyncCalls()
	calls := after - before
	if calls == 0 {
		t.Fatalf("expected at least one SynchronizeRCU call")
	}
	if calls >= k {
		t.Fatalf("SynchronizeRCU called %d times for %d deferred callbacks, expected batching (< %d)", calls, k, k)
	}
}

func TestReclaimerCloseDrainsRemaining(t *testing.T) {
	rc := NewReclaimer()
	var ran atomic.Bool
	rc.Defer(func() { ran.Store(true) })
	rc.Close()
	if !ran.Load() {
		t.Fatalf("expected deferred callback to run by Close")
	}
}
