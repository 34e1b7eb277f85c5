package urcu

import (
	"time"

	"github.com/kolkov/urcu/queue"
)

// pollInterval is how often the Reclaimer worker retries an empty queue.
// Deferred work is not latency-sensitive the way ReadLock/ReadUnlock are,
// so a plain poll (rather than a wake channel) keeps this worker as simple
// as the rest of the conduit it drains.
const pollInterval = time.Millisecond

// Reclaimer is a call_rcu-equivalent deferred-reclamation worker: a
// background goroutine that drains a wait-free queue of callbacks, calls
// SynchronizeRCU once per batch of callbacks pulled off the queue in a
// single drain, and then runs them. Batching amortizes the grace period's
// cost across however many reclamations were deferred since the worker
// last looked, instead of paying one full grace period per reclamation.
//
// Use Reclaimer when callers want to defer reclamation off their own call
// stack; for synchronous reclamation, call PublishContent directly.
type Reclaimer struct {
	q    *queue.Queue
	stop chan struct{}
	done chan struct{}
}

// NewReclaimer starts a Reclaimer's background worker and returns it.
func NewReclaimer() *Reclaimer {
	r := &Reclaimer{
		q:    queue.New(),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// Defer enqueues fn to run after the next grace period the worker
// observes. fn typically frees or otherwise reclaims a value returned by
// XchgPointer.
func (r *Reclaimer) Defer(fn func()) {
	r.q.Enqueue(queue.NewNode(fn))
}

// Close stops the worker after draining and running whatever remains
// queued. It blocks until the drain completes.
func (r *Reclaimer) Close() {
	close(r.stop)
	<-r.done
}

func (r *Reclaimer) run() {
	defer close(r.done)
	for {
		select {
		case <-r.stop:
			r.drainBatch()
			return
		default:
		}

		batch := r.collectBatch()
		if len(batch) == 0 {
			time.Sleep(pollInterval)
			continue
		}
		SynchronizeRCU()
		for _, fn := range batch {
			fn()
		}
	}
}

// collectBatch non-blockingly drains whatever is currently queued.
func (r *Reclaimer) collectBatch() []func() {
	var batch []func()
	for {
		n, ok := r.q.Dequeue()
		if !ok {
			return batch
		}
		batch = append(batch, n.Value.(func()))
	}
}

func (r *Reclaimer) drainBatch() {
	batch := r.collectBatch()
	if len(batch) == 0 {
		return
	}
	SynchronizeRCU()
	for _, fn := range batch {
		fn()
	}
}
