// Package queue implements a wait-free multi-producer, blocking
// single-consumer linked-list queue, used throughout this module as the
// reclamation conduit for deferred reclamation work.
//
// The design is Vyukov's intrusive MPSC queue: producers never block each
// other (a single atomic exchange each), and the sole consumer tolerates the
// brief window in which a producer has claimed its slot in the list but has
// not yet linked its node in, by waiting with adaptive back-off.
package queue

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// adaptAttempts is the number of CPU-relaxed spins Dequeue gives a
// transiently-unlinked node before switching to sleep back-off.
const adaptAttempts = 10

// sleepBackoff is the sleep interval used once adaptAttempts has been
// exceeded.
const sleepBackoff = 10 * time.Millisecond

// Node is one queue element. Value is opaque to the queue; callers type
// assert it back on Dequeue.
type Node struct {
	next  atomic.Pointer[Node]
	Value any
}

// NewNode allocates a node carrying v.
func NewNode(v any) *Node {
	return &Node{Value: v}
}

// Queue is the MPSC/SPSC queue itself. The zero value is not usable; use
// New.
type Queue struct {
	head  *Node
	tail  atomic.Pointer[Node]
	dummy Node

	consumerMu sync.Mutex
}

// New returns an empty queue, with head and tail both addressing the
// internal dummy node per the invariant in SPEC_FULL.md §3.
func New() *Queue {
	q := &Queue{}
	q.head = &q.dummy
	q.tail.Store(&q.dummy)
	return q
}

// Enqueue links n onto the tail of the queue. Wait-free and safe for any
// number of concurrent producers.
func (q *Queue) Enqueue(n *Node) {
	n.next.Store(nil)
	old := q.tail.Swap(n)
	old.next.Store(n)
}

// Dequeue removes and returns the oldest node. ok is false only when the
// queue was observably empty at entry (head == &dummy and tail == &dummy,
// the full invariant from SPEC_FULL.md §4.6); it never returns spuriously.
// Concurrent Dequeue callers are excluded by the queue's own mutex.
//
// node.next must be resolved and head advanced past node before node is
// handed back to the caller, since the caller may free node immediately on
// return; this is why even a node holding real data is waited on here, not
// only the dummy.
func (q *Queue) Dequeue() (*Node, bool) {
	q.consumerMu.Lock()
	defer q.consumerMu.Unlock()

	for {
		node := q.head
		next := node.next.Load()
		if next == nil {
			// head.next not yet visible. Only truly empty if tail still
			// addresses the dummy too; otherwise a producer has already
			// claimed the tail slot (Enqueue's Swap) but hasn't finished
			// linking it in (the Store that follows), so wait for it
			// instead of reporting a spurious empty queue.
			if node == &q.dummy && q.tail.Load() == &q.dummy {
				return nil, false
			}
			next = q.waitForNext(node)
		}
		q.head = next

		if node == &q.dummy {
			// The dummy never carries real data; requeue it so the
			// empty-queue invariant (head == &dummy, tail == &dummy)
			// can hold again once the queue drains, and retry for the
			// real node that follows it.
			q.Enqueue(&q.dummy)
			continue
		}
		return node, true
	}
}

// waitForNext waits, with adaptive back-off, for node.next to become
// non-nil: the producer has advanced q.tail past node but has not yet
// stored the link.
func (q *Queue) waitForNext(node *Node) *Node {
	for i := 0; i < adaptAttempts; i++ {
		if next := node.next.Load(); next != nil {
			return next
		}
		runtime.Gosched()
	}
	for {
		if next := node.next.Load(); next != nil {
			return next
		}
		time.Sleep(sleepBackoff)
	}
}
