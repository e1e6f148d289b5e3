// Package sched implements the single callback queue that drives every
// scripted delay in the app: typing steps, pre-reply pauses, and
// post-reply reveal pauses.
//
// All callbacks run on one goroutine in due-time order, so components
// scheduled from within a completed stage are guaranteed to run after
// it. There is no cancellation; a chain stops by not rescheduling.
package sched

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/validmoviez/validmoviez/internal/logger"
)

// Option configures the queue.
type Option func(*Queue)

// WithClock replaces the time source. Tests pass a Manual clock.
func WithClock(c Clock) Option {
	return func(q *Queue) {
		q.clock = c
	}
}

// Queue is a cooperative, timer-driven callback queue. After returns
// immediately; the callback runs later on the queue's single goroutine
// (or synchronously via RunDue when driven by hand in tests).
type Queue struct {
	log   *logger.Logger
	clock Clock

	mu      sync.Mutex
	entries entryHeap
	seq     uint64
	wake    chan struct{}
	running bool
	cancel  context.CancelFunc
}

type entry struct {
	due time.Time
	seq uint64 // preserves submission order for equal due times
	fn  func()
}

// New creates a queue with the given dependencies and options.
func New(log *logger.Logger, opts ...Option) *Queue {
	q := &Queue{
		log:   log,
		clock: WallClock{},
		wake:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// After schedules fn to run once d has elapsed. Control returns to the
// caller immediately. Callbacks scheduled with equal due times run in
// submission order.
func (q *Queue) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.seq++
	heap.Push(&q.entries, entry{due: q.clock.Now().Add(d), seq: q.seq, fn: fn})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.entries.Len()
}

// NextDue returns the due time of the earliest pending callback.
// The second return is false when the queue is empty.
func (q *Queue) NextDue() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.entries.Len() == 0 {
		return time.Time{}, false
	}
	return q.entries[0].due, true
}

// RunDue executes every callback whose due time has arrived, in order.
// Callbacks may schedule further work; newly due entries are picked up
// in the same call. Returns the number of callbacks run. Tests drive
// the queue with a Manual clock and RunDue instead of Start.
func (q *Queue) RunDue() int {
	ran := 0
	for {
		q.mu.Lock()
		if q.entries.Len() == 0 || q.entries[0].due.After(q.clock.Now()) {
			q.mu.Unlock()
			return ran
		}
		e := heap.Pop(&q.entries).(entry)
		q.mu.Unlock()

		e.fn()
		ran++
	}
}

// Start begins the background dispatch loop. Non-blocking.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		q.log.Warn("scheduler already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.running = true

	go q.loop(childCtx)
	q.log.Debug("scheduler started")
}

// Stop shuts down the dispatch loop. Pending callbacks are dropped.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}

	q.cancel()
	q.running = false
	q.log.Debug("scheduler stopped")
}

// loop waits for the next due entry and runs it.
func (q *Queue) loop(ctx context.Context) {
	for {
		q.RunDue()

		wait := time.Hour
		if due, ok := q.NextDue(); ok {
			wait = time.Until(due)
			if wait < 0 {
				wait = 0
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// ── heap plumbing ────────────────────────────────────────────────

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
