// Package queue implements named FIFO queues with blocking fetch and
// fair wakeup. Enqueue happens on the dispatcher thread as part of a
// write command; Fetch is called by workers outside the dispatcher and
// blocks on a wait-list.
package queue

import (
	"math/rand"
	"sync"
	"time"

	"oss.nandlabs.io/jobstore/collections"
	"oss.nandlabs.io/jobstore/keys"
	"oss.nandlabs.io/jobstore/l3"
)

var logger = l3.Get()

// namedQueue is one named FIFO plus its wait-list of signalable waiters.
type namedQueue struct {
	mu      sync.Mutex
	fifo    collections.Queue[keys.K]
	waiters []chan struct{}
}

func newNamedQueue() *namedQueue {
	return &namedQueue{fifo: collections.NewArrayQueue[keys.K]()}
}

// Engine owns every named queue. It is safe for concurrent use: Enqueue is
// called from the dispatcher thread; Fetch is called directly by worker
// goroutines outside the dispatcher.
type Engine struct {
	mu     sync.Mutex
	queues map[string]*namedQueue
}

// New creates an empty queue Engine.
func New() *Engine {
	return &Engine{queues: make(map[string]*namedQueue)}
}

func (e *Engine) queueFor(name string) *namedQueue {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.queues[name]
	if !ok {
		q = newNamedQueue()
		e.queues[name] = q
	}
	return q
}

// Enqueue appends key to the named queue's FIFO. It reports whether the
// queue transitioned from empty to non-empty. The dispatcher does not
// consult this result: it calls SignalOne after every enqueue effect.
func (e *Engine) Enqueue(name string, key keys.K) (becameNonEmpty bool) {
	q := e.queueFor(name)
	q.mu.Lock()
	defer q.mu.Unlock()
	wasEmpty := q.fifo.IsEmpty()
	_ = q.fifo.Enqueue(key)
	return wasEmpty
}

// SignalOne wakes at most one waiter on the named queue, preventing a
// thundering herd. No-op if the queue has no registered waiters.
func (e *Engine) SignalOne(name string) {
	q := e.queueFor(name)
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.waiters) > 0 {
		w := q.waiters[0]
		q.waiters = q.waiters[1:]
		select {
		case w <- struct{}{}:
			return
		default:
			// waiter already gave up (timeout/cancel raced us); try the next one.
		}
	}
}

// register attaches the one waiter channel shared across every queue named
// in this Fetch call.
func (e *Engine) register(name string, waiter chan struct{}) {
	q := e.queueFor(name)
	q.mu.Lock()
	defer q.mu.Unlock()
	q.waiters = append(q.waiters, waiter)
}

func (e *Engine) unregister(name string, waiter chan struct{}) {
	q := e.queueFor(name)
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, w := range q.waiters {
		if w == waiter {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return
		}
	}
}

// poll tries to pop from each named queue, in the given (already shuffled)
// order, returning the first hit.
func (e *Engine) poll(names []string) (keys.K, string, bool) {
	for _, name := range names {
		q := e.queueFor(name)
		q.mu.Lock()
		if !q.fifo.IsEmpty() {
			k, err := q.fifo.Dequeue()
			q.mu.Unlock()
			if err == nil {
				return k, name, true
			}
			continue
		}
		q.mu.Unlock()
	}
	return keys.K{}, "", false
}

// doneCtx is the minimal context.Context surface Fetch needs, so this
// package does not have to import context just for its Done() channel.
type doneCtx interface {
	Done() <-chan struct{}
}

// Fetch performs a blocking fetch across names: it shuffles the
// presentation order randomly on every call for fairness across queues,
// does a non-blocking poll first, then - if every named queue was
// empty - registers one waiter object shared across all of them and blocks
// until a SignalOne wakes it, ctx is cancelled, or timeout elapses.
func (e *Engine) Fetch(ctx doneCtx, names []string, timeout time.Duration) (keys.K, string, bool) {
	shuffled := shuffle(names)
	if k, name, ok := e.poll(shuffled); ok {
		return k, name, true
	}

	waiter := make(chan struct{}, 1)
	for _, name := range shuffled {
		e.register(name, waiter)
	}
	defer func() {
		for _, name := range shuffled {
			e.unregister(name, waiter)
		}
	}()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return keys.K{}, "", false
		case <-deadline.C:
			logger.DebugF("fetch timed out waiting on queues %v", shuffled)
			return keys.K{}, "", false
		case <-waiter:
			if k, name, ok := e.poll(shuffled); ok {
				return k, name, true
			}
			// spurious wake (another waiter raced us to the item); retry.
		}
	}
}

func shuffle(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
