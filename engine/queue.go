package engine

import (
	"container/list"
	"sync"

	"github.com/s3nav/s3nav/event"
)

// queue is one of the engine's two ordered work queues
// High-priority items are pushed at the tail (FIFO); low-priority items are
// pushed at the head (LIFO, "most recent hover first" —,
// SPEC_FULL.md Open Question 3). A single container/list.List backs both
// disciplines; callers choose pushTail vs pushFront. Workers always pop
// from the front, so a plain FIFO pop gives the right behavior for either
// discipline once items are queued the right way.
//
// Grounded on peak-s5cmd/core/worker.go's semaphore-based WorkerManager,
// adapted from a counting semaphore (which has no notion of "pick a
// specific pending job") to an explicit deque plus condition variable,
// since prioritize_request needs to scan and remove arbitrary pending
// items — something a semaphore can't express.
type queue struct {
	mu sync.Mutex
	cond *sync.Cond
	items *list.List
	closed bool
}

func newQueue() *queue {
	q := &queue{items: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *queue) pushTail(item *event.WorkItem) {
	q.mu.Lock()
	q.items.PushBack(item)
	q.cond.Signal()
	q.mu.Unlock()
}

func (q *queue) pushFront(item *event.WorkItem) {
	q.mu.Lock()
	q.items.PushFront(item)
	q.cond.Signal()
	q.mu.Unlock()
}

// popFront blocks until an item is available or the queue is closed, in
// which case it returns (nil, false).
func (q *queue) popFront() (*event.WorkItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 && !q.closed {
 q.cond.Wait()
	}
	if q.items.Len() == 0 {
 return nil, false
	}
	front := q.items.Front()
	q.items.Remove(front)
	return front.Value.(*event.WorkItem), true
}

// removeMatch scans front-to-back, removing and returning the first item
// satisfying pred — used by prioritize_request's boost .
func (q *queue) removeMatch(pred func(*event.WorkItem) bool) (*event.WorkItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for e := q.items.Front(); e != nil; e = e.Next() {
 item := e.Value.(*event.WorkItem)
 if pred(item) {
 q.items.Remove(e)
 return item, true
 }
	}
	return nil, false
}

// contains reports whether an item matching pred is currently queued,
// without removing it.
func (q *queue) contains(pred func(*event.WorkItem) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for e := q.items.Front(); e != nil; e = e.Next() {
 if pred(e.Value.(*event.WorkItem)) {
 return true
 }
	}
	return false
}

// clear empties the queue without blocking — used by cancel_all (spec.md
// §4.3.1 "clears both queues without blocking").
func (q *queue) clear() {
	q.mu.Lock()
	q.items.Init()
	q.mu.Unlock()
}

// close marks the queue shut down and wakes any worker blocked in
// popFront, which will observe closed and return false.
func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

func matchListObjects(bucket, prefix string) func(*event.WorkItem) bool {
	return func(item *event.WorkItem) bool {
 return item.Kind == event.KindListObjects && item.Bucket == bucket && item.Prefix == prefix
	}
}

func matchGetObject(bucket, key string) func(*event.WorkItem) bool {
	return func(item *event.WorkItem) bool {
 return (item.Kind == event.KindGetObject || item.Kind == event.KindGetObjectStreaming) &&
 item.Bucket == bucket && item.Key == key
	}
}
