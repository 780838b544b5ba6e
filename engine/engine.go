// Package engine implements the asynchronous request engine from spec.md
// §4.3: two priority queues, a pool of cooperative workers, an HTTP client,
// a per-bucket region cache, and an event sink. Grounded on
// peak-s5cmd/core/worker.go's WorkerManager for the pool shape, generalized
// from a counting semaphore to the explicit deque queue.go needs for
// prioritize_request.
package engine

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/s3nav/s3nav/event"
	"github.com/s3nav/s3nav/log"
	"github.com/s3nav/s3nav/log/stat"
	"github.com/s3nav/s3nav/profile"
	"github.com/s3nav/s3nav/region"
	"github.com/s3nav/s3nav/signer"
)

const maxIdleConnsPerHost = 16

// Engine owns the queues, region cache, HTTP client and event channel
// "Ownership: the Engine exclusively owns queues, region cache,
// HTTP client."
type Engine struct {
	profile *profile.Profile
	logger *log.Logger
	httpClient *http.Client
	regionCache *region.Cache
	events chan event.Event

	high *queue
	low *queue

	// sf deduplicates concurrent RecoverFromRedirect lookups for the same
	// bucket. RecoverFromRedirect is pure/offline, so no network round trip
	// is shared: each request that hits PermanentRedirect still sends its
	// own retry, logs its own redirect line and writes the region cache
	// itself.
	sf singleflight.Group

	wg sync.WaitGroup
	shutdownOnce sync.Once

	hoverMu sync.Mutex
	hoverListObjects *event.CancelFlag
	hoverGetObject *event.CancelFlag
}

// New returns an Engine ready to Start. eventBuffer sizes the event
// channel; the model is expected to drain it roughly once per UI frame
// .
func New(prof *profile.Profile, logger *log.Logger, eventBuffer int) *Engine {
	return &Engine{
 profile: prof,
 logger: logger,
 httpClient: newHTTPClient(maxIdleConnsPerHost),
 regionCache: region.NewCache(),
 events: make(chan event.Event, eventBuffer),
 high: newQueue(),
 low: newQueue(),
	}
}

// Events returns the channel the model drains — "Transport: a
// thread-safe channel; the model drains it non-blockingly each frame."
func (e *Engine) Events() <-chan event.Event {
	return e.events
}

// Start spawns HighWorkers high-priority and LowWorkers low-priority
// cooperative workers
func (e *Engine) Start() {
	for i := 0; i < e.profile.HighWorkers; i++ {
 e.wg.Add(1)
 go e.runWorker(e.high)
	}
	for i := 0; i < e.profile.LowWorkers; i++ {
 e.wg.Add(1)
 go e.runWorker(e.low)
	}
}

func (e *Engine) runWorker(q *queue) {
	defer e.wg.Done()
	for {
 item, ok := q.popFront()
 if !ok {
 return
 }
 if item.Cancel.IsSet() {
 continue
 }
 e.dispatch(item)
	}
}

// Shutdown closes both queues (which unblocks any worker waiting in
// popFront with ok=false — the "explicit shutdown work item per worker"
// modeled as a sentinel-free closed-queue signal
// instead, since our queue already distinguishes empty-and-open from
// empty-and-closed) and waits for every worker to return. Safe to call more
// than once.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
 e.high.close()
 e.low.close()
	})
	e.wg.Wait()
}

// CancelAll clears both queues without blocking
// "cancel_all clears both queues without blocking; in-flight requests
// continue but their emitted events may be ignored by the model."
func (e *Engine) CancelAll() {
	e.high.clear()
	e.low.clear()
}

// EnqueueHigh pushes a user-initiated request to the tail of the high
// queue — "Enqueue-high: pushed at tail".
func (e *Engine) EnqueueHigh(item *event.WorkItem) {
	e.high.pushTail(item)
}

// EnqueueHoverListObjects issues a low-priority, cancellable ListObjects
// prefetch, cancelling any previous outstanding ListObjects hover request
// first — "Hover cancellation".
func (e *Engine) EnqueueHoverListObjects(bucket, prefix string) *event.WorkItem {
	e.hoverMu.Lock()
	defer e.hoverMu.Unlock()

	if e.hoverListObjects != nil {
 e.hoverListObjects.Set()
	}
	cancel := &event.CancelFlag{}
	e.hoverListObjects = cancel

	item := &event.WorkItem{Kind: event.KindListObjects, Bucket: bucket, Prefix: prefix, Cancel: cancel}
	e.low.pushFront(item)
	return item
}

// EnqueueHoverGetObject issues a low-priority, cancellable GetObject
// prefetch (the bounded-size preview peek, not the full streaming
// download), cancelling any previous outstanding GetObject hover request.
func (e *Engine) EnqueueHoverGetObject(bucket, key string, maxBytes int64) *event.WorkItem {
	e.hoverMu.Lock()
	defer e.hoverMu.Unlock()

	if e.hoverGetObject != nil {
 e.hoverGetObject.Set()
	}
	cancel := &event.CancelFlag{}
	e.hoverGetObject = cancel

	item := &event.WorkItem{Kind: event.KindGetObject, Bucket: bucket, Key: key, MaxBytes: maxBytes, Cancel: cancel}
	e.low.pushFront(item)
	return item
}

// PrioritizeListObjects implements prioritize_request for the ListObjects
// variant —: scans the low queue for a matching item,
// clears its cancel flag and moves it to the front of the high queue.
// Returns true if a matching item was found in either queue afterward.
func (e *Engine) PrioritizeListObjects(bucket, prefix string) bool {
	pred := matchListObjects(bucket, prefix)
	if item, ok := e.low.removeMatch(pred); ok {
 item.Cancel.Clear()
 e.high.pushFront(item)
 return true
	}
	return e.high.contains(pred)
}

// PrioritizeGetObject is PrioritizeListObjects's analog for GetObject /
// GetObjectStreaming items.
func (e *Engine) PrioritizeGetObject(bucket, key string) bool {
	pred := matchGetObject(bucket, key)
	if item, ok := e.low.removeMatch(pred); ok {
 item.Cancel.Clear()
 e.high.pushFront(item)
 return true
	}
	return e.high.contains(pred)
}

func (e *Engine) dispatch(item *event.WorkItem) {
	switch item.Kind {
	case event.KindListBuckets:
 e.dispatchListBuckets(item)
	case event.KindListObjects:
 e.dispatchListObjects(item)
	case event.KindGetObject:
 e.dispatchGetObject(item)
	case event.KindGetObjectRange:
 e.dispatchGetObjectRange(item)
	case event.KindGetObjectStreaming:
 e.dispatchGetObjectStreaming(item)
	}
}

func (e *Engine) emit(evt event.Event) {
	e.events <- evt
}

func (e *Engine) sign(method, host, path, query, region string) signer.Signed {
	return signer.Sign(method, host, path, query, region, "s3",
 e.profile.AccessKeyID, e.profile.SecretAccessKey, nil, e.profile.SessionToken)
}

// recoverRegion resolves the region.RecoverFromRedirect fallback chain
// (Endpoint tag, then bucket-name scan, then us-east-1) through
// singleflight, keyed by bucket.
func (e *Engine) recoverRegion(bucket, endpointTag string) string {
	v, _, _ := e.sf.Do(bucket, func() (interface{}, error) {
 return region.RecoverFromRedirect(bucket, endpointTag), nil
	})
	return v.(string)
}

func (e *Engine) logRequest(op, bucket, key string, start time.Time, err error) {
	e.logger.Info(log.RequestMessage{Op: op, Bucket: bucket, Key: key, Attempt: 1, Elapsed: time.Since(start)})
	stat.Record(op, err)
}

func logRedirect(bucket, oldRegion, newRegion string) log.RedirectMessage {
	return log.RedirectMessage{Bucket: bucket, OldRegion: oldRegion, NewRegion: newRegion}
}
