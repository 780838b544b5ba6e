package model

import (
	"bytes"
	"strings"

	"github.com/s3nav/s3nav/event"
	"github.com/s3nav/s3nav/log"
	"github.com/s3nav/s3nav/preview"
	"github.com/s3nav/s3nav/profile"
	"github.com/s3nav/s3nav/s3path"
)

// previewableExtensions is the text/code/compressed-wrapper allowlist
// select_file uses to decide whether an object gets a StreamingPreview at
// all — supplemented from original_source/rust/src/model.rs's
// is_preview_supported, which the distillation's spec.md left implicit.
var previewableExtensions = map[string]bool{
	".txt": true, ".md": true, ".log": true, ".json": true, ".yaml": true,
	".yml": true, ".toml": true, ".ini": true, ".cfg": true, ".conf": true,
	".csv": true, ".tsv": true, ".xml": true, ".html": true, ".htm": true,
	".css": true, ".js": true, ".ts": true, ".go": true, ".py": true,
	".rs": true, ".java": true, ".c": true, ".h": true, ".cpp": true,
	".sh": true, ".sql": true, ".gz": true, ".gzip": true, ".zst": true,
	".zstd": true,
}

func isPreviewSupported(key string) bool {
	idx := strings.LastIndex(key, ".")
	if idx < 0 {
 return false
	}
	return previewableExtensions[strings.ToLower(key[idx:])]
}

// binarySniffWindow bounds how much of a bounded peek's content gets
// scanned for a NUL byte before the object is reclassified as
// unsupported/binary — "binary previews beyond byte-size reporting"
// supplemented as an explicit code path, grounded on
// original_source/rust/src/model.rs's is_preview_supported probe.
const binarySniffWindow = 8 * 1024

func looksBinary(content []byte) bool {
	probe := content
	if len(probe) > binarySniffWindow {
 probe = probe[:binarySniffWindow]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// maxPrefetchedSubfolders bounds how many visible subfolders a ListObjects
// page triggers hover prefetches for — supplement,
// grounded on original_source/rust/src/model.rs capping eager prefetch so a
// folder with thousands of subfolders doesn't flood the low queue.
const maxPrefetchedSubfolders = 20

// EngineFacade is the subset of *engine.Engine the model depends on,
// narrowed to an interface so tests can substitute a mock (grounded on
// peak-s5cmd/sdkmigration/mock.go's hand-authored mockgen style) instead of
// standing up a real engine.
type EngineFacade interface {
	EnqueueHigh(item *event.WorkItem)
	EnqueueHoverListObjects(bucket, prefix string) *event.WorkItem
	EnqueueHoverGetObject(bucket, key string, maxBytes int64) *event.WorkItem
	PrioritizeListObjects(bucket, prefix string) bool
	PrioritizeGetObject(bucket, key string) bool
	CancelAll()
}

// Model is the browser model: the folder DAG, the
// preview cache, the current selection, and frecency-weighted navigation
// history. Adapted from original_source/rust/src/model.rs's BrowserModel.
type Model struct {
	engine EngineFacade
	logger *log.Logger
	prof *profile.Profile

	nodes map[string]*FolderNode

	buckets []event.Bucket
	bucketsError string
	bucketsReady bool

	currentBucket string
	currentPrefix string
	breadcrumb []s3path.Path

	selectedBucket string
	selectedKey string

	previews *previewCache
	frecency *frecencyStore

	sortOrder SortOrder
}

// New constructs a Model ready to issue commands against eng.
func New(eng EngineFacade, logger *log.Logger, prof *profile.Profile) *Model {
	return &Model{
 engine: eng,
 logger: logger,
 prof: prof,
 nodes: make(map[string]*FolderNode),
 previews: newPreviewCache(prof.PreviewCacheSize),
 frecency: newFrecencyStore(prof.FrecencyCacheSize),
	}
}

// --- Commands  ---

// Refresh re-issues ListBuckets and, if a bucket/prefix is open, re-issues
// ListObjects for it, discarding any existing page.
func (m *Model) Refresh() {
	m.bucketsReady = false
	m.bucketsError = ""
	m.engine.EnqueueHigh(&event.WorkItem{Kind: event.KindListBuckets})

	if m.currentBucket != "" {
 if node := m.nodes[nodeKey(m.currentBucket, m.currentPrefix)]; node != nil {
 node.Status = StatusEmpty
 node.ContinuationToken = ""
 }
 m.LoadFolder(m.currentBucket, m.currentPrefix)
	}
}

// LoadFolder requests the first page of (bucket, prefix), boosting an
// existing low-priority hover request to high priority if one is already
// outstanding for this exact folder — prioritize_request,
// applied by every foreground navigation command. A no-op while a request
// for the folder is in flight or once it has been loaded (Partial or
// Complete).
func (m *Model) LoadFolder(bucket, prefix string) {
	node := m.nodeFor(bucket, prefix)
	if node.Loading || node.Status == StatusPartial || node.Status == StatusComplete {
 return
	}
	if m.engine.PrioritizeListObjects(bucket, prefix) {
 node.Loading = true
 return
	}
	node.Loading = true
	m.engine.EnqueueHigh(&event.WorkItem{Kind: event.KindListObjects, Bucket: bucket, Prefix: prefix})
}

// LoadMore requests the next page of an already-partial folder — spec.md
// §4.4 load_more, a no-op if the folder isn't Partial or is already loading.
func (m *Model) LoadMore(bucket, prefix string) {
	node := m.nodeFor(bucket, prefix)
	if node.Status != StatusPartial || node.Loading {
 return
	}
	node.Loading = true
	m.engine.EnqueueHigh(&event.WorkItem{
 Kind: event.KindListObjects, Bucket: bucket, Prefix: prefix,
 ContinuationToken: node.ContinuationToken,
	})
}

// NavigateTo jumps directly to an s3:// path, clearing the current
// selection and resetting the breadcrumb stack to the path's ancestry.
// Frecency is only recorded for non-root destinations.
func (m *Model) NavigateTo(p s3path.Path) {
	m.ClearSelection()
	m.breadcrumb = ancestry(p)
	m.currentBucket = p.Bucket
	m.currentPrefix = p.Prefix
	if !p.IsRoot() {
 m.frecency.record(p.String())
 m.LoadFolder(p.Bucket, p.Prefix)
	} else {
 m.bucketsReady = false
 m.engine.EnqueueHigh(&event.WorkItem{Kind: event.KindListBuckets})
	}
}

// NavigateInto descends into a subfolder, clearing the current selection
// and pushing the subfolder onto the breadcrumb stack. Re-entering a
// folder already cached resumes its existing pagination state rather than
// reloading from scratch "resume pagination on
// reentry": a cached Partial node fires LoadMore to finish the listing,
// and any already-populated node (Partial or Complete) re-fires the
// visible-subfolder prefetch.
func (m *Model) NavigateInto(bucket, prefix string) {
	m.ClearSelection()
	m.breadcrumb = append(m.breadcrumb, s3path.Path{Bucket: bucket, Prefix: prefix})
	m.currentBucket = bucket
	m.currentPrefix = prefix
	m.frecency.record(s3path.Path{Bucket: bucket, Prefix: prefix}.String())

	node := m.nodeFor(bucket, prefix)
	switch node.Status {
	case StatusEmpty:
 m.LoadFolder(bucket, prefix)
 return
	case StatusPartial:
 if !node.Loading {
 m.LoadMore(bucket, prefix)
 }
	}
	m.prefetchVisibleSubfolders(node)
}

// NavigateUp pops the breadcrumb stack one level, reloading the parent if
// it isn't already cached.
func (m *Model) NavigateUp() {
	if len(m.breadcrumb) == 0 {
 return
	}
	current := s3path.Path{Bucket: m.currentBucket, Prefix: m.currentPrefix}
	parent := current.Parent()
	m.NavigateTo(parent)
}

// SelectFile opens the preview for an object, constructing a
// StreamingPreview when the key's extension is previewable and the object
// isn't already cached — select_file.
func (m *Model) SelectFile(bucket, key string, size int64) {
	m.selectedBucket = bucket
	m.selectedKey = key
	m.previews.setSelected(bucket, key)

	if _, ok := m.previews.get(bucket, key); ok {
 m.previews.touch(bucket, key)
 return
	}

	if !isPreviewSupported(key) || size > m.prof.MaxPreviewObjectSize {
 m.previews.put(bucket, key, &previewEntry{unsupported: true, sizeOnly: size})
 return
	}

	enc := preview.DetectEncoding(key, nil)
	handle, err := preview.New(enc, size)
	if err != nil {
 m.previews.put(bucket, key, &previewEntry{unsupported: true, sizeOnly: size})
 return
	}
	handle.SetMaxLineSize(m.prof.MaxLinePreviewSize)
	m.previews.put(bucket, key, &previewEntry{handle: handle, encoding: enc, declaredSize: size})

	if !m.engine.PrioritizeGetObject(bucket, key) {
 m.engine.EnqueueHoverGetObject(bucket, key, m.prof.PreviewRequestSize)
	}
}

// ClearSelection drops the current selection without evicting its cache
// entry.
func (m *Model) ClearSelection() {
	m.selectedBucket = ""
	m.selectedKey = ""
	m.previews.setSelected("", "")
}

// ContinueDownload upgrades the selected preview from a bounded prefetch to
// a full streaming download — Prefetching/PrefetchReady to
// Downloading transition, triggered by a user action (e.g. scrolling past
// the prefetched window).
func (m *Model) ContinueDownload() {
	entry, ok := m.previews.get(m.selectedBucket, m.selectedKey)
	if !ok || entry.handle == nil {
 return
	}
	entry.handle.MarkDownloading()
	m.engine.EnqueueHigh(&event.WorkItem{
 Kind: event.KindGetObjectStreaming, Bucket: m.selectedBucket, Key: m.selectedKey,
 Start: entry.handle.SourceBytes(),
	})
}

// PrefetchFolder issues a low-priority hover prefetch for a folder's first
// page, used when the UI highlights a row without a click — spec.md
// §4.3.2.
func (m *Model) PrefetchFolder(bucket, prefix string) {
	if node := m.nodes[nodeKey(bucket, prefix)]; node != nil && node.Status != StatusEmpty {
 return
	}
	m.engine.EnqueueHoverListObjects(bucket, prefix)
}

// PrefetchFilePreview issues a low-priority hover prefetch for a file's
// preview bytes, mirroring PrefetchFolder for GetObject. The bytes are kept
// only if the file has a preview cache entry by the time they arrive.
func (m *Model) PrefetchFilePreview(bucket, key string) {
	if _, ok := m.previews.get(bucket, key); ok {
 return
	}
	m.engine.EnqueueHoverGetObject(bucket, key, m.prof.PreviewRequestSize)
}

// RecentPaths returns up to n of the highest-frecency s3:// paths visited.
func (m *Model) RecentPaths(n int) []string {
	return m.frecency.top(n)
}

// SetSortOrder changes how SortedView orders each folder node's files
// ("Sort order option" — name or last-modified, folders
// always first). Takes effect the next time a node's view is rebuilt.
func (m *Model) SetSortOrder(order SortOrder) {
	m.sortOrder = order
}

// SortOrder returns the model's current default sort order.
func (m *Model) SortOrder() SortOrder {
	return m.sortOrder
}

// --- Queries ---

func (m *Model) nodeFor(bucket, prefix string) *FolderNode {
	key := nodeKey(bucket, prefix)
	node, ok := m.nodes[key]
	if !ok {
 node = newFolderNode(bucket, prefix)
 m.nodes[key] = node
	}
	return node
}

// Node returns the cached folder node for (bucket, prefix), if any.
func (m *Model) Node(bucket, prefix string) (*FolderNode, bool) {
	n, ok := m.nodes[nodeKey(bucket, prefix)]
	return n, ok
}

// Buckets returns the last loaded bucket list and whether it's ready.
func (m *Model) Buckets() ([]event.Bucket, bool) {
	return m.buckets, m.bucketsReady
}

// Breadcrumb returns the current navigation stack, root first.
func (m *Model) Breadcrumb() []s3path.Path {
	return m.breadcrumb
}

func ancestry(p s3path.Path) []s3path.Path {
	var stack []s3path.Path
	for cur := p; ; cur = cur.Parent() {
 stack = append([]s3path.Path{cur}, stack...)
 if cur.IsRoot() {
 break
 }
	}
	return stack
}

// --- Event application  ---

// Apply folds one engine event into the model's state. Events addressed to
// a bucket/key that no longer matches the current selection are still
// applied to caches (so a superseded folder prefetch isn't wasted) but never
// change UI-visible current/selected state. Object content for a key with
// no preview cache entry is dropped (see applyContentLoaded).
func (m *Model) Apply(evt event.Event) {
	switch e := evt.(type) {
	case event.BucketsLoaded:
 m.buckets = e.Buckets
 m.bucketsReady = true
 m.bucketsError = ""
	case event.BucketsError:
 m.bucketsError = e.Message

	case event.ObjectsLoaded:
 m.applyObjectsLoaded(e)
	case event.ObjectsError:
 node := m.nodeFor(e.Bucket, e.Prefix)
 node.Loading = false
 node.Status = StatusError
 node.ErrorMessage = e.Message

	case event.ObjectContentLoaded:
 m.applyContentLoaded(e)
	case event.ObjectContentError:
 // Existing cache data, if any, is retained

	case event.ObjectRangeLoaded:
 m.applyRangeLoaded(e)
	case event.ObjectRangeError:
 // The StreamingPreview's own Status already reflects the failure
 // once the engine stops emitting chunks for it; nothing further to
 // fold into cache bookkeeping here.

	case event.PreviewError:
 // handled via the preview handle's own Status; nothing additional
 // to fold into cache bookkeeping here.

	case event.PreviewProgress:
 // informational only; no state to fold.
	}
}

func (m *Model) applyObjectsLoaded(e event.ObjectsLoaded) {
	node := m.nodeFor(e.Bucket, e.Prefix)
	node.Loading = false

	if e.ContinuationToken == "" {
 node.replaceObjects(e.Objects)
	} else {
 node.appendObjectsDedup(e.Objects)
	}
	node.ContinuationToken = e.NextToken
	if e.Truncated {
 node.Status = StatusPartial
 if e.Bucket == m.currentBucket && e.Prefix == m.currentPrefix {
 m.LoadMore(e.Bucket, e.Prefix)
 }
	} else {
 node.Status = StatusComplete
	}

	if e.Bucket == m.currentBucket && e.Prefix == m.currentPrefix {
 m.prefetchVisibleSubfolders(node)
	}
}

// prefetchVisibleSubfolders issues low-priority hover prefetches for the
// first maxPrefetchedSubfolders folder entries in node — the eager,
// capped prefetch adds.
func (m *Model) prefetchVisibleSubfolders(node *FolderNode) {
	order := node.SortedView(m.sortOrder)
	count := 0
	for _, idx := range order {
 if count >= maxPrefetchedSubfolders {
 return
 }
 obj := node.Objects[idx]
 if !obj.IsFolder {
 continue
 }
 m.PrefetchFolder(node.Bucket, obj.Key)
 count++
	}
}

// applyContentLoaded folds the bounded GetObject peek issued by SelectFile
// into whichever cache representation the entry actually holds. A peek for
// a key with no cache entry, such as a hover PrefetchFilePreview for a file
// that has not been selected, is dropped. A StreamingPreview gets the bytes fed through
// Append at source offset 0 and transitions toward PrefetchReady, the same
// way a bounded first range would arrive via GetObjectStreaming; an
// unsupported/non-handle entry just keeps the raw bytes. An identity-encoded
// peek that turns out to hold a NUL byte in its first chunk is reclassified
// to unsupported/size-only on the spot, since extension alone can't rule out
// a binary file masquerading under a previewable suffix.
func (m *Model) applyContentLoaded(e event.ObjectContentLoaded) {
	entry, ok := m.previews.get(e.Bucket, e.Key)
	if !ok {
 return
	}
	if entry.handle == nil {
 entry.byteContent = e.Content
 return
	}
	if entry.encoding == preview.EncodingIdentity && looksBinary(e.Content) {
 size := entry.declaredSize
 entry.handle.Close()
 m.previews.put(e.Bucket, e.Key, &previewEntry{unsupported: true, sizeOnly: size})
 return
	}
	if err := entry.handle.Append(e.Content, 0); err != nil {
 m.logger.Error(log.ErrorMessage{Op: "preview-append", Bucket: e.Bucket, Key: e.Key, Err: err})
 return
	}
	entry.handle.MarkPrefetchReady()
}

func (m *Model) applyRangeLoaded(e event.ObjectRangeLoaded) {
	entry, ok := m.previews.get(e.Bucket, e.Key)
	if !ok || entry.handle == nil {
 return
	}
	if err := entry.handle.Append(e.Data, e.Start); err != nil {
 m.logger.Error(log.ErrorMessage{Op: "preview-append", Bucket: e.Bucket, Key: e.Key, Err: err})
 return
	}
	if !e.Final {
 entry.handle.MarkPrefetchReady()
	}
}
