package model

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"gotest.tools/v3/assert"

	"github.com/s3nav/s3nav/event"
	"github.com/s3nav/s3nav/log"
	"github.com/s3nav/s3nav/preview"
	"github.com/s3nav/s3nav/profile"
	"github.com/s3nav/s3nav/s3path"
)

func newTestModel(t *testing.T) (*Model, *MockEngineFacade) {
	t.Helper()
	ctrl := gomock.NewController(t)
	eng := NewMockEngineFacade(ctrl)
	prof := profile.New("test")
	logger := log.New(log.LevelError, false)
	t.Cleanup(logger.Close)
	return New(eng, logger, prof), eng
}

func obj(key string, isFolder bool) event.Object {
	return event.Object{Key: key, DisplayName: key, IsFolder: isFolder}
}

// TestDedupOnPagination covers "Dedup on pagination".
func TestDedupOnPagination(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()

	m.Apply(event.ObjectsLoaded{
 Bucket: "b", Prefix: "p/", ContinuationToken: "",
 Objects: []event.Object{obj("p/a", false), obj("p/b", false)},
 Truncated: true, NextToken: "tok",
	})
	m.Apply(event.ObjectsLoaded{
 Bucket: "b", Prefix: "p/", ContinuationToken: "tok",
 Objects: []event.Object{obj("p/b", false), obj("p/c", false)},
 Truncated: false,
	})

	node, ok := m.Node("b", "p/")
	assert.Assert(t, ok)
	assert.Equal(t, len(node.Objects), 3)
	assert.Equal(t, node.Objects[0].Key, "p/a")
	assert.Equal(t, node.Objects[1].Key, "p/b")
	assert.Equal(t, node.Objects[2].Key, "p/c")
	assert.Equal(t, node.Status, StatusComplete)
}

// TestSortedViewPermutation covers "Sort view" via the scenario
// 1 fixture: one folder, one file.
func TestSortedViewPermutation(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()
	eng.EXPECT().EnqueueHoverListObjects(gomock.Any(), gomock.Any()).AnyTimes()

	m.Apply(event.ObjectsLoaded{
 Bucket: "bucket", Prefix: "",
 Objects: []event.Object{
 {Key: "readme.txt", DisplayName: "readme.txt", Size: 12},
 {Key: "logs/", DisplayName: "logs", IsFolder: true},
 },
 Truncated: false,
	})

	node, ok := m.Node("bucket", "")
	assert.Assert(t, ok)
	view := node.SortedView(SortByName)
	assert.Equal(t, len(view), 2)
	assert.Equal(t, node.FolderCount(), 1)
	assert.Equal(t, node.Objects[view[0]].IsFolder, true)
	assert.Equal(t, node.Objects[view[1]].IsFolder, false)

	seen := make(map[int]bool)
	for _, idx := range view {
 seen[idx] = true
	}
	assert.Equal(t, len(seen), 2)
}

// TestSetSortOrderAffectsModelDefault covers the supplemented
// sort-order option: switching the model's default and re-reading a node's
// sorted view through it picks up the new order without another fetch.
func TestSetSortOrderAffectsModelDefault(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()
	eng.EXPECT().EnqueueHoverListObjects(gomock.Any(), gomock.Any()).AnyTimes()

	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.Apply(event.ObjectsLoaded{
 Bucket: "bucket", Prefix: "",
 Objects: []event.Object{
 {Key: "z.txt", DisplayName: "z.txt", LastModified: newer},
 {Key: "a.txt", DisplayName: "a.txt", LastModified: older},
 },
 Truncated: false,
	})

	assert.Equal(t, m.SortOrder(), SortByName)
	node, _ := m.Node("bucket", "")
	byName := node.SortedView(m.SortOrder())
	assert.Equal(t, node.Objects[byName[0]].DisplayName, "a.txt")

	m.SetSortOrder(SortByModified)
	byModified := node.SortedView(m.SortOrder())
	assert.Equal(t, node.Objects[byModified[0]].DisplayName, "a.txt")
	assert.Equal(t, node.Objects[byModified[1]].DisplayName, "z.txt")
}

// TestLRUBoundNeverEvictsSelected covers "LRU bound".
func TestLRUBoundNeverEvictsSelected(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHoverGetObject(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	eng.EXPECT().PrioritizeGetObject(gomock.Any(), gomock.Any()).Return(false).AnyTimes()

	m.prof.PreviewCacheSize = 2
	m.previews = newPreviewCache(2)

	m.SelectFile("b", "a.txt", 10)
	m.SelectFile("b", "b.txt", 10)
	m.SelectFile("b", "c.txt", 10)

	assert.Equal(t, m.previews.size(), 2)
	_, stillThere := m.previews.get("b", "c.txt")
	assert.Assert(t, stillThere, "currently selected key must never be evicted")
}

// TestSelectFileFeedsBoundedPeekIntoStreamingPreview covers the
// SelectFile -> ObjectContentLoaded -> StreamingPreview.Append wiring: the
// bounded GetObject peek SelectFile issues must land in the streaming
// preview's scratch file, not just an inert byte slice, so a subsequent
// Line read sees real content and ContinueDownload resumes from the right
// offset.
func TestSelectFileFeedsBoundedPeekIntoStreamingPreview(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHoverGetObject(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	eng.EXPECT().PrioritizeGetObject(gomock.Any(), gomock.Any()).Return(false).AnyTimes()

	content := []byte("one\ntwo\nthree\n")
	m.SelectFile("b", "notes.txt", int64(len(content)))

	m.Apply(event.ObjectContentLoaded{Bucket: "b", Key: "notes.txt", Content: content})

	entry, ok := m.previews.get("b", "notes.txt")
	assert.Assert(t, ok)
	assert.Assert(t, entry.handle != nil)
	assert.Equal(t, entry.handle.BytesWritten(), int64(len(content)))
	assert.Equal(t, entry.handle.SourceBytes(), int64(len(content)))
	assert.Equal(t, entry.handle.Status(), preview.StatusComplete)

	line, err := entry.handle.Line(0)
	assert.NilError(t, err)
	assert.Equal(t, string(line), "one")
}

// TestSelectFileReclassifiesBinaryContentAsUnsupported covers the
// binary/size-only fallback: a .txt-suffixed object whose first chunk holds
// a NUL byte is not a real text file, so the peek reclassifies the cache
// entry to unsupported/size-only instead of feeding garbage into the
// streaming preview.
func TestSelectFileReclassifiesBinaryContentAsUnsupported(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHoverGetObject(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	eng.EXPECT().PrioritizeGetObject(gomock.Any(), gomock.Any()).Return(false).AnyTimes()

	content := []byte("abc\x00def")
	m.SelectFile("b", "mystery.txt", int64(len(content)))

	m.Apply(event.ObjectContentLoaded{Bucket: "b", Key: "mystery.txt", Content: content})

	entry, ok := m.previews.get("b", "mystery.txt")
	assert.Assert(t, ok)
	assert.Assert(t, entry.handle == nil)
	assert.Assert(t, entry.unsupported)
	assert.Equal(t, entry.sizeOnly, int64(len(content)))
}

// TestSelectFileSkipsOversizedObject covers the size half of the
// binary/size-only fallback: an object whose declared size exceeds the
// configured cap never gets a StreamingPreview constructed for it at all.
func TestSelectFileSkipsOversizedObject(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHoverGetObject(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	eng.EXPECT().PrioritizeGetObject(gomock.Any(), gomock.Any()).Times(0)

	m.prof.MaxPreviewObjectSize = 1024
	m.SelectFile("b", "huge.txt", 2048)

	entry, ok := m.previews.get("b", "huge.txt")
	assert.Assert(t, ok)
	assert.Assert(t, entry.handle == nil)
	assert.Assert(t, entry.unsupported)
	assert.Equal(t, entry.sizeOnly, int64(2048))
}

// TestNavigateIntoClearsSelection covers the "navigations clear selection"
// requirement: a previously-selected file's cache entry must stop being
// protected from LRU eviction once the user has navigated away from it.
func TestNavigateIntoClearsSelection(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()
	eng.EXPECT().EnqueueHoverListObjects(gomock.Any(), gomock.Any()).AnyTimes()
	eng.EXPECT().EnqueueHoverGetObject(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	eng.EXPECT().PrioritizeGetObject(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	eng.EXPECT().PrioritizeListObjects(gomock.Any(), gomock.Any()).Return(false).AnyTimes()

	m.SelectFile("bucket", "notes.txt", 10)
	assert.Equal(t, m.selectedKey, "notes.txt")

	m.NavigateInto("bucket", "sub/")
	assert.Equal(t, m.selectedKey, "")
	assert.Equal(t, m.previews.selectedKey, previewCacheKey("", ""))
}

// TestNavigateToClearsSelection mirrors TestNavigateIntoClearsSelection for
// the direct-jump path.
func TestNavigateToClearsSelection(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()
	eng.EXPECT().EnqueueHoverGetObject(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	eng.EXPECT().PrioritizeGetObject(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	eng.EXPECT().PrioritizeListObjects(gomock.Any(), gomock.Any()).Return(false).AnyTimes()

	m.SelectFile("bucket", "notes.txt", 10)
	assert.Equal(t, m.selectedKey, "notes.txt")

	m.NavigateTo(s3path.Path{Bucket: "bucket", Prefix: "sub/"})
	assert.Equal(t, m.selectedKey, "")
}

// TestNavigateToRootSkipsFrecency covers "record frecency for non-root
// navigations": navigating to the bucket list must not record a hit for the
// literal root path.
func TestNavigateToRootSkipsFrecency(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()

	m.NavigateTo(s3path.Path{})

	assert.Equal(t, len(m.frecency.top(10)), 0)
}

// TestNavigateIntoResumesPartialFolder covers "resume pagination and fire
// prefetch for visible sub-folders" on re-entry: a cached Partial node with
// no in-flight request must fire LoadMore, and the re-entered folder's
// visible subfolders must be (re-)prefetched.
func TestNavigateIntoResumesPartialFolder(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()

	m.Apply(event.ObjectsLoaded{
		Bucket: "bucket", Prefix: "sub/",
		Objects:   []event.Object{obj("sub/a/", true), obj("sub/b.txt", false)},
		Truncated: true, NextToken: "tok",
	})
	node, ok := m.Node("bucket", "sub/")
	assert.Assert(t, ok)
	assert.Equal(t, node.Status, StatusPartial)
	assert.Equal(t, node.Loading, false)

	eng.EXPECT().EnqueueHoverListObjects(gomock.Any(), gomock.Any()).Times(1)

	m.NavigateInto("bucket", "sub/")

	assert.Equal(t, node.Loading, true)
}

// TestFrecencyOrdering covers scenario 6.
func TestFrecencyOrdering(t *testing.T) {
	f := newFrecencyStore(500)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := base
	f.now = func() time.Time { return tick }

	f.record("s3://x/a/")
	tick = tick.Add(10 * time.Second)
	f.record("s3://x/b/")
	tick = tick.Add(10 * time.Second)
	f.record("s3://x/a/")

	top := f.top(2)
	assert.Equal(t, len(top), 2)
	assert.Equal(t, top[0], "s3://x/a/")
	assert.Equal(t, top[1], "s3://x/b/")
}

// TestPrefetchVisibleSubfoldersCap covers the supplement
// bounding eager subfolder prefetch.
func TestPrefetchVisibleSubfoldersCap(t *testing.T) {
	m, eng := newTestModel(t)
	eng.EXPECT().EnqueueHigh(gomock.Any()).AnyTimes()

	var objs []event.Object
	for i := 0; i < 30; i++ {
 objs = append(objs, obj(string(rune('a'+i))+"/", true))
	}

	m.currentBucket, m.currentPrefix = "bucket", ""
	eng.EXPECT().EnqueueHoverListObjects(gomock.Any(), gomock.Any()).Times(maxPrefetchedSubfolders)

	m.Apply(event.ObjectsLoaded{Bucket: "bucket", Prefix: "", Objects: objs, Truncated: false})
}

// TestApplyIgnoresStaleBucket covers mismatched-event handling:
// an ObjectsLoaded for a folder that's no longer the current one still
// updates the node but doesn't trigger subfolder prefetch against the
// wrong folder.
func TestApplyIgnoresStaleBucket(t *testing.T) {
	m, _ := newTestModel(t) // no expectations set: any engine call fails the test
	m.currentBucket, m.currentPrefix = "bucket", "other/"

	m.Apply(event.ObjectsLoaded{
 Bucket: "bucket", Prefix: "stale/",
 Objects: []event.Object{obj("stale/x", false)}, Truncated: false,
	})

	node, ok := m.Node("bucket", "stale/")
	assert.Assert(t, ok)
	assert.Equal(t, node.Status, StatusComplete)
}
