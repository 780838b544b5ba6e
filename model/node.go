// Package model implements the browser model: the folder
// DAG, preview cache, selection lifecycle, and frecency-weighted recent
// path tracking. Adapted from original_source/rust/src/model.rs's
// BrowserModel/FolderNode, which this browser model was distilled from and
// which the distillation's spec.md leaves mostly intact.
package model

import (
	"sort"

	"github.com/s3nav/s3nav/event"
)

// Status is a folder node's listing lifecycle state — state
// machine diagram.
type Status int

const (
	StatusEmpty Status = iota
	StatusPartial
	StatusComplete
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
 return "Empty"
	case StatusPartial:
 return "Partial"
	case StatusComplete:
 return "Complete"
	case StatusError:
 return "Error"
	default:
 return "Unknown"
	}
}

// SortOrder picks how a folder node's non-folder objects are ordered in
// its sorted view — "Sort order option", supplemented
// from original_source/rust/src/model.rs's SortKey (dropped by the
// distillation).
type SortOrder int

const (
	SortByName SortOrder = iota
	SortByModified
)

// FolderNode is a cached directory listing — "Folder node".
// Loading is represented as an orthogonal bool so an Error or Partial node
// can re-enter Loading without losing existing data.
type FolderNode struct {
	Bucket string
	Prefix string

	Objects []event.Object
	ContinuationToken string
	Status Status
	Loading bool
	ErrorMessage string

	sortedView []int
	folderCount int
	sortOrder SortOrder
	cachedSize int // -1 forces a rebuild
}

func newFolderNode(bucket, prefix string) *FolderNode {
	return &FolderNode{
 Bucket: bucket,
 Prefix: prefix,
 Status: StatusEmpty,
 cachedSize: -1,
	}
}

// replaceObjects discards any existing objects — the continuation_token=""
// branch of ObjectsLoaded application.
func (n *FolderNode) replaceObjects(objs []event.Object) {
	n.Objects = objs
	n.cachedSize = -1
}

// appendObjectsDedup appends objs, skipping any key already present
// "Dedup on pagination", preserving first occurrence.
func (n *FolderNode) appendObjectsDedup(objs []event.Object) {
	seen := make(map[string]struct{}, len(n.Objects))
	for _, o := range n.Objects {
 seen[o.Key] = struct{}{}
	}
	for _, o := range objs {
 if _, ok := seen[o.Key]; ok {
 continue
 }
 n.Objects = append(n.Objects, o)
 seen[o.Key] = struct{}{}
	}
	n.cachedSize = -1
}

// SortedView returns indices into Objects, folders first then files, each
// group ordered by order — "Sort view": the result is always a
// permutation of 0..len(Objects). Rebuilt lazily when Objects has changed
// size or order differs from the last build.
func (n *FolderNode) SortedView(order SortOrder) []int {
	if n.cachedSize == len(n.Objects) && n.sortOrder == order {
 return n.sortedView
	}

	folders := make([]int, 0, len(n.Objects))
	files := make([]int, 0, len(n.Objects))
	for i, o := range n.Objects {
 if o.IsFolder {
 folders = append(folders, i)
 } else {
 files = append(files, i)
 }
	}

	less := func(idx []int) func(i, j int) bool {
 return func(i, j int) bool {
 a, b := n.Objects[idx[i]], n.Objects[idx[j]]
 if order == SortByModified {
 return a.LastModified.Before(b.LastModified)
 }
 return a.DisplayName < b.DisplayName
 }
	}
	sort.SliceStable(folders, less(folders))
	sort.SliceStable(files, less(files))

	n.sortedView = append(folders, files...)
	n.folderCount = len(folders)
	n.sortOrder = order
	n.cachedSize = len(n.Objects)
	return n.sortedView
}

// FolderCount returns the number of folder entries at the front of the
// last-built SortedView.
func (n *FolderNode) FolderCount() int {
	return n.folderCount
}

func nodeKey(bucket, prefix string) string {
	return bucket + "/" + prefix
}
