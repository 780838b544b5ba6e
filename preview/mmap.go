package preview

import (
	"fmt"
	"sync"

	"golang.org/x/exp/mmap"
)

// View is a read-only memory-mapped window onto a StreamingPreview's
// scratch file, for the viewer to random-access arbitrary lines — spec.md
// §4.2 "Mmap view". It must be remapped whenever the preview's
// bytes_written grows past the previously mapped size.
type View struct {
	mu sync.Mutex
	preview *StreamingPreview
	reader *mmap.ReaderAt
	mappedLen int64

	lastLineCache []byte
	lastLineIdx int
}

// NewView opens a fresh mmap over preview's current scratch file contents.
func NewView(preview *StreamingPreview) (*View, error) {
	v := &View{preview: preview, lastLineIdx: -1}
	if err := v.remap(); err != nil {
 return nil, err
	}
	return v, nil
}

// remap closes any existing mapping and reopens the scratch file, picking
// up growth since the last mapping.
func (v *View) remap() error {
	if v.reader != nil {
 if err := v.reader.Close(); err != nil {
 return err
 }
	}
	r, err := mmap.Open(v.preview.Path())
	if err != nil {
 return err
	}
	v.reader = r
	v.mappedLen = int64(r.Len())
	// The last line's length may have grown since it was last read.
	v.lastLineCache = nil
	v.lastLineIdx = -1
	return nil
}

// Sync remaps if the preview's scratch file has grown since the last map.
func (v *View) Sync() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	written := v.preview.BytesWritten()
	if written <= v.mappedLen {
 return nil
	}
	return v.remap()
}

// ReadRange reads [start, end) directly from the mapping, syncing first if
// the range extends past what's currently mapped.
func (v *View) ReadRange(start, end int64) ([]byte, error) {
	if err := v.Sync(); err != nil {
 return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if end > v.mappedLen {
 return nil, fmt.Errorf("range [%d,%d) exceeds mapped length %d", start, end, v.mappedLen)
	}
	buf := make([]byte, end-start)
	if _, err := v.reader.ReadAt(buf, start); err != nil {
 return nil, err
	}
	return buf, nil
}

// Close releases the mapping. Does not touch the underlying scratch file.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.reader == nil {
 return nil
	}
	return v.reader.Close()
}
