// Package preview implements the streaming decompressed-preview pipeline:
// One StreamingPreview buffers a single object's download to
// a per-preview scratch file, decompressing on the fly and indexing
// newline offsets so a viewer can random-access arbitrary lines without
// buffering the whole object.
package preview

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Status is a streaming preview's lifecycle state
type Status int

const (
	StatusPrefetching Status = iota
	StatusPrefetchReady
	StatusDownloading
	StatusComplete
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPrefetching:
 return "Prefetching"
	case StatusPrefetchReady:
 return "PrefetchReady"
	case StatusDownloading:
 return "Downloading"
	case StatusComplete:
 return "Complete"
	case StatusError:
 return "Error"
	default:
 return "Unknown"
	}
}

// defaultMaxLineSize bounds a single Line read to avoid a pathological
// single-line file forcing an unbounded allocation, unless overridden by
// SetMaxLineSize.
const defaultMaxLineSize = 10 * 1024 * 1024

// StreamingPreview buffers one object's decompressed bytes to a scratch
// file and indexes line offsets as they arrive.
type StreamingPreview struct {
	mu sync.Mutex

	file *os.File
	path string

	transform Transform

	bytesWritten int64 // decompressed bytes appended to the scratch file
	sourceBytes int64 // compressed bytes received from the network
	totalSource int64 // expected total compressed size, 0 if unknown

	lineOffsets []int64
	maxLineSize int64

	status Status
	errMsg string
}

// New constructs a StreamingPreview backed by a fresh scratch file. The
// scratch file is deleted when Close is called ( "deleted on
// drop").
func New(enc Encoding, totalSourceSize int64) (*StreamingPreview, error) {
	f, path, err := newScratchFile()
	if err != nil {
 return nil, err
	}
	p := &StreamingPreview{
 file: f,
 path: path,
 transform: NewTransform(enc),
 totalSource: totalSourceSize,
 lineOffsets: []int64{0},
 maxLineSize: defaultMaxLineSize,
 status: StatusPrefetching,
	}
	if totalSourceSize == 0 {
 // Nothing will ever be appended to a zero-byte object; it is
 // complete on construction.
 if err := p.finish(); err != nil {
 return nil, err
 }
	}
	return p, nil
}

// Path returns the scratch file's path, for the viewer to memory-map.
func (p *StreamingPreview) Path() string {
	return p.path
}

// Status returns the preview's current lifecycle status.
func (p *StreamingPreview) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// ErrorMessage returns the terminal error's message, if Status is
// StatusError.
func (p *StreamingPreview) ErrorMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// BytesWritten returns the number of decompressed bytes appended so far.
func (p *StreamingPreview) BytesWritten() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bytesWritten
}

// SourceBytes returns the number of compressed (source) bytes consumed so
// far — the offset the next Append call must continue from.
func (p *StreamingPreview) SourceBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sourceBytes
}

// LineCount returns the number of complete+in-progress lines indexed.
func (p *StreamingPreview) LineCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.lineOffsets)
}

// MarkDownloading transitions Prefetching/PrefetchReady to Downloading,
// e.g. when the model issues continue_download.
func (p *StreamingPreview) MarkDownloading() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusPrefetching || p.status == StatusPrefetchReady {
 p.status = StatusDownloading
	}
}

// MarkPrefetchReady transitions Prefetching to PrefetchReady, e.g. at the
// end of a bounded first range fetch.
func (p *StreamingPreview) MarkPrefetchReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == StatusPrefetching {
 p.status = StatusPrefetchReady
	}
}

// SetMaxLineSize overrides the cap Line() applies to a single line read,
// e.g. from profile.Profile.MaxLinePreviewSize. A non-positive n leaves the
// existing cap in place.
func (p *StreamingPreview) SetMaxLineSize(n int64) {
	if n <= 0 {
 return
	}
	p.mu.Lock()
	p.maxLineSize = n
	p.mu.Unlock()
}

// fail transitions the preview to a terminal Error state. Existing bytes
// remain readable
func (p *StreamingPreview) fail(err error) error {
	p.mu.Lock()
	p.status = StatusError
	p.errMsg = err.Error()
	p.mu.Unlock()
	return err
}

// Append implements append protocol. sourceOffset must equal
// the number of source bytes already consumed — the caller is required to
// deliver chunks in order.
func (p *StreamingPreview) Append(raw []byte, sourceOffset int64) error {
	p.mu.Lock()
	if sourceOffset != p.sourceBytes {
 p.mu.Unlock()
 return p.fail(fmt.Errorf("out-of-order append: got offset %d, expected %d", sourceOffset, p.sourceBytes))
	}
	if p.status == StatusError {
 p.mu.Unlock()
 return fmt.Errorf("append to preview already in Error state: %s", p.errMsg)
	}
	p.mu.Unlock()

	decoded, err := p.transform.Process(raw)
	if err != nil {
 return p.fail(err)
	}
	if err := p.writeAndIndex(decoded); err != nil {
 return p.fail(err)
	}

	p.mu.Lock()
	p.sourceBytes += int64(len(raw))
	done := p.totalSource > 0 && p.sourceBytes >= p.totalSource
	p.mu.Unlock()

	if done {
 return p.finish()
	}
	return nil
}

func (p *StreamingPreview) finish() error {
	tail, err := p.transform.Finish()
	if err != nil {
 return p.fail(err)
	}
	if err := p.writeAndIndex(tail); err != nil {
 return p.fail(err)
	}
	p.mu.Lock()
	p.status = StatusComplete
	p.mu.Unlock()
	return nil
}

// writeAndIndex appends decoded to the scratch file at the current
// bytes_written offset using a positional write, then scans it for '\n'
// and pushes line_offsets — steps 2-4.
func (p *StreamingPreview) writeAndIndex(decoded []byte) error {
	if len(decoded) == 0 {
 return nil
	}

	p.mu.Lock()
	offset := p.bytesWritten
	p.mu.Unlock()

	if _, err := p.file.WriteAt(decoded, offset); err != nil {
 return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, b := range decoded {
 if b == '\n' {
 p.lineOffsets = append(p.lineOffsets, offset+int64(i)+1)
 }
	}
	p.bytesWritten = offset + int64(len(decoded))
	return nil
}

// Line reads line i, stripping a trailing "\r\n" or "\n". i must be in
// [0, LineCount).
func (p *StreamingPreview) Line(i int) ([]byte, error) {
	p.mu.Lock()
	if i < 0 || i >= len(p.lineOffsets) {
 p.mu.Unlock()
 return nil, fmt.Errorf("line %d out of range (have %d)", i, len(p.lineOffsets))
	}
	start := p.lineOffsets[i]
	var end int64
	if i == len(p.lineOffsets)-1 {
 end = p.bytesWritten
	} else {
 end = p.lineOffsets[i+1]
	}
	p.mu.Unlock()

	if end < start {
 return nil, fmt.Errorf("corrupt line index: end %d < start %d", end, start)
	}
	size := end - start
	if size > p.maxLineSize {
 size = p.maxLineSize
 end = start + size
	}

	buf := make([]byte, size)
	n, err := p.file.ReadAt(buf, start)
	if err != nil && n == 0 {
 return nil, err
	}
	buf = buf[:n]
	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	return buf, nil
}

// Close deletes the scratch file. Safe to call once the preview is no
// longer referenced by either the Model or the Engine (
// "Cyclic references").
func (p *StreamingPreview) Close() error {
	var merr *multierror.Error
	merr = multierror.Append(merr, p.file.Close())
	merr = multierror.Append(merr, os.Remove(p.path))
	return merr.ErrorOrNil()
}
