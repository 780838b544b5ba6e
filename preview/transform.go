package preview

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Transform is the decompression contract: process is
// called with each newly-arrived raw chunk and returns newly-available
// decompressed bytes; finish is called once after the last chunk and
// returns any remaining tail. A closed variant type (identity/gzip/zstd) is
// used rather than open polymorphism "Dynamic dispatch"
// no plugin extensibility is required.
type Transform interface {
	Process(input []byte) ([]byte, error)
	Finish() ([]byte, error)
}

// Encoding picks the Transform implementation for an object.
type Encoding int

const (
	EncodingIdentity Encoding = iota
	EncodingGzip
	EncodingZstd
)

// gzipMagic and zstdMagic let DetectEncoding sniff an object's encoding
// from its first chunk; a magic match takes precedence over the key
// extension, and Content-Encoding is not consulted — supplementing, grounded on
// original_source/rust/src/streaming_preview.rs picking a decoder by magic
// bytes / extension rather than leaving dispatch unspecified.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// DetectEncoding sniffs the first chunk of an object for a known
// compression magic number, falling back to key-extension hints and
// finally Identity.
func DetectEncoding(key string, firstChunk []byte) Encoding {
	if bytes.HasPrefix(firstChunk, gzipMagic) {
 return EncodingGzip
	}
	if bytes.HasPrefix(firstChunk, zstdMagic) {
 return EncodingZstd
	}
	switch {
	case hasSuffixFold(key, ".gz"), hasSuffixFold(key, ".gzip"):
 return EncodingGzip
	case hasSuffixFold(key, ".zst"), hasSuffixFold(key, ".zstd"):
 return EncodingZstd
	default:
 return EncodingIdentity
	}
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
 return false
	}
	return bytes.EqualFold([]byte(s[len(s)-len(suffix):]), []byte(suffix))
}

// NewTransform constructs the Transform for an Encoding.
func NewTransform(enc Encoding) Transform {
	switch enc {
	case EncodingGzip:
 return &gzipTransform{}
	case EncodingZstd:
 return newZstdTransform()
	default:
 return identityTransform{}
	}
}

// identityTransform passes bytes through unchanged .
type identityTransform struct{}

func (identityTransform) Process(input []byte) ([]byte, error) { return input, nil }
func (identityTransform) Finish() ([]byte, error) { return nil, nil }

// gzipTransform re-decompresses its whole input buffer from scratch on
// every call and emits only the bytes beyond the previous high-water mark.
// This trades CPU for robustness against arbitrarily-sized chunks — spec.md
// §4.2 — including chunks that split the gzip header or footer.
type gzipTransform struct {
	raw []byte
	emitted int
}

func (t *gzipTransform) Process(input []byte) ([]byte, error) {
	t.raw = append(t.raw, input...)
	return t.decodeFromScratch(false)
}

func (t *gzipTransform) Finish() ([]byte, error) {
	return t.decodeFromScratch(true)
}

func (t *gzipTransform) decodeFromScratch(final bool) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(t.raw))
	if err != nil {
 // Too little data buffered yet to even see a gzip header. Only an
 // error at Finish, once no more bytes are coming.
 if final {
 return nil, err
 }
 return nil, nil
	}

	decoded, err := io.ReadAll(r)
	if err != nil {
 // A truncated member looks like io.ErrUnexpectedEOF while more
 // chunks are still arriving; that's expected mid-stream and only
 // a real failure once this was supposed to be the final call.
 if !final {
 err = nil
 }
	}

	if len(decoded) <= t.emitted {
 return nil, err
	}
	out := decoded[t.emitted:]
	t.emitted = len(decoded)
	return out, err
}

// zstdTransform is a true incremental streaming decoder, unlike the gzip
// transform's buffered redo — klauspost/compress/zstd only
// exposes a pull-based io.Reader, so raw chunks are fed through an io.Pipe
// and a background goroutine drains the decoder into an internal buffer;
// process rendezvouses with that goroutine once per call so it can
// return "everything decodable from what's been fed so far", matching the
// push-based Transform contract.
type zstdTransform struct {
	pw *io.PipeWriter
	ack chan error
	mu sync.Mutex
	out bytes.Buffer
}

// ackBuffer is sized generously so the drain goroutine never blocks trying
// to report a decode attempt: a single Process write can be consumed by
// several internal pr.Read calls before Write unblocks, and the drain
// loop must keep making progress through all of them without waiting for
// Process to catch up, or the pipe rendezvous deadlocks.
const ackBuffer = 1024

func newZstdTransform() *zstdTransform {
	pr, pw := io.Pipe()
	t := &zstdTransform{pw: pw, ack: make(chan error, ackBuffer)}
	go t.drain(pr)
	return t
}

func (t *zstdTransform) drain(pr *io.PipeReader) {
	dec, err := zstd.NewReader(pr)
	if err != nil {
 t.ack <- err
 return
	}
	defer dec.Close()

	buf := make([]byte, 32*1024)
	for {
 n, err := dec.Read(buf)
 if n > 0 {
 t.mu.Lock()
 t.out.Write(buf[:n])
 t.mu.Unlock()
 }
 if err != nil {
 if err == io.EOF {
 err = nil
 }
 t.ack <- err
 if err != nil {
 return
 }
 continue
 }
 // Read returned data with no error: the decoder drained what was
 // available from this Write and will block on the next pr.Read
 // until more is fed. Signal the caller it can collect output now.
 t.ack <- nil
	}
}

func (t *zstdTransform) Process(input []byte) ([]byte, error) {
	if len(input) == 0 {
 return nil, nil
	}
	if _, err := t.pw.Write(input); err != nil {
 return nil, err
	}
	err := t.collectAck()
	return t.take(), err
}

func (t *zstdTransform) Finish() ([]byte, error) {
	t.pw.Close()
	err := t.collectAck()
	return t.take(), err
}

// collectAck blocks for at least one decode attempt triggered by the write
// that just completed, then drains any further attempts already queued,
// keeping the last non-nil error.
func (t *zstdTransform) collectAck() error {
	err := <-t.ack
	for {
 select {
 case e := <-t.ack:
 if e != nil {
 err = e
 }
 default:
 return err
 }
	}
}

func (t *zstdTransform) take() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out.Len() == 0 {
 return nil
	}
	out := make([]byte, t.out.Len())
	copy(out, t.out.Bytes())
	t.out.Reset()
	return out
}
