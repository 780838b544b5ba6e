package event

// Event is the tagged union the engine emits to the model, drained
// non-blockingly once per UI frame — Each variant carries
// full addressing (bucket, prefix, key, start byte) so events route
// without implicit context, and mismatched selection/bucket/key events can
// be applied to caches idempotently while being ignored for UI state.
type Event interface {
	isEvent()
}

// BucketsLoaded carries a successful ListBuckets response.
type BucketsLoaded struct {
	Buckets []Bucket
}

// BucketsError carries a failed ListBuckets response.
type BucketsError struct {
	Message string
}

// ObjectsLoaded carries a successful ListObjects(v2) page. ContinuationToken
// echoes the token from the originating WorkItem so the model can tell an
// initial page (empty token) from a continuation.
type ObjectsLoaded struct {
	Bucket string
	Prefix string
	ContinuationToken string
	Objects []Object
	Truncated bool
	NextToken string
}

// ObjectsError carries a failed ListObjects(v2) response.
type ObjectsError struct {
	Bucket string
	Prefix string
	Message string
}

// ObjectContentLoaded carries a complete (possibly range-limited) GetObject
// body.
type ObjectContentLoaded struct {
	Bucket string
	Key string
	Content []byte
	// TotalSize is recovered from a Content-Range response for
	// GetObjectRange requests; zero when not applicable.
	TotalSize int64
}

// ObjectContentError carries a failed GetObject/GetObjectRange response.
type ObjectContentError struct {
	Bucket string
	Key string
	Message string
}

// ObjectRangeLoaded carries one chunk of a GetObjectStreaming transfer.
type ObjectRangeLoaded struct {
	Bucket string
	Key string
	Start int64
	Data []byte
	Final bool
}

// ObjectRangeError carries a failed GetObjectStreaming transfer.
type ObjectRangeError struct {
	Bucket string
	Key string
	Message string
}

// PreviewProgress is an informational, non-addressing-critical progress
// signal a preview handle can emit for UI responsiveness; the engine itself
// never constructs this today but it is part of the protocol's surface for
// future decoders that want finer progress than ObjectRangeLoaded gives.
type PreviewProgress struct {
	Bucket string
	Key string
	BytesWritten int64
}

// PreviewError mirrors a StreamingPreview's terminal Error status into the
// event stream so the model can surface it without polling the preview.
type PreviewError struct {
	Bucket string
	Key string
	Message string
}

func (BucketsLoaded) isEvent() {}
func (BucketsError) isEvent() {}
func (ObjectsLoaded) isEvent() {}
func (ObjectsError) isEvent() {}
func (ObjectContentLoaded) isEvent() {}
func (ObjectContentError) isEvent() {}
func (ObjectRangeLoaded) isEvent() {}
func (ObjectRangeError) isEvent() {}
func (PreviewProgress) isEvent() {}
func (PreviewError) isEvent() {}
