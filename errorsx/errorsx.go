// Package errorsx implements the engine/model error kinds,
// adapted from peak-s5cmd's error/error.go Op/Src/Dst/Err wrapping struct
// (trimmed of its command-specific fields since there is no batch-mode
// command here, just an operation name and the bucket/key it touched).
package errorsx

import (
	"errors"
	"fmt"
)

// Kind classifies an error the way does, so callers can decide
// recoverability (e.g. InvalidRange is not really an error at all — the
// engine already maps it to an empty-content success before this package
// ever sees it).
type Kind int

const (
	KindTransport Kind = iota
	KindHTTP
	KindS3
	KindDecompression
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
 return "transport"
	case KindHTTP:
 return "http"
	case KindS3:
 return "s3"
	case KindDecompression:
 return "decompression"
	case KindIO:
 return "io"
	default:
 return "unknown"
	}
}

// Error wraps an underlying failure with the operation and addressing that
// produced it, mirroring peak-s5cmd's error.Error (Op/Src/Dst/Original)
// without the command-specific Src/Dst *objurl.ObjectURL fields.
type Error struct {
	Kind Kind
	Op string
	Bucket string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
 return fmt.Sprintf("%s bucket=%s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s bucket=%s key=%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// S3Error is an <Error><Code/><Message/></Error> body recovered from an S3
// response ( "S3 application errors").
type S3Error struct {
	Code string
	Message string
	Endpoint string
}

func (e *S3Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPermanentRedirect reports whether err is (or wraps) an S3 code of
// PermanentRedirect, the only code the engine retries automatically.
func IsPermanentRedirect(err error) bool {
	var s3err *S3Error
	return errors.As(err, &s3err) && s3err.Code == "PermanentRedirect"
}
