package engine

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"time"

	"github.com/s3nav/s3nav/errorsx"
	"github.com/s3nav/s3nav/event"
)

// dispatchListBuckets implements ListBuckets has no bucket
// scope, so there is no per-bucket redirect recovery: it signs once against
// the profile's region (or custom endpoint) and reports whatever comes
// back.
func (e *Engine) dispatchListBuckets(item *event.WorkItem) {
	start := time.Now()
	region := e.profile.EffectiveRegion()

	host, path := buildHostPath(e.profile, region, "", "")
	signed := e.sign("GET", host, path, "", region)
	req, err := signedRequest("GET", signed, nil)
	if err != nil {
 e.emit(event.BucketsError{Message: err.Error()})
 return
	}

	resp, err := e.httpClient.Do(req)
	e.logRequest("ListBuckets", "", "", start, err)
	if err != nil {
 e.emit(event.BucketsError{Message: err.Error()})
 return
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
 e.emit(event.BucketsError{Message: err.Error()})
 return
	}

	if s3err, ok := parseS3Error(body); ok {
 e.emit(event.BucketsError{Message: s3err.Error()})
 return
	}
	if resp.StatusCode/100 != 2 {
 e.emit(event.BucketsError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)})
 return
	}
	e.emit(event.BucketsLoaded{Buckets: parseListBuckets(body)})
}

// dispatchListObjects implements
func (e *Engine) dispatchListObjects(item *event.WorkItem) {
	start := time.Now()

	send := func(region string) (*http.Response, error) {
 host, path := buildHostPath(e.profile, region, item.Bucket, "")
 query := buildListObjectsQuery(item.Prefix, item.ContinuationToken)
 signed := e.sign("GET", host, path, query, region)
 req, err := signedRequest("GET", signed, nil)
 if err != nil {
 return nil, err
 }
 return e.httpClient.Do(req)
	}

	resp, body, err := e.executeWithRedirect("ListObjects", item.Bucket, "", send)
	e.logRequest("ListObjects", item.Bucket, "", start, err)
	if err != nil {
 e.emit(event.ObjectsError{Bucket: item.Bucket, Prefix: item.Prefix, Message: err.Error()})
 return
	}
	if s3err, ok := parseS3Error(body); ok {
 e.emit(event.ObjectsError{Bucket: item.Bucket, Prefix: item.Prefix, Message: s3err.Error()})
 return
	}
	if resp.StatusCode/100 != 2 {
 e.emit(event.ObjectsError{Bucket: item.Bucket, Prefix: item.Prefix, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)})
 return
	}

	result := parseListObjectsV2(body)
	e.emit(event.ObjectsLoaded{
 Bucket: item.Bucket,
 Prefix: item.Prefix,
 ContinuationToken: item.ContinuationToken,
 Objects: result.Objects,
 Truncated: result.Truncated,
 NextToken: result.NextToken,
	})
}

// dispatchGetObject implements the bounded-peek variant of
func (e *Engine) dispatchGetObject(item *event.WorkItem) {
	start := time.Now()

	send := func(region string) (*http.Response, error) {
 host, path := buildHostPath(e.profile, region, item.Bucket, item.Key)
 signed := e.sign("GET", host, path, "", region)
 extra := map[string]string{"Range": fmt.Sprintf("bytes=0-%d", item.MaxBytes-1)}
 req, err := signedRequest("GET", signed, extra)
 if err != nil {
 return nil, err
 }
 return e.httpClient.Do(req)
	}

	resp, body, err := e.executeWithRedirect("GetObject", item.Bucket, item.Key, send)
	e.logRequest("GetObject", item.Bucket, item.Key, start, err)
	if err != nil {
 e.emit(event.ObjectContentError{Bucket: item.Bucket, Key: item.Key, Message: err.Error()})
 return
	}
	if s3err, ok := parseS3Error(body); ok {
 if s3err.Code == "InvalidRange" {
 // Treated as an empty object, not an error
 e.emit(event.ObjectContentLoaded{Bucket: item.Bucket, Key: item.Key, Content: []byte{}})
 return
 }
 e.emit(event.ObjectContentError{Bucket: item.Bucket, Key: item.Key, Message: s3err.Error()})
 return
	}
	if resp.StatusCode/100 != 2 {
 e.emit(event.ObjectContentError{Bucket: item.Bucket, Key: item.Key, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)})
 return
	}
	e.emit(event.ObjectContentLoaded{Bucket: item.Bucket, Key: item.Key, Content: body})
}

// dispatchGetObjectRange implements the arbitrary-range variant of spec.md
// §4.3.6, recovering the total object size from Content-Range.
func (e *Engine) dispatchGetObjectRange(item *event.WorkItem) {
	start := time.Now()

	send := func(region string) (*http.Response, error) {
 host, path := buildHostPath(e.profile, region, item.Bucket, item.Key)
 signed := e.sign("GET", host, path, "", region)
 extra := map[string]string{"Range": fmt.Sprintf("bytes=%d-%d", item.Start, item.End)}
 req, err := signedRequest("GET", signed, extra)
 if err != nil {
 return nil, err
 }
 return e.httpClient.Do(req)
	}

	resp, body, err := e.executeWithRedirect("GetObjectRange", item.Bucket, item.Key, send)
	e.logRequest("GetObjectRange", item.Bucket, item.Key, start, err)
	if err != nil {
 e.emit(event.ObjectContentError{Bucket: item.Bucket, Key: item.Key, Message: err.Error()})
 return
	}
	if s3err, ok := parseS3Error(body); ok {
 if s3err.Code == "InvalidRange" {
 e.emit(event.ObjectContentLoaded{Bucket: item.Bucket, Key: item.Key, Content: []byte{}})
 return
 }
 e.emit(event.ObjectContentError{Bucket: item.Bucket, Key: item.Key, Message: s3err.Error()})
 return
	}
	if resp.StatusCode/100 != 2 {
 e.emit(event.ObjectContentError{Bucket: item.Bucket, Key: item.Key, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)})
 return
	}
	total, _ := parseContentRange(resp.Header.Get("Content-Range"))
	e.emit(event.ObjectContentLoaded{Bucket: item.Bucket, Key: item.Key, Content: body, TotalSize: total})
}

// executeWithRedirect resolves bucket's region, invokes send, and on a
// PermanentRedirect response recovers the real region (via recoverRegion,
// singleflight-deduplicated) and retries exactly once
// Successful responses (first attempt or retry) populate the region cache
// even when the region came from the profile default.
func (e *Engine) executeWithRedirect(op, bucket, key string, send func(region string) (*http.Response, error)) (*http.Response, []byte, error) {
	region := e.regionCache.Resolve(bucket, e.profile.EffectiveRegion())

	resp, body, err := readFully(op, bucket, key, send, region)
	if err != nil {
 return nil, nil, err
	}

	if s3err, ok := parseS3Error(body); ok && errorsx.IsPermanentRedirect(s3err) {
 newRegion := e.recoverRegion(bucket, s3err.Endpoint)
 if newRegion != region {
 e.logger.Info(logRedirect(bucket, region, newRegion))
 resp2, body2, err2 := readFully(op, bucket, key, send, newRegion)
 if err2 != nil {
 return nil, nil, err2
 }
 if resp2.StatusCode/100 == 2 {
 e.regionCache.Set(bucket, newRegion)
 }
 return resp2, body2, nil
 }
	} else if resp.StatusCode/100 == 2 {
 e.regionCache.Set(bucket, region)
	}

	return resp, body, nil
}

// readFully sends the request and drains its body, classifying any
// failure by errorsx.Kind so callers' emitted Message carries the
// operation and addressing that produced it rather than a bare
// *http.Client/io error string.
func readFully(op, bucket, key string, send func(string) (*http.Response, error), region string) (*http.Response, []byte, error) {
	resp, err := send(region)
	if err != nil {
 return nil, nil, &errorsx.Error{Kind: errorsx.KindTransport, Op: op, Bucket: bucket, Key: key, Err: err}
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
 return nil, nil, &errorsx.Error{Kind: errorsx.KindIO, Op: op, Bucket: bucket, Key: key, Err: err}
	}
	return resp, body, nil
}

// dispatchGetObjectStreaming implements streaming variant:
// read the body in chunks, emitting ObjectRangeLoaded whenever the pending
// buffer exceeds the profile's streaming chunk size, checking the cancel
// flag between chunks; only after the full body is accumulated is it
// checked for an embedded XML error, since an error body under a 2xx
// status is possible but rare.
func (e *Engine) dispatchGetObjectStreaming(item *event.WorkItem) {
	region := e.regionCache.Resolve(item.Bucket, e.profile.EffectiveRegion())
	e.streamOnce(item, region, false)
}

func (e *Engine) streamOnce(item *event.WorkItem, region string, retried bool) {
	start := time.Now()

	host, path := buildHostPath(e.profile, region, item.Bucket, item.Key)
	signed := e.sign("GET", host, path, "", region)
	extra := map[string]string{}
	if item.Start > 0 {
 extra["Range"] = fmt.Sprintf("bytes=%d-", item.Start)
	}
	req, err := signedRequest("GET", signed, extra)
	if err != nil {
 e.emit(event.ObjectRangeError{Bucket: item.Bucket, Key: item.Key, Message: err.Error()})
 return
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
 e.emit(event.ObjectRangeError{Bucket: item.Bucket, Key: item.Key, Message: err.Error()})
 return
	}
	defer resp.Body.Close()

	chunkSize := e.profile.StreamChunkSize
	if chunkSize <= 0 {
 chunkSize = 256 * 1024
	}

	var full bytes.Buffer
	var pending bytes.Buffer
	offset := item.Start
	buf := make([]byte, 32*1024)

	for {
 if item.Cancel.IsSet() {
 return
 }
 n, readErr := resp.Body.Read(buf)
 if n > 0 {
 full.Write(buf[:n])
 pending.Write(buf[:n])
 if int64(pending.Len()) >= chunkSize {
 data := append([]byte(nil), pending.Bytes()...)
 e.emit(event.ObjectRangeLoaded{Bucket: item.Bucket, Key: item.Key, Start: offset, Data: data})
 offset += int64(len(data))
 pending.Reset()
 }
 }
 if readErr == io.EOF {
 break
 }
 if readErr != nil {
 e.emit(event.ObjectRangeError{Bucket: item.Bucket, Key: item.Key, Message: readErr.Error()})
 return
 }
	}

	if resp.StatusCode/100 != 2 {
 if s3err, ok := parseS3Error(full.Bytes()); ok {
 if errorsx.IsPermanentRedirect(s3err) && !retried {
 newRegion := e.recoverRegion(item.Bucket, s3err.Endpoint)
 if newRegion != region {
 e.logger.Info(logRedirect(item.Bucket, region, newRegion))
 e.streamOnce(item, newRegion, true)
 return
 }
 }
 e.logRequest("GetObjectStreaming", item.Bucket, item.Key, start, s3err)
 e.emit(event.ObjectRangeError{Bucket: item.Bucket, Key: item.Key, Message: s3err.Error()})
 return
 }
 httpErr := fmt.Errorf("HTTP %d", resp.StatusCode)
 e.logRequest("GetObjectStreaming", item.Bucket, item.Key, start, httpErr)
 e.emit(event.ObjectRangeError{Bucket: item.Bucket, Key: item.Key, Message: httpErr.Error()})
 return
	}

	if s3err, ok := parseS3Error(full.Bytes()); ok {
 e.logRequest("GetObjectStreaming", item.Bucket, item.Key, start, s3err)
 e.emit(event.ObjectRangeError{Bucket: item.Bucket, Key: item.Key, Message: s3err.Error()})
 return
	}

	e.logRequest("GetObjectStreaming", item.Bucket, item.Key, start, nil)

	remaining := append([]byte(nil), pending.Bytes()...)
	e.emit(event.ObjectRangeLoaded{Bucket: item.Bucket, Key: item.Key, Start: offset, Data: remaining, Final: true})
	e.regionCache.Set(item.Bucket, region)
}

// buildListObjectsQuery builds the fixed-order ListObjectsV2 query string
//
func buildListObjectsQuery(prefix, continuationToken string) string {
	query := "list-type=2&delimiter=%2F&max-keys=1000"
	if prefix != "" {
 query += "&prefix=" + urlpkg.QueryEscape(prefix)
	}
	if continuationToken != "" {
 query += "&continuation-token=" + urlpkg.QueryEscape(continuationToken)
	}
	return query
}
