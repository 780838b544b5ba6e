package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/s3nav/s3nav/errorsx"
	"github.com/s3nav/s3nav/event"
	"github.com/s3nav/s3nav/s3path"
	"github.com/s3nav/s3nav/xmlutil"
)

// parseS3Error looks for an <Error>...</Error> body "Error
// responses use <Error><Code/><Message/>[<Endpoint/>]</Error>". A body
// without an <Error> block is not an S3 application error.
func parseS3Error(body []byte) (*errorsx.S3Error, bool) {
	block, ok := xmlutil.TagContent(string(body), "Error")
	if !ok {
 return nil, false
	}
	code, _ := xmlutil.TagContent(block, "Code")
	message, _ := xmlutil.TagContent(block, "Message")
	endpoint, _ := xmlutil.TagContent(block, "Endpoint")
	if code == "" {
 return nil, false
	}
	return &errorsx.S3Error{Code: code, Message: message, Endpoint: endpoint}, true
}

// parseListBuckets parses a ListBuckets response body
func parseListBuckets(body []byte) []event.Bucket {
	var buckets []event.Bucket
	for _, block := range xmlutil.AllBlocks(string(body), "Bucket") {
 name, _ := xmlutil.TagContent(block, "Name")
 createdStr, _ := xmlutil.TagContent(block, "CreationDate")
 created, _ := time.Parse(time.RFC3339, createdStr)
 buckets = append(buckets, event.Bucket{Name: name, Created: created})
	}
	return buckets
}

// listObjectsResult is the parsed form of a ListObjectsV2 response body
//
type listObjectsResult struct {
	Objects []event.Object
	Truncated bool
	NextToken string
}

func parseListObjectsV2(body []byte) listObjectsResult {
	s := string(body)
	var result listObjectsResult

	for _, block := range xmlutil.AllBlocks(s, "CommonPrefixes") {
 prefix, ok := xmlutil.TagContent(block, "Prefix")
 if !ok || prefix == "" {
 continue
 }
 result.Objects = append(result.Objects, event.Object{
 Key: prefix,
 DisplayName: s3path.DisplayName(prefix),
 IsFolder: true,
 })
	}

	for _, block := range xmlutil.AllBlocks(s, "Contents") {
 key, _ := xmlutil.TagContent(block, "Key")
 if key == "" || strings.HasSuffix(key, "/") {
 continue
 }
 sizeStr, _ := xmlutil.TagContent(block, "Size")
 size, _ := strconv.ParseInt(sizeStr, 10, 64)
 modStr, _ := xmlutil.TagContent(block, "LastModified")
 modified, _ := time.Parse(time.RFC3339, modStr)
 result.Objects = append(result.Objects, event.Object{
 Key: key,
 DisplayName: s3path.DisplayName(key),
 Size: size,
 LastModified: modified,
 })
	}

	if truncatedStr, ok := xmlutil.TagContent(s, "IsTruncated"); ok {
 result.Truncated = truncatedStr == "true"
	}
	result.NextToken, _ = xmlutil.TagContent(s, "NextContinuationToken")

	return result
}

// parseContentRange recovers the total object size from a
// "Content-Range: bytes X-Y/T" header value
// GetObjectRange.
func parseContentRange(headerValue string) (total int64, ok bool) {
	idx := strings.LastIndex(headerValue, "/")
	if idx < 0 || idx == len(headerValue)-1 {
 return 0, false
	}
	n, err := strconv.ParseInt(headerValue[idx+1:], 10, 64)
	if err != nil {
 return 0, false
	}
	return n, true
}
