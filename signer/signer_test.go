package signer

import (
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/s3nav/s3nav/profile"
)

var fixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestSignAtIsDeterministic(t *testing.T) {
	first := SignAt(fixedTime, "GET", "bucket.s3.us-east-1.amazonaws.com", "/key", "list-type=2", "us-east-1", "s3", "AKIDEXAMPLE", "secret", nil, "")
	second := SignAt(fixedTime, "GET", "bucket.s3.us-east-1.amazonaws.com", "/key", "list-type=2", "us-east-1", "s3", "AKIDEXAMPLE", "secret", nil, "")

	assert.Equal(t, first.URL, second.URL)
	assert.DeepEqual(t, first.Headers, second.Headers)
}

func TestSignAtIncludesSessionToken(t *testing.T) {
	signed := SignAt(fixedTime, "GET", "bucket.s3.us-east-1.amazonaws.com", "/", "", "us-east-1", "s3", "AKID", "secret", nil, "tok123")
	assert.Equal(t, signed.Headers["x-amz-security-token"], "tok123")
	assert.Assert(t, strings.Contains(signed.Headers["Authorization"], "x-amz-security-token"))
}

func TestSignAtOmitsSessionTokenWhenEmpty(t *testing.T) {
	signed := SignAt(fixedTime, "GET", "bucket.s3.us-east-1.amazonaws.com", "/", "", "us-east-1", "s3", "AKID", "secret", nil, "")
	_, ok := signed.Headers["x-amz-security-token"]
	assert.Assert(t, !ok)
}

func TestSignAtEmptyPathMapsToRoot(t *testing.T) {
	signed := SignAt(fixedTime, "GET", "s3.us-east-1.amazonaws.com", "", "", "us-east-1", "s3", "AKID", "secret", nil, "")
	assert.Equal(t, signed.URL, "https://s3.us-east-1.amazonaws.com/")
}

func TestSignAtPreservesSlashes(t *testing.T) {
	signed := SignAt(fixedTime, "GET", "bucket.s3.us-east-1.amazonaws.com", "/a/b/c key.txt", "", "us-east-1", "s3", "AKID", "secret", nil, "")
	assert.Equal(t, signed.URL, "https://bucket.s3.us-east-1.amazonaws.com/a/b/c%20key.txt")
}

// TestPresignUsesProfileExpiry locks down the wiring between
// profile.PresignExpiry and Presign's query-string expiry, the way
// TestSignAtIsDeterministic locks down SignAt: the produced URL carries
// the profile's default lifetime verbatim and shares the same structure
// (host-only signed headers, credential starting with the access key).
func TestPresignUsesProfileExpiry(t *testing.T) {
	first := Presign("bucket.s3.us-east-1.amazonaws.com", "/key.txt", "us-east-1", "AKIDEXAMPLE", "secret", "", profile.PresignExpiry)
	second := Presign("bucket.s3.us-east-1.amazonaws.com", "/key.txt", "us-east-1", "AKIDEXAMPLE", "secret", "", profile.PresignExpiry)

	assert.Assert(t, strings.Contains(first, "X-Amz-Expires=900"))
	assert.Assert(t, strings.Contains(second, "X-Amz-Expires=900"))
	assert.Assert(t, strings.Contains(first, "X-Amz-SignedHeaders=host"))
	assert.Assert(t, strings.Contains(first, "X-Amz-Credential=AKIDEXAMPLE%2F"))
}

func TestCanonicalQueryStringSortsTokens(t *testing.T) {
	got := canonicalQueryString("list-type=2&prefix=logs%2F&delimiter=%2F")
	assert.Equal(t, got, "delimiter=%2F&list-type=2&prefix=logs%2F")
}

func TestPresignAtPutsAuthInQuery(t *testing.T) {
	url := PresignAt(fixedTime, "bucket.s3.us-east-1.amazonaws.com", "/key.txt", "us-east-1", "AKID", "secret", "", 15*time.Minute)
	assert.Assert(t, strings.Contains(url, "X-Amz-Signature="))
	assert.Assert(t, strings.Contains(url, "X-Amz-SignedHeaders=host"))
	assert.Assert(t, strings.Contains(url, "X-Amz-Expires=900"))
}
