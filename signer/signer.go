// Package signer implements AWS Signature Version 4 request signing for the
// S3 HTTP calls made by the request engine. It is deliberately independent
// of any AWS SDK: the engine builds its own requests and hands them here
// only for the (url, headers) pair SigV4 demands.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	urlpkg "net/url"
	"sort"
	"strings"
	"time"
)

// UnsignedPayload is the literal sentinel used as the payload hash for
// presigned URLs, where the body is never read by the signer.
const UnsignedPayload = "UNSIGNED-PAYLOAD"

const algorithm = "AWS4-HMAC-SHA256"

// Signed is the output of Sign: a ready-to-send URL plus the headers that
// must be attached to the request for it to validate.
type Signed struct {
	URL string
	Headers map[string]string
}

// Sign produces a SigV4-signed (url, headers) pair for one HTTP request.
// The timestamp is taken from time.Now; callers needing deterministic
// output (tests, §8 "Signer determinism") should use SignAt.
func Sign(method, host, path, query, region, service, accessKey, secretKey string, payload []byte, sessionToken string) Signed {
	return SignAt(time.Now().UTC(), method, host, path, query, region, service, accessKey, secretKey, payload, sessionToken)
}

// SignAt is Sign with an explicit timestamp.
func SignAt(now time.Time, method, host, path, query, region, service, accessKey, secretKey string, payload []byte, sessionToken string) Signed {
	timestamp := now.UTC().Format("20060102T150405Z")
	date := timestamp[:8]

	payloadHash := hexSHA256(payload)

	canonicalURI := canonicalPath(path)
	canonicalQuery := canonicalQueryString(query)

	headerNames, canonicalHeaders := canonicalHeaders(host, payloadHash, timestamp, sessionToken)

	canonicalRequest := strings.Join([]string{
 method,
 canonicalURI,
 canonicalQuery,
 canonicalHeaders,
 headerNames,
 payloadHash,
	}, "\n")

	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", date, region, service)
	stringToSign := strings.Join([]string{
 algorithm,
 timestamp,
 credentialScope,
 hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signingKey := signingKey(secretKey, date, region, service)
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	authorization := fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
 algorithm, accessKey, credentialScope, headerNames, signature)

	headers := map[string]string{
 "Host": host,
 "x-amz-date": timestamp,
 "x-amz-content-sha256": payloadHash,
 "Authorization": authorization,
	}
	if sessionToken != "" {
 headers["x-amz-security-token"] = sessionToken
	}

	url := fmt.Sprintf("https://%s%s", host, canonicalURI)
	if canonicalQuery != "" {
 url += "?" + canonicalQuery
	}

	return Signed{URL: url, Headers: headers}
}

// Presign produces a presigned GET URL valid for expires seconds, with all
// authentication carried in the query string
func Presign(host, path, region, accessKey, secretKey, sessionToken string, expires time.Duration) string {
	return PresignAt(time.Now().UTC(), host, path, region, accessKey, secretKey, sessionToken, expires)
}

// PresignAt is Presign with an explicit timestamp.
func PresignAt(now time.Time, host, path, region, accessKey, secretKey, sessionToken string, expires time.Duration) string {
	timestamp := now.UTC().Format("20060102T150405Z")
	date := timestamp[:8]

	credentialScope := fmt.Sprintf("%s/%s/s3/aws4_request", date, region)
	credential := fmt.Sprintf("%s/%s", accessKey, credentialScope)

	query := urlpkg.Values{}
	query.Set("X-Amz-Algorithm", algorithm)
	query.Set("X-Amz-Credential", credential)
	query.Set("X-Amz-Date", timestamp)
	query.Set("X-Amz-Expires", fmt.Sprintf("%d", int(expires.Seconds())))
	if sessionToken != "" {
 query.Set("X-Amz-Security-Token", sessionToken)
	}
	query.Set("X-Amz-SignedHeaders", "host")

	canonicalQuery := query.Encode()
	canonicalURI := canonicalPath(path)
	canonicalHeadersStr := fmt.Sprintf("host:%s\n", host)

	canonicalRequest := strings.Join([]string{
 "GET",
 canonicalURI,
 canonicalQuery,
 canonicalHeadersStr,
 "host",
 UnsignedPayload,
	}, "\n")

	stringToSign := strings.Join([]string{
 algorithm,
 timestamp,
 credentialScope,
 hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signingKey := signingKey(secretKey, date, region, "s3")
	signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

	return fmt.Sprintf("https://%s%s?%s&X-Amz-Signature=%s", host, canonicalURI, canonicalQuery, signature)
}

func signingKey(secretKey, date, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(date))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func canonicalPath(path string) string {
	if path == "" {
 return "/"
	}
	return encodePath(path)
}

// canonicalHeaders returns (signed-header-names, canonical-headers-block),
// always including host, x-amz-content-sha256, x-amz-date, and appending
// x-amz-security-token iff sessionToken is non-empty
func canonicalHeaders(host, payloadHash, timestamp, sessionToken string) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "host:%s\n", host)
	fmt.Fprintf(&b, "x-amz-content-sha256:%s\n", payloadHash)
	fmt.Fprintf(&b, "x-amz-date:%s\n", timestamp)

	names := "host;x-amz-content-sha256;x-amz-date"
	if sessionToken != "" {
 fmt.Fprintf(&b, "x-amz-security-token:%s\n", sessionToken)
 names += ";x-amz-security-token"
	}
	return names, b.String()
}

// canonicalQueryString splits query on '&', sorts lexicographically by the
// full "key=value" token, and rejoins with '&' — The tokens
// are assumed already percent-encoded by the caller (they come straight off
// a query string the engine built).
func canonicalQueryString(query string) string {
	if query == "" {
 return ""
	}
	params := strings.Split(query, "&")
	sort.Strings(params)
	return strings.Join(params, "&")
}
