package engine

import (
	"net/http"
	"strings"
	"time"

	"github.com/s3nav/s3nav/profile"
	"github.com/s3nav/s3nav/signer"
)

// newHTTPClient returns the one shared client every worker dispatches
// through — "Worker HTTP client", grounded on
// peak-s5cmd/storage/s3.go's newSession bounding MaxIdleConnsPerHost rather
// than leaving http.DefaultTransport's pool unbounded. No retry transport
// is installed: "Observed gap" leaves transient-error retry to
// the caller, and the only retry this engine performs is the one
// PermanentRedirect recovery in dispatch.go.
func newHTTPClient(maxIdleConnsPerHost int) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = maxIdleConnsPerHost
	return &http.Client{
 Transport: transport,
 Timeout: 60 * time.Second,
	}
}

// buildHostPath implements host/path construction: path
// style against a custom endpoint, virtual-hosted style against AWS.
// bucket == "" addresses the service root (ListBuckets).
func buildHostPath(prof *profile.Profile, region, bucket, key string) (host, path string) {
	if prof.EndpointURL != "" {
 host = stripEndpointScheme(prof.EndpointURL)
 switch {
 case bucket == "":
 path = "/"
 case key == "":
 path = "/" + bucket
 default:
 path = "/" + bucket + "/" + key
 }
 return host, path
	}

	if bucket == "" {
 return "s3." + region + ".amazonaws.com", "/"
	}
	host = bucket + ".s3." + region + ".amazonaws.com"
	if key == "" {
 path = "/"
	} else {
 path = "/" + key
	}
	return host, path
}

// stripEndpointScheme strips a leading scheme and any trailing path from a
// profile's endpoint_url, leaving a bare host — "strip
// scheme and trailing path".
func stripEndpointScheme(raw string) string {
	s := raw
	if idx := strings.Index(s, "://"); idx >= 0 {
 s = s[idx+3:]
	}
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
 s = s[:idx]
	}
	return s
}

// signedRequest builds a *http.Request for a signed S3 call, attaching any
// extra unsigned headers (e.g. Range) on top of the signer's output.
func signedRequest(method string, signed signer.Signed, extra map[string]string) (*http.Request, error) {
	req, err := http.NewRequest(method, signed.URL, nil)
	if err != nil {
 return nil, err
	}
	for k, v := range signed.Headers {
 req.Header.Set(k, v)
	}
	for k, v := range extra {
 req.Header.Set(k, v)
	}
	return req, nil
}
