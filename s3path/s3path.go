// Package s3path implements the s3:// URL grammar the browser model
// navigates with:, "s3://[bucket[/prefix]]".
//
// Adapted from the teacher's bucket/key URL type (peak-s5cmd's legacy
// url.S3Url / objurl.ObjectURL), trimmed to the subset this browser needs:
// no globs, no local filesystem paths, no versioning — just bucket+prefix
// navigation.
package s3path

import "strings"

// Path is a parsed s3:// location. Bucket == "" means "at root" (i.e. the
// bucket list itself).
type Path struct {
	Bucket string
	Prefix string
}

// String renders the canonical s3://bucket/prefix form.
func (p Path) String() string {
	if p.Bucket == "" {
 return "s3://"
	}
	if p.Prefix == "" {
 return "s3://" + p.Bucket
	}
	return "s3://" + p.Bucket + "/" + p.Prefix
}

// IsRoot reports whether this path addresses the bucket list.
func (p Path) IsRoot() bool {
	return p.Bucket == ""
}

// IsBucketRoot reports whether this path addresses a bucket's top level.
func (p Path) IsBucketRoot() bool {
	return p.Bucket != "" && p.Prefix == ""
}

// Parent returns the path one level up: the enclosing folder for an
// object/folder (the bucket root for a top-level one), the overall root for
// a bucket root. Calling Parent on the root returns the root unchanged.
func (p Path) Parent() Path {
	if p.IsRoot() {
 return p
	}
	if p.Prefix == "" {
 return Path{}
	}
	trimmed := strings.TrimSuffix(p.Prefix, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
 return Path{Bucket: p.Bucket}
	}
	return Path{Bucket: p.Bucket, Prefix: trimmed[:idx+1]}
}

// Join appends a child segment (folder prefix or object key) to p.
func (p Path) Join(name string) Path {
	if p.Bucket == "" {
 return Path{Bucket: name}
	}
	return Path{Bucket: p.Bucket, Prefix: p.Prefix + name}
}

// DisplayName is the last non-empty path segment, used as the object/folder
// label in listings — "display_name is the last path segment".
func DisplayName(key string) string {
	trimmed := strings.TrimSuffix(key, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
 return trimmed
	}
	return trimmed[idx+1:]
}

// Parse parses an s3:// location: a leading "s3://" or "s3:"
// is tolerated (and optional — a bare "bucket/prefix" parses the same way),
// and an empty bucket means root.
func Parse(s string) Path {
	rest := s
	switch {
	case strings.HasPrefix(rest, "s3://"):
 rest = rest[len("s3://"):]
	case strings.HasPrefix(rest, "s3:"):
 rest = rest[len("s3:"):]
	}
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
 return Path{}
	}

	bucket, prefix, found := strings.Cut(rest, "/")
	if !found {
 return Path{Bucket: bucket}
	}
	return Path{Bucket: bucket, Prefix: prefix}
}
