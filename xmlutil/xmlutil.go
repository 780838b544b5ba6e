// Package xmlutil implements the substring-based XML tag extraction the
// request engine uses to parse S3 responses — "the repository
// uses substring search rather than a real XML parser. This is sufficient
// for the schemas consumed but is brittle against unexpected whitespace in
// tag names." Tolerant of attributes on the opening tag; not tolerant of
// namespace-prefixed tag names, which the schemas this engine consumes
// don't use.
package xmlutil

import "strings"

// TagContent returns the text between the first <tag ...> and its matching
// </tag>, or ("", false) if tag doesn't appear.
func TagContent(s, tag string) (string, bool) {
	start, end, _, ok := findTag(s, tag, 0)
	if !ok {
 return "", false
	}
	return s[start:end], true
}

// AllBlocks returns the content of every non-overlapping <tag ...>...</tag>
// occurrence, in document order — used for repeated elements like
// <Contents> or <CommonPrefixes>.
func AllBlocks(s, tag string) []string {
	var out []string
	idx := 0
	for {
 start, end, next, ok := findTag(s, tag, idx)
 if !ok {
 break
 }
 out = append(out, s[start:end])
 idx = next
	}
	return out
}

// findTag locates the next <tag ...>...</tag> occurrence at or after from,
// returning the content's [start,end) and the index to resume scanning
// from for a subsequent call.
func findTag(s, tag string, from int) (start, end, next int, ok bool) {
	openRel := strings.Index(s[from:], "<"+tag)
	if openRel < 0 {
 return 0, 0, 0, false
	}
	open := from + openRel

	// Reject a match where "<tag" is actually a prefix of a longer tag
	// name (e.g. searching "Key" must not match "<KeyCount>").
	afterName := open + 1 + len(tag)
	if afterName >= len(s) {
 return 0, 0, 0, false
	}
	switch s[afterName] {
	case '>', ' ', '/', '\t', '\n', '\r':
	default:
 return findTag(s, tag, open+1)
	}

	gt := strings.IndexByte(s[open:], '>')
	if gt < 0 {
 return 0, 0, 0, false
	}
	contentStart := open + gt + 1

	closeTag := "</" + tag + ">"
	closeRel := strings.Index(s[contentStart:], closeTag)
	if closeRel < 0 {
 return 0, 0, 0, false
	}
	contentEnd := contentStart + closeRel

	return contentStart, contentEnd, contentEnd + len(closeTag), true
}
