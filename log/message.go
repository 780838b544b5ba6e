package log

import (
	"encoding/json"
	"fmt"
	"time"
)

// RequestMessage logs one dispatch of a work item by the request engine.
type RequestMessage struct {
	Op string `json:"op"`
	Bucket string `json:"bucket"`
	Key string `json:"key,omitempty"`
	Attempt int `json:"attempt"`
	Elapsed time.Duration `json:"-"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

func (m RequestMessage) String() string {
	if m.Key == "" {
 return fmt.Sprintf("%-18s bucket=%s attempt=%d %v", m.Op, m.Bucket, m.Attempt, m.Elapsed)
	}
	return fmt.Sprintf("%-18s bucket=%s key=%s attempt=%d %v", m.Op, m.Bucket, m.Key, m.Attempt, m.Elapsed)
}

func (m RequestMessage) JSON() string {
	m.ElapsedMS = m.Elapsed.Milliseconds()
	b, _ := json.Marshal(m)
	return string(b)
}

// RedirectMessage logs a PermanentRedirect region-discovery retry.
type RedirectMessage struct {
	Bucket string `json:"bucket"`
	OldRegion string `json:"old_region"`
	NewRegion string `json:"new_region"`
}

func (m RedirectMessage) String() string {
	return fmt.Sprintf("redirect bucket=%s %s -> %s", m.Bucket, m.OldRegion, m.NewRegion)
}

func (m RedirectMessage) JSON() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// PreviewMessage logs a streaming preview status transition.
type PreviewMessage struct {
	Bucket string `json:"bucket"`
	Key string `json:"key"`
	Status string `json:"status"`
	Bytes int64 `json:"bytes"`
}

func (m PreviewMessage) String() string {
	return fmt.Sprintf("preview bucket=%s key=%s status=%s bytes=%d", m.Bucket, m.Key, m.Status, m.Bytes)
}

func (m PreviewMessage) JSON() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// ErrorMessage wraps an arbitrary engine/model error for logging.
type ErrorMessage struct {
	Op string `json:"op"`
	Bucket string `json:"bucket"`
	Key string `json:"key,omitempty"`
	Err error `json:"-"`
}

func (m ErrorMessage) String() string {
	if m.Key == "" {
 return fmt.Sprintf("%-18s bucket=%s: %v", m.Op, m.Bucket, m.Err)
	}
	return fmt.Sprintf("%-18s bucket=%s key=%s: %v", m.Op, m.Bucket, m.Key, m.Err)
}

func (m ErrorMessage) JSON() string {
	type wire struct {
 Op string `json:"op"`
 Bucket string `json:"bucket"`
 Key string `json:"key,omitempty"`
 Error string `json:"error"`
	}
	b, _ := json.Marshal(wire{m.Op, m.Bucket, m.Key, m.Err.Error()})
	return string(b)
}
