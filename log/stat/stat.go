// Package stat collects per-operation success/error counters for the
// request engine. Collection is opt-in so a headless embedding of the
// engine pays nothing for it unless enabled.
package stat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"
)

const (
	totalCount = iota
	succCount
)

var (
	mu sync.Mutex
	enabled bool
	stats statistics
)

type statistics [2]syncMap

// Enable turns on statistics collection.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
	for i := range stats {
 stats[i] = syncMap{mapStrInt64: map[string]int64{}}
	}
}

type syncMap struct {
	sync.Mutex
	mapStrInt64 map[string]int64
}

func (s *syncMap) add(key string, val int64) {
	s.Lock()
	defer s.Unlock()
	s.mapStrInt64[key] += val
}

// Stat is a single operation's collected counters.
type Stat struct {
	Op string `json:"op"`
	SuccCount int64 `json:"success"`
	ErrorCount int64 `json:"error"`
}

// Record records one completed operation, successful iff err is nil.
func Record(op string, err error) {
	mu.Lock()
	on := enabled
	mu.Unlock()
	if !on {
 return
	}
	if err == nil {
 stats[succCount].add(op, 1)
	}
	stats[totalCount].add(op, 1)
}

// Stats implements log.Message so it can be emitted through the logger.
type Stats []Stat

func (s Stats) String() string {
	var b bytes.Buffer
	w := tabwriter.NewWriter(&b, 5, 0, 5, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "\n%s\t%s\t%s\t%s\t\n", "Operation", "Total", "Error", "Success")
	for _, st := range s {
 fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", st.Op, st.ErrorCount+st.SuccCount, st.ErrorCount, st.SuccCount)
	}
	w.Flush()
	return b.String()
}

func (s Stats) JSON() string {
	var sb strings.Builder
	for _, st := range s {
 b, _ := json.Marshal(st)
 sb.Write(b)
 sb.WriteByte('\n')
	}
	return sb.String()
}

// Snapshot returns the counters collected so far.
func Snapshot() Stats {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
 return Stats{}
	}
	result := make(Stats, 0, len(stats[totalCount].mapStrInt64))
	for op, total := range stats[totalCount].mapStrInt64 {
 succ := stats[succCount].mapStrInt64[op]
 result = append(result, Stat{Op: op, SuccCount: succ, ErrorCount: total - succ})
	}
	return result
}
