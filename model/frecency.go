package model

import (
	"sort"
	"time"
)

// FrecencyEntry mirrors the PathEntry persisted by the (external) settings
// component — original_source/rust/src/settings.rs's PathEntry{path, score,
// last_accessed} — which folds into "Frecency entry".
type FrecencyEntry struct {
	Path string
	Score float64
	LastAccessed int64 // unix seconds
}

// frecencyStore is the model's per-profile, session-bounded frecency
// tracker — "Frecency entry... bounded to 500 entries, trimmed
// by score" and §4.4 "Frecency". now is injectable so tests get
// deterministic age weighting, the way igungor/gofakes3's TimeSource option
// (peak-s5cmd/e2e/s3_fake.go) makes bucket creation times deterministic for
// its own tests.
type frecencyStore struct {
	entries map[string]*FrecencyEntry
	maxSize int
	now func() time.Time
}

func newFrecencyStore(maxSize int) *frecencyStore {
	return &frecencyStore{
 entries: make(map[string]*FrecencyEntry),
 maxSize: maxSize,
 now: time.Now,
	}
}

// record increments path's score and refreshes its last-accessed time
// "For each navigation, update (path, score+1, now)".
func (f *frecencyStore) record(path string) {
	e, ok := f.entries[path]
	if !ok {
 e = &FrecencyEntry{Path: path}
 f.entries[path] = e
	}
	e.Score++
	e.LastAccessed = f.now().Unix()
	f.trim()
}

// trim drops the lowest-scored entries once the store exceeds maxSize
// "bounded to 500 entries, trimmed by score".
func (f *frecencyStore) trim() {
	if len(f.entries) <= f.maxSize {
 return
	}
	paths := make([]string, 0, len(f.entries))
	for p := range f.entries {
 paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
 return f.entries[paths[i]].Score < f.entries[paths[j]].Score
	})
	for _, p := range paths[:len(paths)-f.maxSize] {
 delete(f.entries, p)
	}
}

// ageWeight implements age-weight buckets: 1h/1d/1w
// thresholds map to 4/2/1, anything older to 0.5.
func ageWeight(lastAccessed, now int64) float64 {
	age := now - lastAccessed
	switch {
	case age <= 3600:
 return 4
	case age <= 86400:
 return 2
	case age <= 7*86400:
 return 1
	default:
 return 0.5
	}
}

// top returns up to n paths ranked by score*age_weight, descending
//, §8 "Frecency ordering".
func (f *frecencyStore) top(n int) []string {
	now := f.now().Unix()
	type weighted struct {
 path string
 weight float64
	}
	list := make([]weighted, 0, len(f.entries))
	for _, e := range f.entries {
 list = append(list, weighted{e.Path, e.Score * ageWeight(e.LastAccessed, now)})
	}
	sort.SliceStable(list, func(i, j int) bool {
 return list[i].weight > list[j].weight
	})
	if n > len(list) {
 n = len(list)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
 out[i] = list[i].path
	}
	return out
}

func (f *frecencyStore) clear() {
	f.entries = make(map[string]*FrecencyEntry)
}
