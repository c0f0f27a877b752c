// Package stats counts how often each dictionary entry is matched during a
// classification pass, split by parent and macro level.
package stats

import (
	"sort"
	"sync"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// Entry is the usage count for one descriptor.
type Entry struct {
	Descriptor *tags.Descriptor
	Parent     int
	Macro      int
}

// Total returns parent plus macro counts.
func (e Entry) Total() int {
	return e.Parent + e.Macro
}

// Aggregator accumulates per-descriptor counts. It is safe for concurrent use.
type Aggregator struct {
	mu      sync.RWMutex
	entries map[tags.Key]*Entry
	total   int
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{entries: make(map[tags.Key]*Entry)}
}

// Record counts one match of desc at the given level. Nil descriptors are ignored.
func (a *Aggregator) Record(desc *tags.Descriptor, level rowtype.Level) {
	if desc == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	e, ok := a.entries[desc.Key]
	if !ok {
		e = &Entry{Descriptor: desc}
		a.entries[desc.Key] = e
	}
	if level == rowtype.LevelMacro {
		e.Macro++
	} else {
		e.Parent++
	}
	a.total++
}

// Reset clears every count.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = make(map[tags.Key]*Entry)
	a.total = 0
}

// Count returns the counts recorded for a key.
func (a *Aggregator) Count(k tags.Key) Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if e, ok := a.entries[k]; ok {
		return *e
	}
	return Entry{}
}

// Total returns the number of matches recorded.
func (a *Aggregator) Total() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.total
}

// Len returns the number of distinct descriptors seen.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Snapshot returns a copy of all entries sorted by descriptor key.
func (a *Aggregator) Snapshot() []Entry {
	a.mu.RLock()
	out := make([]Entry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, *e)
	}
	a.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor.Key.Less(out[j].Descriptor.Key)
	})
	return out
}

// ByDialect sums counts per dialect.
func (a *Aggregator) ByDialect() map[tags.Dialect]int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[tags.Dialect]int)
	for k, e := range a.entries {
		out[k.Dialect] += e.Total()
	}
	return out
}

// Top returns the n most used entries, ties broken by key order.
func (a *Aggregator) Top(n int) []Entry {
	snap := a.Snapshot()
	sort.SliceStable(snap, func(i, j int) bool {
		return snap[i].Total() > snap[j].Total()
	})
	if n > 0 && n < len(snap) {
		snap = snap[:n]
	}
	return snap
}

// Merge adds other's counts into a.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil || other == a {
		return
	}
	snap := other.Snapshot()

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, src := range snap {
		e, ok := a.entries[src.Descriptor.Key]
		if !ok {
			e = &Entry{Descriptor: src.Descriptor}
			a.entries[src.Descriptor.Key] = e
		}
		e.Parent += src.Parent
		e.Macro += src.Macro
		a.total += src.Total()
	}
}
