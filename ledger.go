package xloss

import (
	"maps"
	"slices"
	"sync"
)

// Snapshot is the cumulative bookkeeping of a page. Index i of every
// sequence describes the i-th successful injection.
type Snapshot struct {
	HTMLElements  []string            `json:"htmlElements" msgpack:"htmlElements"`
	CSSClass      []string            `json:"cssClass" msgpack:"cssClass"`
	CSSProperties []map[string]string `json:"cssProperties" msgpack:"cssProperties"`
	AllXElements  []string            `json:"allXelements" msgpack:"allXelements"`
	AllXContent   []string            `json:"allXContent" msgpack:"allXContent"`
}

// Len returns the number of recorded injections.
func (s Snapshot) Len() int { return len(s.HTMLElements) }

// Redacted returns s without the protected contents, for handing the
// snapshot to clients. AllXContent becomes an empty list.
func (s Snapshot) Redacted() Snapshot {
	s.AllXContent = []string{}
	return s
}

// entry is one injection's worth of bookkeeping.
type entry struct {
	id      Identifier
	css     string
	markup  string
	content string
}

// Ledger is the append-only log of injections. All sequences grow together
// under one lock, so they always have equal length.
type Ledger struct {
	mu   sync.RWMutex
	ids  map[Identifier]struct{}
	snap Snapshot
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{ids: make(map[Identifier]struct{})}
}

func (l *Ledger) record(e entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ids[e.id] = struct{}{}
	l.snap.HTMLElements = append(l.snap.HTMLElements, string(e.id))
	l.snap.CSSClass = append(l.snap.CSSClass, string(e.id))
	l.snap.CSSProperties = append(l.snap.CSSProperties, map[string]string{string(e.id): e.css})
	l.snap.AllXElements = append(l.snap.AllXElements, e.markup)
	l.snap.AllXContent = append(l.snap.AllXContent, e.content)
}

// Has reports whether id was recorded.
func (l *Ledger) Has(id Identifier) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

// Len returns the number of recorded injections.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.snap.HTMLElements)
}

// Snapshot returns a deep copy of the bookkeeping.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	props := make([]map[string]string, len(l.snap.CSSProperties))
	for i, m := range l.snap.CSSProperties {
		props[i] = maps.Clone(m)
	}
	return Snapshot{
		HTMLElements:  nonNil(slices.Clone(l.snap.HTMLElements)),
		CSSClass:      nonNil(slices.Clone(l.snap.CSSClass)),
		CSSProperties: props,
		AllXElements:  nonNil(slices.Clone(l.snap.AllXElements)),
		AllXContent:   nonNil(slices.Clone(l.snap.AllXContent)),
	}
}

// nonNil keeps empty sequences encoding as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
