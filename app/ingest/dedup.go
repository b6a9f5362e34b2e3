package ingest

import (
	"sync"
)

// Deduplicator tracks seen item ids per brand for the lifetime of one
// ingestion run, across all sub-sources, strategies and source adapters.
// Admit is an atomic check-and-record so parallel fan-out can never admit
// the same id twice.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]map[string]struct{}),
	}
}

// Admit records id for brand and returns true the first time the id is
// seen; false on every repeat.
func (d *Deduplicator) Admit(brandName, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids, ok := d.seen[brandName]
	if !ok {
		ids = make(map[string]struct{})
		d.seen[brandName] = ids
	}

	if _, dup := ids[id]; dup {
		return false
	}
	ids[id] = struct{}{}
	return true
}

// Count returns the number of admitted ids for a brand.
func (d *Deduplicator) Count(brandName string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen[brandName])
}
