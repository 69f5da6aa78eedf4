// Package metrics tracks lookup counters for the color search core.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics tracks finder and index activity. The zero value is not usable;
// create one with New. A nil *Metrics ignores all records.
type Metrics struct {
	// Finder lookups
	lookups     atomic.Uint64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Unique mode
	reservations atomic.Uint64
	exhaustions  atomic.Uint64
	widened      atomic.Uint64

	// Tree searches
	searches      atomic.Uint64
	searchTotalNs atomic.Int64
	searchMaxNs   atomic.Int64

	// Name search
	nameQueries atomic.Uint64

	startTime time.Time
}

// New creates a new metrics tracker.
func New() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordLookup records a finder lookup; hit reports whether it was
// served from the repeatable-mode cache.
func (m *Metrics) RecordLookup(hit bool) {
	if m == nil {
		return
	}
	m.lookups.Add(1)
	if hit {
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
}

// RecordReservation records a unique-mode entry handed out.
func (m *Metrics) RecordReservation() {
	if m == nil {
		return
	}
	m.reservations.Add(1)
}

// RecordExhaustion records a unique-mode lookup that found nothing left.
func (m *Metrics) RecordExhaustion() {
	if m == nil {
		return
	}
	m.exhaustions.Add(1)
}

// RecordWidened records a unique-mode lookup that fell back to a full scan.
func (m *Metrics) RecordWidened() {
	if m == nil {
		return
	}
	m.widened.Add(1)
}

// RecordSearch records one spatial index query.
func (m *Metrics) RecordSearch(duration time.Duration) {
	if m == nil {
		return
	}
	ns := duration.Nanoseconds()
	m.searches.Add(1)
	m.searchTotalNs.Add(ns)

	for {
		old := m.searchMaxNs.Load()
		if ns <= old {
			break
		}
		if m.searchMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordNameQuery records a name search.
func (m *Metrics) RecordNameQuery() {
	if m == nil {
		return
	}
	m.nameQueries.Add(1)
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	searches := m.searches.Load()

	var avg int64
	if searches > 0 {
		avg = m.searchTotalNs.Load() / int64(searches)
	}

	return Snapshot{
		Uptime:       time.Since(m.startTime),
		Lookups:      m.lookups.Load(),
		CacheHits:    m.cacheHits.Load(),
		CacheMisses:  m.cacheMisses.Load(),
		Reservations: m.reservations.Load(),
		Exhaustions:  m.exhaustions.Load(),
		Widened:      m.widened.Load(),
		Searches:     searches,
		AvgSearchNs:  avg,
		MaxSearchNs:  m.searchMaxNs.Load(),
		NameQueries:  m.nameQueries.Load(),
	}
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.lookups.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.reservations.Store(0)
	m.exhaustions.Store(0)
	m.widened.Store(0)
	m.searches.Store(0)
	m.searchTotalNs.Store(0)
	m.searchMaxNs.Store(0)
	m.nameQueries.Store(0)
	m.startTime = time.Now()
}

// Snapshot is a point-in-time view of metrics.
type Snapshot struct {
	Uptime       time.Duration
	Lookups      uint64
	CacheHits    uint64
	CacheMisses  uint64
	Reservations uint64
	Exhaustions  uint64
	Widened      uint64
	Searches     uint64
	AvgSearchNs  int64
	MaxSearchNs  int64
	NameQueries  uint64
}

// HitRate returns the percentage of lookups served from cache.
func (s Snapshot) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}

// Timer measures elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
