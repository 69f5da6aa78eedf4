package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}

	s := m.Snapshot()
	if s.Lookups != 0 || s.Searches != 0 {
		t.Errorf("expected zero counters, got %+v", s)
	}
	if s.HitRate() != 0 {
		t.Errorf("expected 0 hit rate, got %f", s.HitRate())
	}
}

func TestMetrics_RecordLookup(t *testing.T) {
	m := New()

	m.RecordLookup(false)
	m.RecordLookup(true)
	m.RecordLookup(true)
	m.RecordLookup(true)

	s := m.Snapshot()
	if s.Lookups != 4 {
		t.Errorf("expected 4 lookups, got %d", s.Lookups)
	}
	if s.CacheHits != 3 || s.CacheMisses != 1 {
		t.Errorf("expected 3 hits / 1 miss, got %d / %d", s.CacheHits, s.CacheMisses)
	}
	if s.HitRate() != 75 {
		t.Errorf("expected 75%% hit rate, got %f", s.HitRate())
	}
}

func TestMetrics_RecordSearch(t *testing.T) {
	m := New()

	m.RecordSearch(2 * time.Millisecond)
	m.RecordSearch(4 * time.Millisecond)

	s := m.Snapshot()
	if s.Searches != 2 {
		t.Errorf("expected 2 searches, got %d", s.Searches)
	}
	if s.AvgSearchNs != int64(3*time.Millisecond) {
		t.Errorf("expected avg 3ms, got %d ns", s.AvgSearchNs)
	}
	if s.MaxSearchNs != int64(4*time.Millisecond) {
		t.Errorf("expected max 4ms, got %d ns", s.MaxSearchNs)
	}
}

func TestMetrics_UniqueCounters(t *testing.T) {
	m := New()

	m.RecordReservation()
	m.RecordReservation()
	m.RecordWidened()
	m.RecordExhaustion()
	m.RecordNameQuery()

	s := m.Snapshot()
	if s.Reservations != 2 || s.Widened != 1 || s.Exhaustions != 1 || s.NameQueries != 1 {
		t.Errorf("unexpected counters: %+v", s)
	}
}

func TestMetrics_Reset(t *testing.T) {
	m := New()
	m.RecordLookup(true)
	m.RecordSearch(time.Millisecond)
	m.Reset()

	s := m.Snapshot()
	if s.Lookups != 0 || s.Searches != 0 || s.MaxSearchNs != 0 {
		t.Errorf("expected counters cleared, got %+v", s)
	}
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.RecordLookup(true)
	m.RecordSearch(time.Second)
	m.Reset()
	if s := m.Snapshot(); s != (Snapshot{}) {
		t.Errorf("nil metrics should snapshot to zero, got %+v", s)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordLookup(j%2 == 0)
				m.RecordSearch(time.Duration(i*100+j) * time.Microsecond)
			}
		}(i)
	}
	wg.Wait()

	s := m.Snapshot()
	if s.Lookups != 800 || s.Searches != 800 {
		t.Errorf("expected 800 lookups and searches, got %d / %d", s.Lookups, s.Searches)
	}
	if s.MaxSearchNs != int64(799*time.Microsecond) {
		t.Errorf("expected max 799us, got %d ns", s.MaxSearchNs)
	}
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	if timer.Elapsed() < time.Millisecond {
		t.Errorf("expected at least 1ms elapsed, got %v", timer.Elapsed())
	}
}
