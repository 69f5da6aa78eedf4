package finder

import (
	"github.com/google/uuid"

	"github.com/dshills/colorname/internal/color"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/metrics"
)

// Session tracks which catalog colors have been returned in one
// uniqueness scope, typically a single request. A Session is not safe for
// concurrent use; the index it searches is.
type Session struct {
	id      string
	tree    *Tree
	window  Window
	log     *logging.Logger
	metrics *metrics.Metrics
	used    map[int]struct{}
}

// NewSession returns an empty session sharing f's index and settings.
func (f *Finder) NewSession() *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		tree:    f.tree,
		window:  f.window,
		log:     f.log.WithField("session", id),
		metrics: f.metrics,
		used:    make(map[int]struct{}),
	}
}

// ID returns the session identifier used in log lines.
func (s *Session) ID() string {
	return s.id
}

// Available returns the number of colors the session has not returned yet.
func (s *Session) Available() int {
	return s.tree.Len() - len(s.used)
}

// Used returns the number of colors already returned.
func (s *Session) Used() int {
	return len(s.used)
}

// Reset forgets every returned color.
func (s *Session) Reset() {
	clear(s.used)
}

// Next returns the closest color to query that this session has not
// returned before and reserves it.
func (s *Session) Next(query color.Parsed) (Result, error) {
	total := s.tree.Len()
	if len(s.used) >= total {
		s.metrics.RecordExhaustion()
		s.log.Debug("exhausted after %d colors", total)
		return Result{}, newExhaustionError(0, total)
	}

	k := s.window.size(len(s.used), total)
	r, ok := s.scan(query, k)
	if !ok && k < total {
		// The window held only used colors; unused ones remain further out.
		s.metrics.RecordWidened()
		s.log.Debug("window of %d exhausted with %d/%d used, scanning all", k, len(s.used), total)
		r, ok = s.scan(query, total)
	}
	if !ok {
		s.metrics.RecordExhaustion()
		return Result{}, newExhaustionError(s.Available(), total)
	}

	s.used[r.Index] = struct{}{}
	s.metrics.RecordReservation()
	return r, nil
}

// scan returns the first unused color among the k nearest to query.
func (s *Session) scan(query color.Parsed, k int) (Result, bool) {
	timer := metrics.StartTimer()
	candidates := s.tree.Search(query, k)
	s.metrics.RecordSearch(timer.Elapsed())

	for _, nb := range candidates {
		if _, taken := s.used[nb.Index]; !taken {
			return Result{Index: nb.Index, Distance: nb.Distance}, true
		}
	}
	return Result{}, false
}
