// Package finder answers "which catalog color is closest to this one".
//
// A Finder wraps one spatial index built over a catalog's colors and runs
// in one of two modes. Repeatable finders always return the nearest color
// and cache results by key in a bounded LRU. Unique finders never return
// the same catalog entry twice until their state is cleared.
//
// # Sessions
//
// Uniqueness is tracked by a Session. A Unique finder owns one shared
// session guarded by a mutex, so concurrent callers never interleave
// reservations; but every caller then shares one pool of colors. Callers
// that want "unique within my request" semantics should take their own
// session with NewSession, which shares only the immutable index.
package finder

import (
	"sync"

	"github.com/dshills/colorname/internal/color"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/lru"
	"github.com/dshills/colorname/internal/metrics"
	"github.com/dshills/colorname/internal/vptree"
)

// Mode selects how a Finder treats repeated lookups.
type Mode uint8

const (
	// Repeatable returns the nearest color every time.
	Repeatable Mode = iota
	// Unique returns each catalog color at most once per session.
	Unique
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Repeatable:
		return "repeatable"
	case Unique:
		return "unique"
	default:
		return "unknown"
	}
}

// Tree is the spatial index type finders search.
type Tree = vptree.Tree[color.Parsed]

// NewTree builds a spatial index over colors with the CIEDE2000 distance.
func NewTree(colors []color.Parsed, opts ...vptree.Option) *Tree {
	return vptree.New(colors, color.Distance, opts...)
}

// Result identifies the catalog entry chosen for a query.
type Result struct {
	// Index is the entry's offset in the catalog.
	Index int
	// Distance is the CIEDE2000 difference between query and entry.
	Distance float64
}

// DefaultCacheSize is the number of repeatable-mode results kept.
const DefaultCacheSize = 1000

// Window controls how many nearest candidates a unique lookup examines.
type Window struct {
	// Normal is the candidate count while most colors are still unused.
	Normal int
	// Wide is the candidate count once the used share exceeds WideThreshold.
	Wide int
	// WideThreshold is the used fraction, in [0, 1], that switches to Wide.
	WideThreshold float64
}

// DefaultWindow returns the standard candidate window.
func DefaultWindow() Window {
	return Window{Normal: 500, Wide: 2000, WideThreshold: 0.8}
}

// size returns the candidate count for a catalog of total colors with
// used already returned.
func (w Window) size(used, total int) int {
	k := w.Normal
	if total > 0 && float64(used)/float64(total) > w.WideThreshold {
		k = w.Wide
	}
	return max(1, min(k, total))
}

// Option configures a Finder.
type Option func(*Finder)

// WithCacheSize sets the repeatable-mode cache capacity.
func WithCacheSize(n int) Option {
	return func(f *Finder) {
		f.cacheSize = n
	}
}

// WithWindow sets the unique-mode candidate window.
func WithWindow(w Window) Option {
	return func(f *Finder) {
		f.window = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(f *Finder) {
		f.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Finder) {
		f.metrics = m
	}
}

// Finder finds the closest catalog color for a query.
type Finder struct {
	mode      Mode
	tree      *Tree
	window    Window
	cacheSize int
	log       *logging.Logger
	metrics   *metrics.Metrics

	// Repeatable mode.
	cache *lru.Cache[string, Result]

	// Unique mode.
	mu     sync.Mutex
	shared *Session
}

// New creates a finder over tree. The tree must not be empty.
func New(tree *Tree, mode Mode, opts ...Option) (*Finder, error) {
	if tree == nil || tree.Len() == 0 {
		return nil, ErrCatalogEmpty
	}

	f := &Finder{
		mode:      mode,
		tree:      tree,
		window:    DefaultWindow(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithComponent("finder").WithField("mode", mode)

	switch mode {
	case Repeatable:
		f.cache = lru.New[string, Result](f.cacheSize)
	case Unique:
		f.shared = f.NewSession()
	}
	return f, nil
}

// Mode returns the finder's mode.
func (f *Finder) Mode() Mode {
	return f.mode
}

// Tree returns the shared spatial index.
func (f *Finder) Tree() *Tree {
	return f.tree
}

// TotalCount returns the number of catalog colors.
func (f *Finder) TotalCount() int {
	return f.tree.Len()
}

// Get returns the catalog color chosen for query. In repeatable mode,
// cacheKey (or the query's canonical hex when empty) keys the result cache.
// In unique mode the key is ignored and an *ExhaustionError is returned
// once every color has been handed out.
func (f *Finder) Get(query color.Parsed, cacheKey string) (Result, error) {
	if f.mode == Unique {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.shared.Next(query)
	}

	key := cacheKey
	if key == "" {
		key = query.Key()
	}

	if r, ok := f.cache.Get(key); ok {
		f.metrics.RecordLookup(true)
		return r, nil
	}

	timer := metrics.StartTimer()
	nb, ok := f.tree.Nearest(query)
	f.metrics.RecordSearch(timer.Elapsed())
	if !ok {
		return Result{}, ErrCatalogEmpty
	}

	r := Result{Index: nb.Index, Distance: nb.Distance}
	f.cache.Set(key, r)
	f.metrics.RecordLookup(false)
	return r, nil
}

// ClearCache starts a fresh uniqueness session. When includeRepeatable is
// set the repeatable-mode result cache is emptied as well.
func (f *Finder) ClearCache(includeRepeatable bool) {
	if f.mode == Unique {
		f.mu.Lock()
		f.shared.Reset()
		f.mu.Unlock()
	}
	if includeRepeatable && f.cache != nil {
		f.cache.Clear()
	}
}

// AvailableCount returns how many colors Get can still return: the catalog
// size in repeatable mode, the unused count of the shared session in
// unique mode.
func (f *Finder) AvailableCount() int {
	if f.mode != Unique {
		return f.tree.Len()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shared.Available()
}

// CachedCount returns the number of cached repeatable-mode results.
func (f *Finder) CachedCount() int {
	if f.cache == nil {
		return 0
	}
	return f.cache.Len()
}
