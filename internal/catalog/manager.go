package catalog

import (
	"slices"
	"sync"

	"github.com/dshills/colorname/internal/color"
	"github.com/dshills/colorname/internal/finder"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/metrics"
	"github.com/dshills/colorname/internal/namesearch"
	"github.com/dshills/colorname/internal/vptree"
)

// Manager owns every catalog in the process. It is safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	slots map[string]*slot

	log        *logging.Logger
	metrics    *metrics.Metrics
	finderOpts []finder.Option
	treeOpts   []vptree.Option
	searchOpts namesearch.Options
}

// slot serializes builds of one catalog name.
type slot struct {
	mu  sync.Mutex
	cat *Catalog
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithMetrics sets the metrics sink shared by every catalog.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithFinderOptions adds options applied to every finder.
func WithFinderOptions(opts ...finder.Option) Option {
	return func(m *Manager) {
		m.finderOpts = append(m.finderOpts, opts...)
	}
}

// WithTreeOptions adds options applied to every spatial index. Builds of
// different catalogs may run concurrently, so a vptree.WithRand source
// passed here is only safe when builds are sequential.
func WithTreeOptions(opts ...vptree.Option) Option {
	return func(m *Manager) {
		m.treeOpts = append(m.treeOpts, opts...)
	}
}

// WithSearchOptions sets the name search options.
func WithSearchOptions(opts namesearch.Options) Option {
	return func(m *Manager) {
		m.searchOpts = opts
	}
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		slots:      make(map[string]*slot),
		searchOpts: namesearch.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithComponent("catalog")
	return m
}

// Build parses entries and builds the catalog called name. If a catalog
// with that name already exists it is returned unchanged and entries are
// ignored. A failed build leaves nothing behind.
func (m *Manager) Build(name string, entries []Entry) (*Catalog, error) {
	m.mu.Lock()
	s, ok := m.slots[name]
	if !ok {
		s = &slot{}
		m.slots[name] = s
	}
	m.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat != nil {
		return s.cat, nil
	}

	cat, err := m.build(name, entries)
	if err != nil {
		m.log.Error("building catalog %q: %v", name, err)
		return nil, err
	}
	s.cat = cat
	return cat, nil
}

// MustBuild is like Build but panics on error.
func (m *Manager) MustBuild(name string, entries []Entry) *Catalog {
	cat, err := m.Build(name, entries)
	if err != nil {
		panic(err)
	}
	return cat
}

func (m *Manager) build(name string, entries []Entry) (*Catalog, error) {
	timer := metrics.StartTimer()

	if len(entries) == 0 {
		return nil, ErrCatalogEmpty
	}

	owned := slices.Clone(entries)
	colors := make([]color.Parsed, len(owned))
	names := make([]string, len(owned))
	for i, e := range owned {
		p, err := color.Parse(e.Hex)
		if err != nil {
			return nil, &EntryError{Catalog: name, Index: i, Name: e.Name, Err: err}
		}
		colors[i] = p
		names[i] = e.Name
	}

	tree := finder.NewTree(colors, m.treeOpts...)

	log := m.log.WithField("catalog", name)
	opts := append(slices.Clone(m.finderOpts), finder.WithLogger(log), finder.WithMetrics(m.metrics))

	repeatable, err := finder.New(tree, finder.Repeatable, opts...)
	if err != nil {
		return nil, err
	}
	unique, err := finder.New(tree, finder.Unique, opts...)
	if err != nil {
		return nil, err
	}

	log.Info("built %d colors, index depth %d, in %s", len(owned), tree.Depth(), timer.Elapsed())

	return &Catalog{
		name:       name,
		entries:    owned,
		colors:     colors,
		repeatable: repeatable,
		unique:     unique,
		names:      namesearch.New(names, m.searchOpts),
		log:        log,
		metrics:    m.metrics,
	}, nil
}

// Catalog returns the built catalog called name.
func (m *Manager) Catalog(name string) (*Catalog, error) {
	m.mu.Lock()
	s, ok := m.slots[name]
	m.mu.Unlock()
	if !ok {
		return nil, unknownCatalog(name)
	}

	s.mu.Lock()
	cat := s.cat
	s.mu.Unlock()
	if cat == nil {
		return nil, unknownCatalog(name)
	}
	return cat, nil
}

// Names returns the names of all built catalogs, sorted.
func (m *Manager) Names() []string {
	m.mu.Lock()
	candidates := make([]*slot, 0, len(m.slots))
	keys := make([]string, 0, len(m.slots))
	for name, s := range m.slots {
		keys = append(keys, name)
		candidates = append(candidates, s)
	}
	m.mu.Unlock()

	names := make([]string, 0, len(keys))
	for i, s := range candidates {
		s.mu.Lock()
		if s.cat != nil {
			names = append(names, keys[i])
		}
		s.mu.Unlock()
	}
	slices.Sort(names)
	return names
}

// NamesForValues names each hex value against catalog name, preserving
// input order. See Catalog.NamesForValues and Catalog.UniqueNamesForValues
// for the repeatable and unique policies.
func (m *Manager) NamesForValues(name string, hexValues []string, unique bool) ([]Match, error) {
	cat, err := m.Catalog(name)
	if err != nil {
		return nil, err
	}
	if unique {
		return cat.UniqueNamesForValues(hexValues)
	}
	return cat.NamesForValues(hexValues), nil
}

// SearchByName searches entry names of catalog name.
func (m *Manager) SearchByName(name, query string, maxResults int) ([]color.Hydrated, error) {
	cat, err := m.Catalog(name)
	if err != nil {
		return nil, err
	}
	return cat.SearchByName(query, maxResults), nil
}

// AvailableCount returns the number of colors catalog name can still
// return in the given mode. See Catalog.AvailableCount: unique batches do
// not consume the shared pool, so the unique count equals the catalog size
// between requests.
func (m *Manager) AvailableCount(name string, unique bool) (int, error) {
	cat, err := m.Catalog(name)
	if err != nil {
		return 0, err
	}
	return cat.AvailableCount(unique), nil
}
