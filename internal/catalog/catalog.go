// Package catalog owns the named color catalogs and answers the batch
// queries made against them.
//
// A catalog is built once per process: its entries are parsed, one spatial
// index is built over them, and a repeatable and a unique finder are
// created that share the index. Entry order, and so every index handed out,
// is fixed from then on.
package catalog

import (
	"errors"
	"fmt"

	"github.com/dshills/colorname/internal/color"
	"github.com/dshills/colorname/internal/finder"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/metrics"
	"github.com/dshills/colorname/internal/namesearch"
)

// Entry is one named color as loaded.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

// Match is the outcome for one value of a batch.
type Match struct {
	// Index is the catalog offset of the chosen entry, or -1 on error.
	Index int
	// Color is the hydrated entry.
	Color color.Hydrated
	// Err is set when this value could not be matched.
	Err error
}

// MatchNames returns the names of the successful matches, in order.
func MatchNames(matches []Match) []string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Err == nil {
			names = append(names, m.Color.Name)
		}
	}
	return names
}

// Catalog is a built, immutable color catalog.
type Catalog struct {
	name    string
	entries []Entry
	colors  []color.Parsed

	repeatable *finder.Finder
	unique     *finder.Finder
	names      *namesearch.Index

	log     *logging.Logger
	metrics *metrics.Metrics
}

// Name returns the catalog name.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entry returns the entry at index i.
func (c *Catalog) Entry(i int) Entry {
	return c.entries[i]
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Repeatable returns the catalog's repeatable finder.
func (c *Catalog) Repeatable() *finder.Finder {
	return c.repeatable
}

// Unique returns the catalog's shared unique finder.
func (c *Catalog) Unique() *finder.Finder {
	return c.unique
}

// NewSession returns a fresh uniqueness session over this catalog.
func (c *Catalog) NewSession() *finder.Session {
	return c.unique.NewSession()
}

// Hydrate returns the display form of entry i.
func (c *Catalog) Hydrate(i int) color.Hydrated {
	return color.Hydrate(c.entries[i].Name, c.colors[i])
}

// AvailableCount returns how many colors the repeatable finder (unique
// false) or the shared unique finder (unique true) can still return.
// Unique batches reserve from their own sessions, never from the shared
// finder, so between requests the unique count is Len unless a caller
// draws from Unique directly.
func (c *Catalog) AvailableCount(unique bool) int {
	if unique {
		return c.unique.AvailableCount()
	}
	return c.repeatable.AvailableCount()
}

// NamesForValues names every hex value with its nearest entry, preserving
// input order. Each value is matched independently and cached by its raw
// string; a malformed value sets that Match's Err and the rest of the batch
// proceeds.
func (c *Catalog) NamesForValues(hexValues []string) []Match {
	out := make([]Match, len(hexValues))
	for i, hex := range hexValues {
		p, err := color.Parse(hex)
		if err != nil {
			out[i] = Match{Index: -1, Err: err}
			continue
		}
		r, err := c.repeatable.Get(p, hex)
		if err != nil {
			out[i] = Match{Index: -1, Err: err}
			continue
		}
		out[i] = c.match(r, p)
	}
	return out
}

// UniqueNamesForValues names every hex value with no entry repeated. The
// batch runs in its own session, so concurrent batches never see each
// other's reservations. A malformed value fails the whole batch, and a batch
// larger than the catalog fails with *BatchExhaustionError instead of
// returning a short list.
func (c *Catalog) UniqueNamesForValues(hexValues []string) ([]Match, error) {
	session := c.unique.NewSession()
	log := c.log.WithField("session", session.ID())

	available := session.Available()
	if len(hexValues) > available {
		log.Debug("batch of %d exceeds %d colors", len(hexValues), available)
		c.metrics.RecordExhaustion()
		return nil, c.exhausted(len(hexValues), available)
	}

	out := make([]Match, len(hexValues))
	for i, hex := range hexValues {
		p, err := color.Parse(hex)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		r, err := session.Next(p)
		if err != nil {
			if errors.Is(err, finder.ErrColorsExhausted) {
				return nil, c.exhausted(len(hexValues), available)
			}
			return nil, err
		}
		out[i] = c.match(r, p)
	}
	log.Debug("served unique batch of %d", len(hexValues))
	return out, nil
}

func (c *Catalog) exhausted(requested, available int) *BatchExhaustionError {
	return &BatchExhaustionError{
		Catalog:        c.name,
		Requested:      requested,
		AvailableCount: available,
		TotalCount:     len(c.entries),
	}
}

func (c *Catalog) match(r finder.Result, query color.Parsed) Match {
	h := c.Hydrate(r.Index)
	h.RequestedHex = query.Hex()
	h.Distance = r.Distance
	return Match{Index: r.Index, Color: h}
}

// SearchByName returns up to maxResults entries whose names match query.
// A non-positive maxResults uses the configured default.
func (c *Catalog) SearchByName(query string, maxResults int) []color.Hydrated {
	c.metrics.RecordNameQuery()

	hits := c.names.Search(query, maxResults)
	out := make([]color.Hydrated, len(hits))
	for i, h := range hits {
		out[i] = c.Hydrate(h.Index)
	}
	return out
}
