// Package namesearch finds catalog entries by name.
//
// Names and queries are compared after Unicode case folding and removal of
// combining marks, so "cafe" finds "Café Noir". A name containing the query
// scores a similarity of 1; other names are scored by edit distance and kept
// only above a minimum similarity. Results are ordered by similarity, then
// by name length in grapheme clusters, then by name.
package namesearch

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/colorname/internal/lru"
)

// Hit is one matching name.
type Hit struct {
	// Index is the name's position in the slice passed to New.
	Index int
	// Similarity is in (0, 1]; 1 means the name contains the query.
	Similarity float64
}

// Options configures an Index.
type Options struct {
	// MinSimilarity is the lowest edit-distance similarity kept.
	MinSimilarity float64

	// MaxResults is used when Search is called with a non-positive limit.
	MaxResults int

	// CacheSize is the number of query results kept. Zero disables caching.
	CacheSize int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		MinSimilarity: 0.6,
		MaxResults:    20,
		CacheSize:     256,
	}
}

// Index searches a fixed list of names. It is safe for concurrent use.
type Index struct {
	names   []string
	folded  []string
	runes   [][]rune
	lengths []int
	opts    Options
	cache   *lru.Cache[string, []Hit]
}

// New builds an index over names. The slice is not retained.
func New(names []string, opts Options) *Index {
	x := &Index{
		names:   slices.Clone(names),
		folded:  make([]string, len(names)),
		runes:   make([][]rune, len(names)),
		lengths: make([]int, len(names)),
		opts:    opts,
	}
	for i, name := range names {
		x.folded[i] = Normalize(name)
		x.runes[i] = []rune(x.folded[i])
		x.lengths[i] = uniseg.GraphemeClusterCount(name)
	}
	if opts.CacheSize > 0 {
		x.cache = lru.New[string, []Hit](opts.CacheSize)
	}
	return x
}

// Len returns the number of indexed names.
func (x *Index) Len() int {
	return len(x.names)
}

// Normalize folds case, strips combining marks and trims s.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.TrimSpace(cases.Fold().String(stripped))
}

// Search returns up to limit names matching query, best first.
func (x *Index) Search(query string, limit int) []Hit {
	if limit <= 0 {
		limit = x.opts.MaxResults
	}

	q := Normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}

	var hits []Hit
	if x.cache != nil {
		if cached, ok := x.cache.Get(q); ok {
			hits = cached
		}
	}
	if hits == nil {
		hits = x.match(q)
		if x.cache != nil {
			x.cache.Set(q, hits)
		}
	}

	if limit < len(hits) {
		hits = hits[:limit]
	}
	return slices.Clone(hits)
}

// match scores every name against the normalized query q.
func (x *Index) match(q string) []Hit {
	qr := []rune(q)
	hits := make([]Hit, 0)

	for i, name := range x.folded {
		if strings.Contains(name, q) {
			hits = append(hits, Hit{Index: i, Similarity: 1})
			continue
		}

		nr := x.runes[i]
		longest := max(len(nr), len(qr))
		if longest == 0 {
			continue
		}
		// Lengths alone can rule out a match.
		if float64(abs(len(nr)-len(qr)))/float64(longest) > 1-x.opts.MinSimilarity {
			continue
		}

		sim := 1 - float64(levenshtein(qr, nr))/float64(longest)
		if sim >= x.opts.MinSimilarity {
			hits = append(hits, Hit{Index: i, Similarity: sim})
		}
	}

	slices.SortFunc(hits, func(a, b Hit) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		if d := x.lengths[a.Index] - x.lengths[b.Index]; d != 0 {
			return d
		}
		return strings.Compare(x.names[a.Index], x.names[b.Index])
	})
	return hits
}

// levenshtein returns the edit distance between a and b.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
