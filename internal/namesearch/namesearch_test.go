package namesearch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(x *Index, hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = x.names[h.Index]
	}
	return out
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Café Noir", "cafe noir"},
		{"  RED ", "red"},
		{"Ångström Blue", "angstrom blue"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchSubstringOrdering(t *testing.T) {
	x := New([]string{"Dark Red", "Red", "Indian Red", "Blue", "Redwood"}, DefaultOptions())

	got := names(x, x.Search("red", 10))
	want := []string{"Red", "Redwood", "Dark Red", "Indian Red"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search(red) mismatch (-want +got):\n%s", diff)
	}
	for _, h := range x.Search("red", 10) {
		if h.Similarity != 1 {
			t.Errorf("substring hit %q has similarity %f", x.names[h.Index], h.Similarity)
		}
	}
}

func TestSearchFuzzyFallback(t *testing.T) {
	x := New([]string{"Turquoise", "Tan", "Teal"}, DefaultOptions())

	hits := x.Search("turqoise", 10)
	if len(hits) != 1 || x.names[hits[0].Index] != "Turquoise" {
		t.Fatalf("expected Turquoise via edit distance, got %v", names(x, hits))
	}
	if hits[0].Similarity >= 1 || hits[0].Similarity < 0.6 {
		t.Errorf("unexpected similarity %f", hits[0].Similarity)
	}

	if hits := x.Search("zzzzzz", 10); len(hits) != 0 {
		t.Errorf("expected no hits, got %v", names(x, hits))
	}
}

func TestSearchSubstringBeatsFuzzy(t *testing.T) {
	x := New([]string{"Gray", "Grey Blue", "Gravel"}, DefaultOptions())

	got := names(x, x.Search("grey", 10))
	if len(got) < 2 || got[0] != "Grey Blue" || got[1] != "Gray" {
		t.Errorf("expected substring match before fuzzy match, got %v", got)
	}
}

func TestSearchDiacritics(t *testing.T) {
	x := New([]string{"Café Noir", "Coffee"}, DefaultOptions())

	got := names(x, x.Search("CAFE", 5))
	if len(got) == 0 || got[0] != "Café Noir" {
		t.Errorf("expected Café Noir, got %v", got)
	}
}

func TestSearchLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxResults = 2
	x := New([]string{"Red 1", "Red 2", "Red 3", "Red 4"}, opts)

	if got := len(x.Search("red", 3)); got != 3 {
		t.Errorf("explicit limit: got %d hits, want 3", got)
	}
	if got := len(x.Search("red", 0)); got != 2 {
		t.Errorf("default limit: got %d hits, want 2", got)
	}
	if hits := x.Search("   ", 5); hits != nil {
		t.Errorf("blank query should return nil, got %v", hits)
	}
}

func TestSearchCacheReturnsCopies(t *testing.T) {
	x := New([]string{"Red", "Dark Red"}, DefaultOptions())

	first := x.Search("red", 10)
	first[0].Index = 99

	second := x.Search("red", 10)
	if second[0].Index == 99 {
		t.Error("cached hits were modified through a returned slice")
	}
}

func TestSearchGraphemeLength(t *testing.T) {
	// The flag is four runes but a single grapheme.
	x := New([]string{"Rose XY", "Rose 🏳️‍🌈"}, DefaultOptions())

	got := names(x, x.Search("rose", 10))
	want := []string{"Rose 🏳️‍🌈", "Rose XY"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grapheme ordering mismatch (-want +got):\n%s", diff)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"grün", "grun", 1},
	}
	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
