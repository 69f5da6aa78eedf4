// Package vptree implements a vantage-point tree for nearest-neighbor search
// over an arbitrary distance function.
//
// A Tree partitions its points by distance from a randomly chosen vantage
// point rather than by coordinate axes, so it works for any distance where
// nearby points have small values. The pruning rule assumes the triangle
// inequality; for distances that only approximate a metric (such as
// CIEDE2000) a search may occasionally miss a marginally closer point.
//
// Trees are immutable once New returns and are safe for concurrent searches
// without additional locking.
package vptree

import (
	"container/heap"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"
)

// DistanceFunc measures the distance from a to b. It must be deterministic
// and non-negative.
type DistanceFunc[T any] func(a, b T) float64

// Neighbor is a search result: the index of a point in the slice passed to
// New and its distance from the query.
type Neighbor struct {
	Index    int
	Distance float64
}

// node is one vantage point. Children are owned exclusively by their parent.
type node struct {
	index     int
	threshold float64
	left      *node // distance <= threshold
	right     *node // distance >= threshold
}

// Tree is an immutable vantage-point tree over a fixed set of points.
type Tree[T any] struct {
	items []T
	dist  DistanceFunc[T]
	root  *node

	searches atomic.Uint64
	visited  atomic.Uint64
}

// Option configures tree construction.
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand sets the random source used to pick vantage points, making
// construction reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// New builds a tree over items. The tree keeps a reference to items, which
// must not be modified afterwards; results refer to points by their index
// in items.
func New[T any](items []T, dist DistanceFunc[T], opts ...Option) *Tree[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tree[T]{items: items, dist: dist}
	if len(items) == 0 {
		return t
	}

	b := builder[T]{
		items:   items,
		dist:    dist,
		rng:     o.rng,
		scratch: make([]Neighbor, len(items)),
	}
	indices := make([]int, len(items))
	for i := range indices {
		indices[i] = i
	}
	t.root = b.build(indices)
	return t
}

type builder[T any] struct {
	items   []T
	dist    DistanceFunc[T]
	rng     *rand.Rand
	scratch []Neighbor
}

func (b *builder[T]) intN(n int) int {
	if b.rng != nil {
		return b.rng.IntN(n)
	}
	return rand.IntN(n)
}

// build consumes indices, reordering it in place.
func (b *builder[T]) build(indices []int) *node {
	if len(indices) == 0 {
		return nil
	}

	pick := b.intN(len(indices))
	indices[0], indices[pick] = indices[pick], indices[0]

	n := &node{index: indices[0]}
	rest := indices[1:]
	if len(rest) == 0 {
		return n
	}

	vp := b.items[n.index]
	byDist := b.scratch[:len(rest)]
	for i, idx := range rest {
		byDist[i] = Neighbor{Index: idx, Distance: b.dist(b.items[idx], vp)}
	}
	slices.SortFunc(byDist, compareNeighbors)

	// The median itself starts the outer half.
	median := len(byDist) / 2
	n.threshold = byDist[median].Distance
	for i := range byDist {
		rest[i] = byDist[i].Index
	}

	n.left = b.build(rest[:median])
	n.right = b.build(rest[median:])
	return n
}

func compareNeighbors(a, b Neighbor) int {
	switch {
	case a.Distance < b.Distance:
		return -1
	case a.Distance > b.Distance:
		return 1
	default:
		return 0
	}
}

// Len returns the number of points in the tree.
func (t *Tree[T]) Len() int {
	return len(t.items)
}

// Item returns the point stored at index i.
func (t *Tree[T]) Item(i int) T {
	return t.items[i]
}

// Depth returns the number of levels in the tree.
func (t *Tree[T]) Depth() int {
	return depth(t.root)
}

func depth(n *node) int {
	if n == nil {
		return 0
	}
	return 1 + max(depth(n.left), depth(n.right))
}

// Searches returns the number of searches run against the tree.
func (t *Tree[T]) Searches() uint64 {
	return t.searches.Load()
}

// Visited returns the total number of nodes examined by all searches.
func (t *Tree[T]) Visited() uint64 {
	return t.visited.Load()
}

// Search returns up to k points nearest to query, closest first.
// Points at equal distance may be returned in any order.
func (t *Tree[T]) Search(query T, k int) []Neighbor {
	t.searches.Add(1)
	if k <= 0 || t.root == nil {
		return nil
	}

	s := searcher[T]{
		tree:  t,
		query: query,
		k:     k,
		best:  make(neighborHeap, 0, min(k, len(t.items))),
	}
	s.visit(t.root)
	t.visited.Add(s.visited)

	out := make([]Neighbor, len(s.best))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&s.best).(Neighbor) //nolint:errcheck // heap only contains Neighbor
	}
	return out
}

// Nearest returns the single closest point to query.
// It reports false only for an empty tree.
func (t *Tree[T]) Nearest(query T) (Neighbor, bool) {
	res := t.Search(query, 1)
	if len(res) == 0 {
		return Neighbor{}, false
	}
	return res[0], true
}

type searcher[T any] struct {
	tree    *Tree[T]
	query   T
	k       int
	best    neighborHeap
	visited uint64
}

// tau is the distance of the worst point currently kept.
func (s *searcher[T]) tau() float64 {
	if len(s.best) < s.k {
		return math.Inf(1)
	}
	return s.best[0].Distance
}

func (s *searcher[T]) visit(n *node) {
	if n == nil {
		return
	}
	s.visited++

	d := s.tree.dist(s.query, s.tree.items[n.index])
	if len(s.best) < s.k {
		heap.Push(&s.best, Neighbor{Index: n.index, Distance: d})
	} else if d < s.best[0].Distance {
		s.best[0] = Neighbor{Index: n.index, Distance: d}
		heap.Fix(&s.best, 0)
	}

	if n.left == nil && n.right == nil {
		return
	}

	near, far := n.left, n.right
	if d >= n.threshold {
		near, far = n.right, n.left
	}

	s.visit(near)
	if math.Abs(d-n.threshold) < s.tau() {
		s.visit(far)
	}
}

// neighborHeap is a max-heap by distance: the root is the worst kept point.
type neighborHeap []Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *neighborHeap) Push(x any) {
	*h = append(*h, x.(Neighbor)) //nolint:errcheck // heap only contains Neighbor
}

func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
