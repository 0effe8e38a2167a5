package neighbor

import (
	"slices"
	"time"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Cached stores the complete neighbor list of every word, computed once
// from an inner Index. Queries never recompute anything.
type Cached struct {
	inner Index
	lists [][]dictionary.WordIndex
	edges int
}

// NewCached precomputes every neighbor list of inner. Workers own disjoint
// ranges of the list table, so no locking is needed.
func NewCached(inner Index, workers int) (*Cached, error) {
	start := time.Now()
	n := inner.Store().Len()
	lists := make([][]dictionary.WordIndex, n)

	var g errgroup.Group
	g.SetLimit(max(1, workers))
	for _, part := range shards(n, max(1, workers)*4) {
		g.Go(func() error {
			for w := part[0]; w < part[1]; w++ {
				lists[w] = inner.Neighbors(dictionary.WordIndex(w))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	edges := 0
	for _, l := range lists {
		edges += len(l)
	}
	log.Debugf("Neighbor cache built from %s in %v: %d words, %d directed edges",
		inner.Kind(), time.Since(start), n, edges)
	return &Cached{inner: inner, lists: lists, edges: edges}, nil
}

// Neighbors returns the stored list. It is shared: callers must not modify it.
func (c *Cached) Neighbors(w dictionary.WordIndex) []dictionary.WordIndex {
	return c.lists[w]
}

func (c *Cached) AreNeighbors(a, b dictionary.WordIndex) bool {
	la, lb := c.lists[a], c.lists[b]
	if len(la) <= len(lb) {
		_, ok := slices.BinarySearch(la, b)
		return ok
	}
	_, ok := slices.BinarySearch(lb, a)
	return ok
}

func (c *Cached) Store() *dictionary.Store { return c.inner.Store() }

func (c *Cached) Kind() Kind { return KindCached }

// Inner returns the index the cache was computed from.
func (c *Cached) Inner() Index { return c.inner }

// Edges returns the number of directed neighbor links stored.
func (c *Cached) Edges() int { return c.edges }
