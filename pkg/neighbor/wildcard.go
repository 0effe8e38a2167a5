package neighbor

import (
	"slices"
	"time"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Wildcard groups words into buckets keyed by wildcard pattern. Buckets
// holding a single word can never produce a neighbor and are dropped.
type Wildcard struct {
	store   *dictionary.Store
	buckets map[string][]dictionary.WordIndex
}

// NewWildcard generates the buckets for every word in store. The word list
// is split into contiguous shards built concurrently and merged in shard
// order, which keeps every bucket sorted.
func NewWildcard(store *dictionary.Store, workers int) (*Wildcard, error) {
	start := time.Now()
	parts := shards(store.Len(), workers)
	locals := make([]map[string][]dictionary.WordIndex, len(parts))

	var g errgroup.Group
	for i, part := range parts {
		g.Go(func() error {
			local := make(map[string][]dictionary.WordIndex)
			var patterns []string
			for w := part[0]; w < part[1]; w++ {
				idx := dictionary.WordIndex(w)
				patterns = appendPatterns(patterns[:0], store.Word(idx))
				for _, p := range patterns {
					local[p] = append(local[p], idx)
				}
			}
			locals[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	buckets := locals[0]
	for _, local := range locals[1:] {
		for p, members := range local {
			buckets[p] = append(buckets[p], members...)
		}
	}
	generated := len(buckets)
	for p, members := range buckets {
		if len(members) < 2 {
			delete(buckets, p)
		}
	}

	log.Debugf("Wildcard index built in %v: %d buckets kept of %d (%d shards)",
		time.Since(start), len(buckets), generated, len(parts))
	return &Wildcard{store: store, buckets: buckets}, nil
}

func (wc *Wildcard) Neighbors(w dictionary.WordIndex) []dictionary.WordIndex {
	return wc.NeighborsExcluding(w, nil)
}

// NeighborsExcluding is Neighbors minus every word for which skip returns
// true. Searches pass their visited set here so already reached words are
// filtered while the buckets are walked.
func (wc *Wildcard) NeighborsExcluding(w dictionary.WordIndex, skip func(dictionary.WordIndex) bool) []dictionary.WordIndex {
	out := []dictionary.WordIndex{}
	for _, p := range Patterns(wc.store.Word(w)) {
		for _, n := range wc.buckets[p] {
			if n == w || (skip != nil && skip(n)) {
				continue
			}
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (wc *Wildcard) AreNeighbors(a, b dictionary.WordIndex) bool {
	wa, wb := wc.store.Word(a), wc.store.Word(b)
	if a == b || len(wa)-len(wb) > 1 || len(wb)-len(wa) > 1 {
		return false
	}
	for _, p := range Patterns(wa) {
		if _, ok := slices.BinarySearch(wc.buckets[p], b); ok {
			return true
		}
	}
	return false
}

func (wc *Wildcard) Store() *dictionary.Store { return wc.store }

func (wc *Wildcard) Kind() Kind { return KindWildcard }

// Buckets returns the number of patterns shared by at least two words.
func (wc *Wildcard) Buckets() int {
	return len(wc.buckets)
}

// Bucket returns a copy of the words sharing pattern.
func (wc *Wildcard) Bucket(pattern string) []dictionary.WordIndex {
	return slices.Clone(wc.buckets[pattern])
}
