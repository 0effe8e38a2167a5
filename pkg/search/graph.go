package search

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the frontier size below which a layer is expanded
// on the calling goroutine.
const parallelThreshold = 64

// excluder is implemented by indexes that can drop visited words while
// collecting neighbors (neighbor.Wildcard).
type excluder interface {
	NeighborsExcluding(w dictionary.WordIndex, skip func(dictionary.WordIndex) bool) []dictionary.WordIndex
}

// Graph is one side of a breadth-first search. Every reached word maps to
// the words of the previous layer that produced it; the root maps to an
// empty list. outer holds the layer not yet expanded, searched every layer
// before it.
type Graph struct {
	root     dictionary.WordIndex
	outer    map[dictionary.WordIndex][]dictionary.WordIndex
	searched map[dictionary.WordIndex][]dictionary.WordIndex
	depth    int
	workers  int

	exhausted bool
}

// NewGraph starts a search at root. workers bounds the goroutines used to
// expand large layers; values below 2 keep expansion serial.
func NewGraph(root dictionary.WordIndex, workers int) *Graph {
	g := &Graph{
		outer:    make(map[dictionary.WordIndex][]dictionary.WordIndex),
		searched: make(map[dictionary.WordIndex][]dictionary.WordIndex),
		workers:  max(1, workers),
	}
	g.Reset(root)
	return g
}

// Reset empties the graph and restarts it at root, keeping the allocated maps.
func (g *Graph) Reset(root dictionary.WordIndex) {
	clear(g.outer)
	clear(g.searched)
	g.root = root
	g.outer[root] = []dictionary.WordIndex{}
	g.depth = 0
	g.exhausted = false
}

// Advance expands the outer layer by one edit. Neighbors already reached in
// any layer, the current one included, are discarded; every survivor
// records all outer words that produced it. It returns false when no new
// word is reachable, in which case the outer layer is left as it was.
func (g *Graph) Advance(ctx context.Context, idx neighbor.Index) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.exhausted {
		return false, nil
	}

	words := g.Outer()
	found, err := g.expand(ctx, idx, words)
	if err != nil {
		return false, err
	}

	next := make(map[dictionary.WordIndex][]dictionary.WordIndex)
	for i, w := range words {
		for _, n := range found[i] {
			if g.reached(n) {
				continue
			}
			// words is ascending, so predecessor lists stay sorted.
			next[n] = append(next[n], w)
		}
	}
	if len(next) == 0 {
		g.exhausted = true
		return false, nil
	}

	maps.Copy(g.searched, g.outer)
	g.outer = next
	g.depth++
	return true, nil
}

// expand looks up the neighbors of every word, found[i] belonging to words[i].
// The graph is only read here.
func (g *Graph) expand(ctx context.Context, idx neighbor.Index, words []dictionary.WordIndex) ([][]dictionary.WordIndex, error) {
	lookup := idx.Neighbors
	if ex, ok := idx.(excluder); ok {
		lookup = func(w dictionary.WordIndex) []dictionary.WordIndex {
			return ex.NeighborsExcluding(w, g.reached)
		}
	}

	found := make([][]dictionary.WordIndex, len(words))
	if g.workers < 2 || len(words) < parallelThreshold {
		for i, w := range words {
			found[i] = lookup(w)
		}
		return found, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	size := (len(words) + g.workers*4 - 1) / (g.workers * 4)
	for lo := 0; lo < len(words); lo += size {
		hi := min(lo+size, len(words))
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				found[i] = lookup(words[i])
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

func (g *Graph) reached(w dictionary.WordIndex) bool {
	if _, ok := g.outer[w]; ok {
		return true
	}
	_, ok := g.searched[w]
	return ok
}

// predecessors returns the layer-below words of w. Asking for a word the
// graph never reached is a logic error.
func (g *Graph) predecessors(w dictionary.WordIndex) []dictionary.WordIndex {
	if p, ok := g.searched[w]; ok {
		return p
	}
	if p, ok := g.outer[w]; ok {
		return p
	}
	panic(fmt.Sprintf("search: word %d was never reached from root %d", w, g.root))
}

// PathsBetween rebuilds every shortest path between root and target, which
// must be the graph's root or a word of the outer layer. Paths run from
// root to target, or from target to root when reversed is set.
func (g *Graph) PathsBetween(root, target dictionary.WordIndex, reversed bool) []Path {
	if root != g.root {
		panic(fmt.Sprintf("search: graph is rooted at %d, not %d", g.root, root))
	}
	if target == root {
		return []Path{{root}}
	}
	if _, ok := g.outer[target]; !ok {
		panic(fmt.Sprintf("search: word %d is not in the outer layer", target))
	}

	var paths []Path
	chain := make(Path, 0, g.depth+1)
	var walk func(w dictionary.WordIndex)
	walk = func(w dictionary.WordIndex) {
		chain = append(chain, w)
		if w == root {
			p := slices.Clone(chain)
			if !reversed {
				slices.Reverse(p)
			}
			paths = append(paths, p)
		} else {
			for _, pred := range g.predecessors(w) {
				walk(pred)
			}
		}
		chain = chain[:len(chain)-1]
	}
	walk(target)
	return paths
}

// CountPathsTo returns the number of shortest paths from the root to
// target without enumerating them, or 0 if target was never reached.
func (g *Graph) CountPathsTo(target dictionary.WordIndex) int {
	if !g.reached(target) {
		return 0
	}
	memo := map[dictionary.WordIndex]int{g.root: 1}
	var count func(w dictionary.WordIndex) int
	count = func(w dictionary.WordIndex) int {
		if n, ok := memo[w]; ok {
			return n
		}
		n := 0
		for _, p := range g.predecessors(w) {
			n += count(p)
		}
		memo[w] = n
		return n
	}
	return count(target)
}

// OuterContains reports whether w is in the outer layer.
func (g *Graph) OuterContains(w dictionary.WordIndex) bool {
	_, ok := g.outer[w]
	return ok
}

// OuterIntersection returns the words present in both outer layers, ascending.
func (g *Graph) OuterIntersection(other *Graph) []dictionary.WordIndex {
	small, large := g.outer, other.outer
	if len(large) < len(small) {
		small, large = large, small
	}
	var out []dictionary.WordIndex
	for w := range small {
		if _, ok := large[w]; ok {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return out
}

// Outer returns the outer layer, ascending.
func (g *Graph) Outer() []dictionary.WordIndex {
	return slices.Sorted(maps.Keys(g.outer))
}

func (g *Graph) OuterSize() int { return len(g.outer) }

func (g *Graph) SearchedSize() int { return len(g.searched) }

// Depth is the distance in edits from the root to the outer layer.
func (g *Graph) Depth() int { return g.depth }

func (g *Graph) Root() dictionary.WordIndex { return g.root }

// Exhausted reports whether the last Advance found nothing new.
func (g *Graph) Exhausted() bool { return g.exhausted }
