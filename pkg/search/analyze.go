package search

import (
	"context"
	"runtime"
	"slices"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/neighbor"
)

// Diagnostics summarizes how far a word reaches into its component.
type Diagnostics struct {
	Root dictionary.WordIndex
	// Reached counts the words connected to Root, Root included.
	Reached int
	// Eccentricity is the greatest shortest-path distance from Root.
	Eccentricity int
	// Farthest lists the words at that distance, ascending, and PathCounts
	// the number of shortest paths to each.
	Farthest   []dictionary.WordIndex
	PathCounts []int
}

// explore advances a graph from root until nothing new is reachable.
func explore(ctx context.Context, idx neighbor.Index, root dictionary.WordIndex) (*Graph, error) {
	g := NewGraph(root, runtime.GOMAXPROCS(0))
	for {
		ok, err := g.Advance(ctx, idx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return g, nil
		}
	}
}

// Reachable returns every word connected to root, root included, ascending.
func Reachable(ctx context.Context, idx neighbor.Index, root dictionary.WordIndex) ([]dictionary.WordIndex, error) {
	g, err := explore(ctx, idx, root)
	if err != nil {
		return nil, err
	}
	out := make([]dictionary.WordIndex, 0, g.SearchedSize()+g.OuterSize())
	for w := range g.searched {
		out = append(out, w)
	}
	for w := range g.outer {
		out = append(out, w)
	}
	slices.Sort(out)
	return out, nil
}

// Eccentricity runs a full search from root and reports its farthest words.
// An isolated word has eccentricity 0 and is its own farthest word.
func Eccentricity(ctx context.Context, idx neighbor.Index, root dictionary.WordIndex) (Diagnostics, error) {
	g, err := explore(ctx, idx, root)
	if err != nil {
		return Diagnostics{}, err
	}

	d := Diagnostics{
		Root:         root,
		Reached:      g.SearchedSize() + g.OuterSize(),
		Eccentricity: g.Depth(),
		Farthest:     g.Outer(),
	}
	d.PathCounts = make([]int, len(d.Farthest))
	for i, w := range d.Farthest {
		d.PathCounts[i] = g.CountPathsTo(w)
	}
	return d, nil
}
