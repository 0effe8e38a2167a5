/*
Package search finds every shortest word ladder between two dictionary
words.

A Graph is one breadth-first search side. It keeps, for every word it has
reached, the words of the previous layer that produced it, which is enough
to rebuild all shortest paths rather than one. Two Finder strategies drive
graphs over a neighbor.Index:

  - SingleSided grows one graph from the start word until the end word
    enters its outer layer.
  - DualSided grows a graph from each endpoint, always advancing the one
    with the smaller outer layer, and stitches paths through the words
    where the two outer layers first meet.

Both return the same set of paths, sorted and deduplicated.

	finder, _ := search.NewFinder(search.FinderDual, idx)
	paths, err := finder.FindPaths(ctx, start, end)
	if errors.Is(err, search.ErrNoPath) { ... }
*/
package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"github.com/charmbracelet/log"
)

var (
	ErrNoPath        = errors.New("search: no path")
	ErrUnknownFinder = errors.New("search: unknown finder")
)

// Finder returns all shortest paths from start to end, or ErrNoPath.
type Finder interface {
	FindPaths(ctx context.Context, start, end dictionary.WordIndex) ([]Path, error)
}

// FinderKind selects a Finder strategy.
type FinderKind int

const (
	FinderSingle FinderKind = iota
	FinderDual
)

func (k FinderKind) String() string {
	switch k {
	case FinderSingle:
		return "single"
	case FinderDual:
		return "dual"
	default:
		return fmt.Sprintf("FinderKind(%d)", int(k))
	}
}

// ParseFinderKind maps "single" or "dual" onto a FinderKind.
func ParseFinderKind(s string) (FinderKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "single-sided":
		return FinderSingle, nil
	case "dual", "dual-sided", "bidirectional":
		return FinderDual, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFinder, s)
	}
}

// Side tells which endpoint a graph grows from.
type Side string

const (
	SideStart Side = "start"
	SideEnd   Side = "end"
)

// LayerEvent describes one completed Advance.
type LayerEvent struct {
	Side     Side
	Depth    int
	Outer    int
	Searched int
	Elapsed  time.Duration
}

// Option configures a Finder.
type Option func(*options)

type options struct {
	maxDepth int
	workers  int
	observer func(LayerEvent)
}

// WithMaxDepth gives up with ErrNoPath once paths would need more than n
// edits. 0 means unbounded.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = max(0, n)
	}
}

// WithWorkers bounds the goroutines used per layer expansion.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(1, n)
	}
}

// WithObserver calls fn after every layer advance.
func WithObserver(fn func(LayerEvent)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

func newOptions(opts []Option) options {
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewFinder returns the finder of the given kind over idx.
func NewFinder(kind FinderKind, idx neighbor.Index, opts ...Option) (Finder, error) {
	switch kind {
	case FinderSingle:
		return NewSingleSided(idx, opts...), nil
	case FinderDual:
		return NewDualSided(idx, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFinder, kind)
	}
}

// advance runs one layer of g and reports it to the observer.
func (o *options) advance(ctx context.Context, idx neighbor.Index, g *Graph, side Side) (bool, error) {
	start := time.Now()
	ok, err := g.Advance(ctx, idx)
	if err != nil {
		return false, fmt.Errorf("search: %s side at depth %d: %w", side, g.Depth(), err)
	}
	if !ok {
		log.Debugf("%s side exhausted at depth %d (%d words searched)", side, g.Depth(), g.SearchedSize()+g.OuterSize())
		return false, nil
	}
	if o.observer != nil {
		o.observer(LayerEvent{
			Side:     side,
			Depth:    g.Depth(),
			Outer:    g.OuterSize(),
			Searched: g.SearchedSize(),
			Elapsed:  time.Since(start),
		})
	}
	return true, nil
}

func (o *options) depthExceeded(edits int) error {
	if o.maxDepth > 0 && edits >= o.maxDepth {
		return fmt.Errorf("%w within %d edits", ErrNoPath, o.maxDepth)
	}
	return nil
}

// SingleSided searches outward from the start word only.
type SingleSided struct {
	idx  neighbor.Index
	opts options
}

func NewSingleSided(idx neighbor.Index, opts ...Option) *SingleSided {
	return &SingleSided{idx: idx, opts: newOptions(opts)}
}

func (f *SingleSided) FindPaths(ctx context.Context, start, end dictionary.WordIndex) ([]Path, error) {
	if start == end {
		return []Path{{start}}, nil
	}

	g := NewGraph(start, f.opts.workers)
	for !g.OuterContains(end) {
		if err := f.opts.depthExceeded(g.Depth()); err != nil {
			return nil, err
		}
		ok, err := f.opts.advance(ctx, f.idx, g, SideStart)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNoPath
		}
	}
	return SortPaths(g.PathsBetween(start, end, false)), nil
}

// DualSided searches from both endpoints and meets in the middle.
type DualSided struct {
	idx  neighbor.Index
	opts options
}

func NewDualSided(idx neighbor.Index, opts ...Option) *DualSided {
	return &DualSided{idx: idx, opts: newOptions(opts)}
}

func (f *DualSided) FindPaths(ctx context.Context, start, end dictionary.WordIndex) ([]Path, error) {
	if start == end {
		return []Path{{start}}, nil
	}

	from := NewGraph(start, f.opts.workers)
	to := NewGraph(end, f.opts.workers)
	for {
		if err := f.opts.depthExceeded(from.Depth() + to.Depth()); err != nil {
			return nil, err
		}

		g, side := from, SideStart
		if to.OuterSize() < from.OuterSize() {
			g, side = to, SideEnd
		}
		ok, err := f.opts.advance(ctx, f.idx, g, side)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNoPath
		}

		if meet := from.OuterIntersection(to); len(meet) > 0 {
			log.Debugf("Frontiers met at depth %d+%d on %d words", from.Depth(), to.Depth(), len(meet))
			return stitch(from, to, meet), nil
		}
	}
}

// stitch joins every start-side path to every end-side path through each
// meeting word, which appears once in the result.
func stitch(from, to *Graph, meet []dictionary.WordIndex) []Path {
	var out []Path
	for _, m := range meet {
		heads := from.PathsBetween(from.Root(), m, false)
		tails := to.PathsBetween(to.Root(), m, true)
		for _, h := range heads {
			for _, t := range tails {
				p := make(Path, 0, len(h)+len(t)-1)
				p = append(p, h...)
				p = append(p, t[1:]...)
				out = append(out, p)
			}
		}
	}
	return SortPaths(out)
}

// FindWords resolves start and end in store, runs finder and returns the
// paths as words.
func FindWords(ctx context.Context, finder Finder, store *dictionary.Store, start, end string) ([][]string, error) {
	from, err := store.Index(start)
	if err != nil {
		return nil, fmt.Errorf("search: start word %q: %w", start, err)
	}
	to, err := store.Index(end)
	if err != nil {
		return nil, fmt.Errorf("search: end word %q: %w", end, err)
	}

	paths, err := finder.FindPaths(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = p.Words(store)
	}
	return out, nil
}
