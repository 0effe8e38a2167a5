/*
Package neighbor answers "which dictionary words are one edit away from W".

Three strategies implement the Index capability and trade memory, build
time and per-query cost:

  - Lazy scans the words whose length differs by at most one and tests the
    adjacency predicate directly. No precomputation.
  - Wildcard precomputes the wildcard pattern buckets of the whole
    dictionary once; a query unions the buckets of the word's own patterns.
  - Cached wraps another Index and stores every neighbor list up front, so
    a query is a slice lookup.

Every Index is built completely by its constructor and is read-only
afterwards, so one Index can serve any number of concurrent searches.

	idx, err := neighbor.New(neighbor.KindWildcard, store, neighbor.WithWorkers(4))
	for _, n := range idx.Neighbors(i) { ... }
*/
package neighbor

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// Sentinel errors for index construction.
var (
	ErrUnknownKind      = errors.New("neighbor: unknown index kind")
	ErrMalformedTable   = errors.New("neighbor: malformed wildcard table")
	ErrTableUnsupported = errors.New("neighbor: index kind cannot load a wildcard table")
)

// Index answers adjacency queries over a fixed dictionary.
type Index interface {
	// Neighbors returns the words one edit away from w, ascending, never
	// including w. Isolated words yield an empty slice.
	Neighbors(w dictionary.WordIndex) []dictionary.WordIndex

	// AreNeighbors reports whether a and b are one edit apart.
	AreNeighbors(a, b dictionary.WordIndex) bool

	// Store returns the dictionary the index was built over.
	Store() *dictionary.Store

	// Kind names the strategy.
	Kind() Kind
}

// Kind selects a neighbor strategy.
type Kind int

const (
	KindLazy Kind = iota
	KindWildcard
	KindCached
)

func (k Kind) String() string {
	switch k {
	case KindLazy:
		return "lazy"
	case KindWildcard:
		return "wildcard"
	case KindCached:
		return "cache"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a flag or config value onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lazy":
		return KindLazy, nil
	case "wildcard", "wild":
		return KindWildcard, nil
	case "cache", "cached":
		return KindCached, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Option configures index construction.
type Option func(*options)

type options struct {
	workers int
	table   io.Reader
	base    Kind
}

// WithWorkers bounds the goroutines used while building. n < 1 means serial.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(1, n)
	}
}

// WithTable builds the wildcard buckets from an exported table instead of
// generating them. Only the wildcard and cache kinds accept it.
func WithTable(r io.Reader) Option {
	return func(o *options) {
		o.table = r
	}
}

// WithCacheBase picks the strategy a Cached index precomputes from.
// Defaults to KindWildcard.
func WithCacheBase(k Kind) Option {
	return func(o *options) {
		o.base = k
	}
}

func defaultOptions() options {
	return options{
		workers: runtime.GOMAXPROCS(0),
		base:    KindWildcard,
	}
}

// New builds the index of the given kind over store.
func New(kind Kind, store *dictionary.Store, opts ...Option) (Index, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch kind {
	case KindLazy:
		if o.table != nil {
			return nil, fmt.Errorf("%w: %s", ErrTableUnsupported, kind)
		}
		return NewLazy(store), nil
	case KindWildcard:
		return newWildcard(store, o)
	case KindCached:
		if o.base == KindCached {
			return nil, fmt.Errorf("%w: cache cannot wrap itself", ErrUnknownKind)
		}
		inner, err := New(o.base, store, func(in *options) { *in = o })
		if err != nil {
			return nil, err
		}
		return NewCached(inner, o.workers)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

func newWildcard(store *dictionary.Store, o options) (*Wildcard, error) {
	if o.table != nil {
		log.Debug("Loading wildcard buckets from table")
		return ReadTable(store, o.table)
	}
	return NewWildcard(store, o.workers)
}

// shards splits [0, n) into at most parts contiguous ranges.
func shards(n, parts int) [][2]int {
	parts = max(1, min(parts, n))
	size := (n + parts - 1) / parts
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}
