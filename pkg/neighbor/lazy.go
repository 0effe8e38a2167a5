package neighbor

import (
	"github.com/bastiangx/wordladder/pkg/dictionary"
)

// Lazy computes neighbors on demand by scanning the length band around the
// query word. It costs nothing to build and O(band) per query.
type Lazy struct {
	store *dictionary.Store
}

// NewLazy returns a Lazy index over store.
func NewLazy(store *dictionary.Store) *Lazy {
	return &Lazy{store: store}
}

func (l *Lazy) Neighbors(w dictionary.WordIndex) []dictionary.WordIndex {
	word := l.store.Word(w)
	lo, hi := l.store.Range(len(word)-1, len(word)+1)

	out := []dictionary.WordIndex{}
	for i := lo; i < hi; i++ {
		if i != w && Adjacent(word, l.store.Word(i)) {
			out = append(out, i)
		}
	}
	return out
}

func (l *Lazy) AreNeighbors(a, b dictionary.WordIndex) bool {
	return Adjacent(l.store.Word(a), l.store.Word(b))
}

func (l *Lazy) Store() *dictionary.Store { return l.store }

func (l *Lazy) Kind() Kind { return KindLazy }

// Near lists up to limit dictionary words one edit away from word, which
// need not be in the dictionary itself. limit < 1 means all of them.
func Near(store *dictionary.Store, word string, limit int) []string {
	lo, hi := store.Range(len(word)-1, len(word)+1)
	var out []string
	for i := lo; i < hi; i++ {
		if limit > 0 && len(out) >= limit {
			break
		}
		if w := store.Word(i); Adjacent(word, w) {
			out = append(out, w)
		}
	}
	return out
}
