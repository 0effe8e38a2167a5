package search

import (
	"slices"

	"github.com/bastiangx/wordladder/pkg/dictionary"
)

// Path is a word ladder from one endpoint to the other, as word indexes.
type Path []dictionary.WordIndex

// Edits is the number of steps in the ladder.
func (p Path) Edits() int { return len(p) - 1 }

// Words translates the path back to strings.
func (p Path) Words(store *dictionary.Store) []string {
	out := make([]string, len(p))
	for i, w := range p {
		out[i] = store.Word(w)
	}
	return out
}

// ComparePaths orders paths lexicographically by word index, which is the
// (length, alphabetical) order of their words.
func ComparePaths(a, b Path) int {
	return slices.Compare(a, b)
}

// SortPaths sorts paths in place with ComparePaths and drops duplicates.
func SortPaths(paths []Path) []Path {
	slices.SortFunc(paths, ComparePaths)
	return slices.CompactFunc(paths, func(a, b Path) bool {
		return slices.Equal(a, b)
	})
}
