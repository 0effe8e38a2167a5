/*
Package dictionary owns the word list every search runs against.

A Store holds unique lowercase words sorted by length and then
lexicographically. Each word is addressed by its WordIndex, its position in
that order, and every other package works on indexes rather than strings.
The length offset table bounds neighbor scans to the words whose length can
differ by at most one, and a patricia trie translates words back to indexes
at the boundary.

	store, err := dictionary.LoadFile("words.txt")
	i, err := store.Index("cat")
	lo, hi := store.Range(2, 4) // every word of length 2, 3 or 4

A Store is immutable once built and safe for concurrent readers.
*/
package dictionary

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bastiangx/wordladder/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Sentinel errors for dictionary construction and lookup.
var (
	ErrEmptyDictionary = errors.New("dictionary: no words")
	ErrWordNotFound    = errors.New("dictionary: word not found")
	ErrMalformedWord   = errors.New("dictionary: malformed word")
)

// WordIndex is the dense identifier of a word: its position in the sorted store.
type WordIndex int32

// Store is the sorted, deduplicated word list plus its lookup tables.
type Store struct {
	words []string
	// starts[n] is the first index whose word has length >= n.
	// It has maxLen+2 entries so starts[maxLen+1] == len(words).
	starts  []WordIndex
	trie    *patricia.Trie
	maxLen  int
	skipped int
}

// Option configures Store construction.
type Option func(*storeOptions)

type storeOptions struct {
	lenient bool
}

// WithLenient skips malformed lines instead of failing the whole build.
func WithLenient() Option {
	return func(o *storeOptions) {
		o.lenient = true
	}
}

// compareWords orders by length first, then lexicographically.
func compareWords(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// New builds a Store from words in any order. Words are normalized,
// blank entries dropped and duplicates collapsed.
func New(words []string, opts ...Option) (*Store, error) {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{trie: patricia.NewTrie()}
	clean := make([]string, 0, len(words))
	for _, raw := range words {
		if utils.IsComment(raw) {
			continue
		}
		w := utils.NormalizeWord(raw)
		if !utils.IsLowerAlpha(w) {
			if !o.lenient {
				return nil, fmt.Errorf("%w: %q", ErrMalformedWord, raw)
			}
			s.skipped++
			continue
		}
		clean = append(clean, w)
	}
	if len(clean) == 0 {
		return nil, ErrEmptyDictionary
	}

	slices.SortFunc(clean, compareWords)
	s.words = slices.Compact(clean)
	s.maxLen = len(s.words[len(s.words)-1])

	s.starts = make([]WordIndex, s.maxLen+2)
	i := 0
	for n := range s.starts {
		for i < len(s.words) && len(s.words[i]) < n {
			i++
		}
		s.starts[n] = WordIndex(i)
	}

	for idx, w := range s.words {
		s.trie.Insert(patricia.Prefix(w), WordIndex(idx))
	}

	if s.skipped > 0 {
		log.Warnf("Skipped %d malformed dictionary entries", s.skipped)
	}
	log.Debugf("Dictionary built: %d words, max length %d", len(s.words), s.maxLen)
	return s, nil
}

// Load reads one word per line from r.
func Load(r io.Reader, opts ...Option) (*Store, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reading words: %w", err)
	}
	return New(words, opts...)
}

// LoadFile validates and reads a plain text word list.
func LoadFile(path string, opts ...Option) (*Store, error) {
	if err := ValidateFileFormat(path, FormatText); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: opening %s: %w", path, err)
	}
	defer file.Close()

	s, err := Load(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Len returns the number of words.
func (s *Store) Len() int {
	return len(s.words)
}

// Word returns the word at i. An index outside the store is a programming
// error and panics.
func (s *Store) Word(i WordIndex) string {
	if i < 0 || int(i) >= len(s.words) {
		panic(fmt.Sprintf("dictionary: word index %d out of range [0,%d)", i, len(s.words)))
	}
	return s.words[i]
}

// Words returns a copy of the sorted word list.
func (s *Store) Words() []string {
	return slices.Clone(s.words)
}

// Index translates a word into its WordIndex.
func (s *Store) Index(word string) (WordIndex, error) {
	item := s.trie.Get(patricia.Prefix(utils.NormalizeWord(word)))
	if item == nil {
		return -1, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	return item.(WordIndex), nil
}

// Contains reports whether word is in the store.
func (s *Store) Contains(word string) bool {
	_, err := s.Index(word)
	return err == nil
}

// Range returns the half-open index span [lo, hi) holding every word whose
// length lies in [minLen, maxLen]. Lengths outside the store clamp to it.
func (s *Store) Range(minLen, maxLen int) (WordIndex, WordIndex) {
	clamp := func(n int) int {
		return max(0, min(n, s.maxLen+1))
	}
	lo := s.starts[clamp(minLen)]
	hi := s.starts[clamp(maxLen+1)]
	if hi < lo {
		return lo, lo
	}
	return lo, hi
}

// LengthSpan returns the index span of words with exactly n letters.
func (s *Store) LengthSpan(n int) (WordIndex, WordIndex) {
	return s.Range(n, n)
}

// Lengths returns the distinct word lengths present, ascending.
func (s *Store) Lengths() []int {
	var lengths []int
	for n := 1; n <= s.maxLen; n++ {
		if s.starts[n] != s.starts[n+1] {
			lengths = append(lengths, n)
		}
	}
	return lengths
}

// MaxLength returns the length of the longest word.
func (s *Store) MaxLength() int {
	return s.maxLen
}

// WithPrefix returns up to limit words starting with prefix, in store order.
// A limit <= 0 returns every match.
func (s *Store) WithPrefix(prefix string, limit int) []string {
	var matches []string
	err := s.trie.VisitSubtree(patricia.Prefix(utils.NormalizeWord(prefix)), func(p patricia.Prefix, item patricia.Item) error {
		matches = append(matches, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	slices.SortFunc(matches, compareWords)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Stats returns statistics about the loaded dictionary
func (s *Store) Stats() map[string]int {
	return map[string]int{
		"totalWords": len(s.words),
		"maxLength":  s.maxLen,
		"lengths":    len(s.Lengths()),
		"skipped":    s.skipped,
	}
}
