package utils

// SuggestionFilter collects "did you mean" candidates, dropping repeats and
// the query word itself, up to a limit.
type SuggestionFilter struct {
	seen  map[string]bool
	words []string
	limit int
}

// NewSuggestionFilter creates a filter that will exclude the given query word.
// limit < 1 means no limit.
func NewSuggestionFilter(query string, limit int) *SuggestionFilter {
	return &SuggestionFilter{
		seen:  map[string]bool{NormalizeWord(query): true},
		limit: limit,
	}
}

// Add appends the words not seen before and reports whether there is room
// for more.
func (f *SuggestionFilter) Add(words ...string) bool {
	for _, w := range words {
		if f.Full() {
			return false
		}
		w = NormalizeWord(w)
		if f.seen[w] {
			continue
		}
		f.seen[w] = true
		f.words = append(f.words, w)
	}
	return !f.Full()
}

func (f *SuggestionFilter) Full() bool {
	return f.limit > 0 && len(f.words) >= f.limit
}

// Words returns the collected suggestions in insertion order.
func (f *SuggestionFilter) Words() []string {
	return f.words
}
