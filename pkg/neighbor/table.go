package neighbor

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/bastiangx/wordladder/pkg/dictionary"
)

// deletionMarker stands for the word that is the pattern with its blank removed.
const deletionMarker = '0'

// WriteTable exports the buckets as text, one line per pattern in sorted
// order: the pattern, then one marker per member word. A marker is the
// letter the word has at the blank, or 0 for the shorter word the pattern
// collapses to.
//
//	c*t a o u
//	*og c d
//	co*g 0 n
func (wc *Wildcard) WriteTable(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, pattern := range slices.Sorted(maps.Keys(wc.buckets)) {
		blank := blankIndex(pattern)
		bw.WriteString(pattern)
		for _, idx := range wc.buckets[pattern] {
			word := wc.store.Word(idx)
			bw.WriteByte(' ')
			if len(word) < len(pattern) {
				bw.WriteByte(deletionMarker)
			} else {
				bw.WriteByte(word[blank])
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadTable rebuilds a Wildcard index over store from a table written by
// WriteTable. Every word a line names must exist in store.
func ReadTable(store *dictionary.Store, r io.Reader) (*Wildcard, error) {
	buckets := make(map[string][]dictionary.WordIndex)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		pattern := fields[0]
		blank := blankIndex(pattern)
		if blank < 0 || strings.Count(pattern, string(Blank)) != 1 {
			return nil, fmt.Errorf("%w: line %d: pattern %q needs exactly one blank", ErrMalformedTable, line, pattern)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: pattern %q has no members", ErrMalformedTable, line, pattern)
		}

		members := buckets[pattern]
		buf := []byte(pattern)
		for _, marker := range fields[1:] {
			if len(marker) != 1 {
				return nil, fmt.Errorf("%w: line %d: marker %q is not a single character", ErrMalformedTable, line, marker)
			}
			var word string
			if marker[0] == deletionMarker {
				word = pattern[:blank] + pattern[blank+1:]
			} else {
				buf[blank] = marker[0]
				word = string(buf)
			}
			idx, err := store.Index(word)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedTable, line, err)
			}
			members = append(members, idx)
		}
		slices.Sort(members)
		buckets[pattern] = slices.Compact(members)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("neighbor: reading wildcard table: %w", err)
	}

	for p, members := range buckets {
		if len(members) < 2 {
			delete(buckets, p)
		}
	}
	return &Wildcard{store: store, buckets: buckets}, nil
}
