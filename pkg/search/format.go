package search

import (
	"fmt"
	"strings"

	"github.com/bastiangx/wordladder/pkg/dictionary"
)

// FormatOptions controls FormatPaths output.
type FormatOptions struct {
	// Number prefixes each path with "N. ".
	Number bool
	// Distance appends a "Distance: d" line.
	Distance bool
}

// FormatPaths renders one path per line, words joined by "-> ":
//
//	1. cat-> cot-> cog-> dog
//	2. cat-> cot-> dot-> dog
//	Distance: 3
//
// Paths are sorted first. No paths format to the empty string.
func FormatPaths(paths []Path, store *dictionary.Store, opts FormatOptions) string {
	if len(paths) == 0 {
		return ""
	}
	paths = SortPaths(paths)

	var sb strings.Builder
	for i, p := range paths {
		if opts.Number {
			fmt.Fprintf(&sb, "%d. ", i+1)
		}
		sb.WriteString(strings.Join(p.Words(store), "-> "))
		sb.WriteByte('\n')
	}
	if opts.Distance {
		fmt.Fprintf(&sb, "Distance: %d\n", paths[0].Edits())
	}
	return sb.String()
}
