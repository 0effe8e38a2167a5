package neighbor

import "strings"

// Blank marks the wildcard position inside a pattern.
const Blank = '*'

// Adjacent reports whether a and b are one edit apart: a single
// substitution between equal-length words, or a single insertion turning
// the shorter word into the longer one. A word is never adjacent to itself.
func Adjacent(a, b string) bool {
	switch len(a) - len(b) {
	case 0:
		return oneSubstitution(a, b)
	case 1:
		return oneInsertion(b, a)
	case -1:
		return oneInsertion(a, b)
	default:
		return false
	}
}

func oneSubstitution(a, b string) bool {
	diff := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}

// oneInsertion reports whether long is short with one byte inserted.
// len(long) must be len(short)+1.
func oneInsertion(short, long string) bool {
	i := 0
	for i < len(short) && short[i] == long[i] {
		i++
	}
	return short[i:] == long[i+1:]
}

// Patterns returns every wildcard pattern of word: first one per position
// with that letter blanked (substitutions), then one per boundary with a
// blank inserted (insertions). Two words share a pattern exactly when they
// are adjacent, for any two distinct words.
func Patterns(word string) []string {
	return appendPatterns(make([]string, 0, 2*len(word)+1), word)
}

func appendPatterns(dst []string, word string) []string {
	buf := []byte(word)
	for i := range buf {
		c := buf[i]
		buf[i] = Blank
		dst = append(dst, string(buf))
		buf[i] = c
	}

	ins := make([]byte, len(word)+1)
	for i := 0; i <= len(word); i++ {
		copy(ins, word[:i])
		ins[i] = Blank
		copy(ins[i+1:], word[i:])
		dst = append(dst, string(ins))
	}
	return dst
}

// blankIndex returns the position of the blank in pattern, or -1.
func blankIndex(pattern string) int {
	return strings.IndexByte(pattern, Blank)
}
