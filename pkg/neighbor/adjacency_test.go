package neighbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjacent(t *testing.T) {
	testCases := []struct {
		a, b     string
		adjacent bool
		desc     string
	}{
		{"cat", "cot", true, "substitution in the middle"},
		{"cat", "bat", true, "substitution at the start"},
		{"cat", "cab", true, "substitution at the end"},
		{"cat", "cat", false, "identical words"},
		{"cat", "dog", false, "three substitutions"},
		{"cat", "cog", false, "two substitutions"},
		{"cat", "scat", true, "insertion at index 0"},
		{"cat", "cats", true, "insertion at the end"},
		{"cat", "cart", true, "insertion in the middle"},
		{"cart", "cat", true, "deletion is symmetric to insertion"},
		{"cat", "cast", true, "insertion before last letter"},
		{"cat", "acts", false, "insertion plus substitution"},
		{"cat", "carts", false, "length differs by two"},
		{"a", "", true, "single letter to empty"},
		{"a", "b", true, "single letters"},
		{"ab", "ba", false, "transposition is two edits"},
		{"aa", "aaa", true, "repeated letters"},
		{"aab", "aba", false, "shifted letters"},
		{"abc", "xabc", true, "boundary insert before first"},
		{"abc", "abcx", true, "boundary insert after last"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.adjacent, Adjacent(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
			assert.Equal(t, tc.adjacent, Adjacent(tc.b, tc.a), "%s vs %s reversed", tc.b, tc.a)
		})
	}
}

func TestPatterns(t *testing.T) {
	assert.Equal(t, []string{
		"*at", "c*t", "ca*",
		"*cat", "c*at", "ca*t", "cat*",
	}, Patterns("cat"))

	assert.Equal(t, []string{"*", "*a", "a*"}, Patterns("a"))
}

// Two distinct words share a pattern exactly when they are adjacent.
func TestPatternsAgreeWithAdjacent(t *testing.T) {
	words := []string{"a", "b", "ab", "ba", "aa", "aab", "aba", "abb", "bab", "abab", "abba"}
	for _, a := range words {
		pa := make(map[string]bool)
		for _, p := range Patterns(a) {
			pa[p] = true
		}
		for _, b := range words {
			if a == b {
				continue
			}
			shared := false
			for _, p := range Patterns(b) {
				if pa[p] {
					shared = true
					break
				}
			}
			assert.Equal(t, Adjacent(a, b), shared, "%s vs %s", a, b)
		}
	}
}

func BenchmarkAdjacent(b *testing.B) {
	pairs := [][2]string{{"kitten", "sitten"}, {"kitten", "kittens"}, {"kitten", "mitten"}, {"kitten", "sitting"}}
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		Adjacent(p[0], p[1])
	}
}
