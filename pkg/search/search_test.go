package search

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ladderWords = []string{"cat", "cot", "cog", "dog", "dot", "cut"}

func newIndex(t testing.TB, kind neighbor.Kind, words ...string) neighbor.Index {
	t.Helper()
	store, err := dictionary.New(words)
	require.NoError(t, err)
	idx, err := neighbor.New(kind, store, neighbor.WithWorkers(2))
	require.NoError(t, err)
	return idx
}

func allFinders(idx neighbor.Index, opts ...Option) map[string]Finder {
	return map[string]Finder{
		"single": NewSingleSided(idx, opts...),
		"dual":   NewDualSided(idx, opts...),
	}
}

// randomWords builds a deterministic dictionary over a small alphabet.
func randomWords(seed uint64, n int, alphabet string, maxLen int) []string {
	r := rand.New(rand.NewPCG(seed, seed*31+7))
	seen := make(map[string]bool)
	var words []string
	for len(words) < n {
		b := make([]byte, 1+r.IntN(maxLen))
		for i := range b {
			b[i] = alphabet[r.IntN(len(alphabet))]
		}
		if w := string(b); !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

// allWords lists every word over alphabet of length 1 to maxLen.
func allWords(alphabet string, maxLen int) []string {
	words := []string{""}
	var out []string
	for l := 1; l <= maxLen; l++ {
		var next []string
		for _, w := range words {
			for i := range len(alphabet) {
				next = append(next, w+alphabet[i:i+1])
			}
		}
		out = append(out, next...)
		words = next
	}
	return out
}

// bruteForce enumerates all shortest paths from pairwise adjacency and
// two independent distance tables.
func bruteForce(store *dictionary.Store, start, end dictionary.WordIndex) []Path {
	n := store.Len()
	adj := make([][]dictionary.WordIndex, n)
	for a := range n {
		for b := range n {
			if neighbor.Adjacent(store.Word(dictionary.WordIndex(a)), store.Word(dictionary.WordIndex(b))) {
				adj[a] = append(adj[a], dictionary.WordIndex(b))
			}
		}
	}
	distances := func(src dictionary.WordIndex) []int {
		dist := make([]int, n)
		for i := range dist {
			dist[i] = -1
		}
		dist[src] = 0
		queue := []dictionary.WordIndex{src}
		for len(queue) > 0 {
			w := queue[0]
			queue = queue[1:]
			for _, x := range adj[w] {
				if dist[x] < 0 {
					dist[x] = dist[w] + 1
					queue = append(queue, x)
				}
			}
		}
		return dist
	}
	fromStart, toEnd := distances(start), distances(end)
	if fromStart[end] < 0 {
		return nil
	}

	var out []Path
	var walk func(p Path)
	walk = func(p Path) {
		w := p[len(p)-1]
		if w == end {
			out = append(out, append(Path(nil), p...))
			return
		}
		for _, x := range adj[w] {
			if fromStart[x] == fromStart[w]+1 && toEnd[x] == toEnd[w]-1 {
				walk(append(p, x))
			}
		}
	}
	walk(Path{start})
	return SortPaths(out)
}

func TestCatToDog(t *testing.T) {
	want := [][]string{
		{"cat", "cot", "cog", "dog"},
		{"cat", "cot", "dot", "dog"},
	}
	for _, kind := range []neighbor.Kind{neighbor.KindLazy, neighbor.KindWildcard, neighbor.KindCached} {
		idx := newIndex(t, kind, ladderWords...)
		for name, finder := range allFinders(idx) {
			t.Run(kind.String()+"/"+name, func(t *testing.T) {
				got, err := FindWords(context.Background(), finder, idx.Store(), "cat", "dog")
				require.NoError(t, err)
				assert.Equal(t, want, got)
			})
		}
	}
}

func TestNoPath(t *testing.T) {
	idx := newIndex(t, neighbor.KindWildcard, "hello", "hallo", "hullo", "world", "would", "word")
	for name, finder := range allFinders(idx) {
		t.Run(name, func(t *testing.T) {
			paths, err := FindWords(context.Background(), finder, idx.Store(), "hello", "world")
			assert.ErrorIs(t, err, ErrNoPath)
			assert.Nil(t, paths)
		})
	}
}

func TestSameWord(t *testing.T) {
	idx := newIndex(t, neighbor.KindLazy, ladderWords...)
	for name, finder := range allFinders(idx) {
		t.Run(name, func(t *testing.T) {
			got, err := FindWords(context.Background(), finder, idx.Store(), "cog", "cog")
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"cog"}}, got)
		})
	}
}

func TestAdjacentEndpoints(t *testing.T) {
	idx := newIndex(t, neighbor.KindCached, ladderWords...)
	for name, finder := range allFinders(idx) {
		t.Run(name, func(t *testing.T) {
			got, err := FindWords(context.Background(), finder, idx.Store(), "cat", "cut")
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"cat", "cut"}}, got)
		})
	}
}

func TestUnknownWord(t *testing.T) {
	idx := newIndex(t, neighbor.KindLazy, ladderWords...)
	_, err := FindWords(context.Background(), NewDualSided(idx), idx.Store(), "cat", "bird")
	assert.ErrorIs(t, err, dictionary.ErrWordNotFound)
	assert.False(t, errors.Is(err, ErrNoPath))
}

func TestFindersMatchBruteForce(t *testing.T) {
	for _, seed := range []uint64{2, 9, 23} {
		store, err := dictionary.New(randomWords(seed, 80, "abc", 4))
		require.NoError(t, err)
		idx, err := neighbor.New(neighbor.KindWildcard, store)
		require.NoError(t, err)
		single, dual := NewSingleSided(idx, WithWorkers(1)), NewDualSided(idx, WithWorkers(1))

		r := rand.New(rand.NewPCG(seed, 1))
		for range 40 {
			start := dictionary.WordIndex(r.IntN(store.Len()))
			end := dictionary.WordIndex(r.IntN(store.Len()))
			want := bruteForce(store, start, end)

			for name, finder := range map[string]Finder{"single": single, "dual": dual} {
				got, err := finder.FindPaths(context.Background(), start, end)
				if want == nil {
					require.ErrorIs(t, err, ErrNoPath, "%s %q -> %q", name, store.Word(start), store.Word(end))
					continue
				}
				require.NoError(t, err)
				require.Equal(t, want, got, "%s %q -> %q", name, store.Word(start), store.Word(end))

				for _, p := range got {
					assert.Equal(t, start, p[0])
					assert.Equal(t, end, p[len(p)-1])
					assert.Equal(t, len(want[0]), len(p))
					for i := 1; i < len(p); i++ {
						assert.True(t, idx.AreNeighbors(p[i-1], p[i]))
					}
				}
			}
		}
	}
}

func TestParallelExpansionMatchesSerial(t *testing.T) {
	store, err := dictionary.New(allWords("abcd", 4))
	require.NoError(t, err)
	idx, err := neighbor.New(neighbor.KindCached, store)
	require.NoError(t, err)

	pairs := [][2]string{{"a", "dddd"}, {"abcd", "dcba"}, {"aa", "bcdb"}}
	for _, pair := range pairs {
		serial, err := FindWords(context.Background(), NewSingleSided(idx, WithWorkers(1)), store, pair[0], pair[1])
		require.NoError(t, err)
		parallel, err := FindWords(context.Background(), NewSingleSided(idx, WithWorkers(8)), store, pair[0], pair[1])
		require.NoError(t, err)
		dual, err := FindWords(context.Background(), NewDualSided(idx, WithWorkers(8)), store, pair[0], pair[1])
		require.NoError(t, err)

		assert.Equal(t, serial, parallel, "%v", pair)
		assert.Equal(t, serial, dual, "%v", pair)
	}
}

func TestMaxDepth(t *testing.T) {
	idx := newIndex(t, neighbor.KindWildcard, ladderWords...)
	ctx := context.Background()
	for _, kind := range []FinderKind{FinderSingle, FinderDual} {
		t.Run(kind.String(), func(t *testing.T) {
			short, err := NewFinder(kind, idx, WithMaxDepth(2))
			require.NoError(t, err)
			_, err = FindWords(ctx, short, idx.Store(), "cat", "dog")
			assert.ErrorIs(t, err, ErrNoPath)

			exact, err := NewFinder(kind, idx, WithMaxDepth(3))
			require.NoError(t, err)
			paths, err := FindWords(ctx, exact, idx.Store(), "cat", "dog")
			require.NoError(t, err)
			assert.Len(t, paths, 2)
		})
	}
}

func TestCancelledContext(t *testing.T) {
	idx := newIndex(t, neighbor.KindLazy, ladderWords...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, finder := range allFinders(idx) {
		t.Run(name, func(t *testing.T) {
			_, err := FindWords(ctx, finder, idx.Store(), "cat", "dog")
			assert.ErrorIs(t, err, context.Canceled)
			assert.NotErrorIs(t, err, ErrNoPath)
		})
	}

	deadline, stop := context.WithTimeout(context.Background(), -time.Second)
	defer stop()
	_, err := FindWords(deadline, NewSingleSided(idx), idx.Store(), "cat", "dog")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestObserver(t *testing.T) {
	idx := newIndex(t, neighbor.KindWildcard, ladderWords...)
	var events []LayerEvent
	finder := NewSingleSided(idx, WithObserver(func(e LayerEvent) { events = append(events, e) }))

	_, err := FindWords(context.Background(), finder, idx.Store(), "cat", "dog")
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, SideStart, e.Side)
		assert.Equal(t, i+1, e.Depth)
	}
	assert.Equal(t, 2, events[0].Outer, "cot and cut")
	assert.Equal(t, 1, events[2].Outer, "dog")
}

func TestParseFinderKind(t *testing.T) {
	k, err := ParseFinderKind("Dual")
	require.NoError(t, err)
	assert.Equal(t, FinderDual, k)
	k, err = ParseFinderKind("single")
	require.NoError(t, err)
	assert.Equal(t, FinderSingle, k)

	_, err = ParseFinderKind("astar")
	assert.ErrorIs(t, err, ErrUnknownFinder)
	_, err = NewFinder(FinderKind(5), nil)
	assert.ErrorIs(t, err, ErrUnknownFinder)
}

func TestFormatPaths(t *testing.T) {
	idx := newIndex(t, neighbor.KindWildcard, ladderWords...)
	store := idx.Store()
	paths, err := NewDualSided(idx).FindPaths(context.Background(), mustIndex(t, store, "cat"), mustIndex(t, store, "dog"))
	require.NoError(t, err)

	assert.Equal(t,
		"1. cat-> cot-> cog-> dog\n2. cat-> cot-> dot-> dog\nDistance: 3\n",
		FormatPaths(paths, store, FormatOptions{Number: true, Distance: true}))
	assert.Equal(t,
		"cat-> cot-> cog-> dog\ncat-> cot-> dot-> dog\n",
		FormatPaths(paths, store, FormatOptions{}))
	assert.Empty(t, FormatPaths(nil, store, FormatOptions{Number: true, Distance: true}))
}

func mustIndex(t testing.TB, store *dictionary.Store, w string) dictionary.WordIndex {
	t.Helper()
	i, err := store.Index(w)
	require.NoError(t, err)
	return i
}

func BenchmarkFinders(b *testing.B) {
	store, err := dictionary.New(allWords("abcde", 4))
	if err != nil {
		b.Fatal(err)
	}
	idx, err := neighbor.New(neighbor.KindCached, store)
	if err != nil {
		b.Fatal(err)
	}
	start, _ := store.Index("abc")
	end, _ := store.Index("edcb")

	for name, finder := range allFinders(idx) {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := finder.FindPaths(context.Background(), start, end); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
