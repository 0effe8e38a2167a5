package neighbor

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t testing.TB, words ...string) *dictionary.Store {
	t.Helper()
	store, err := dictionary.New(words)
	require.NoError(t, err)
	return store
}

// sampleWords returns a deterministic dictionary dense enough to have
// substitution, insertion and deletion links of every kind.
func sampleWords(seed uint64, n int) []string {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	const alphabet = "abcd"
	seen := make(map[string]bool)
	var words []string
	for len(words) < n {
		length := 1 + r.IntN(5)
		b := make([]byte, length)
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

func allKinds(t testing.TB, store *dictionary.Store) map[string]Index {
	t.Helper()
	lazy, err := New(KindLazy, store)
	require.NoError(t, err)
	wild, err := New(KindWildcard, store, WithWorkers(3))
	require.NoError(t, err)
	cached, err := New(KindCached, store, WithWorkers(2))
	require.NoError(t, err)
	cachedLazy, err := New(KindCached, store, WithCacheBase(KindLazy))
	require.NoError(t, err)
	return map[string]Index{
		"lazy":        lazy,
		"wildcard":    wild,
		"cached":      cached,
		"cached-lazy": cachedLazy,
	}
}

func TestStrategiesAgree(t *testing.T) {
	for _, seed := range []uint64{1, 7, 42} {
		store := newStore(t, sampleWords(seed, 300)...)
		indexes := allKinds(t, store)
		oracle := indexes["lazy"]

		for name, idx := range indexes {
			t.Run(name, func(t *testing.T) {
				for w := dictionary.WordIndex(0); int(w) < store.Len(); w++ {
					require.Equal(t, oracle.Neighbors(w), idx.Neighbors(w), "neighbors of %q", store.Word(w))
				}
			})
		}
	}
}

func TestNeighborRelationProperties(t *testing.T) {
	store := newStore(t, sampleWords(3, 150)...)
	for name, idx := range allKinds(t, store) {
		t.Run(name, func(t *testing.T) {
			for a := dictionary.WordIndex(0); int(a) < store.Len(); a++ {
				assert.False(t, idx.AreNeighbors(a, a), "%q is its own neighbor", store.Word(a))
				for b := a + 1; int(b) < store.Len(); b++ {
					ab := idx.AreNeighbors(a, b)
					assert.Equal(t, ab, idx.AreNeighbors(b, a), "asymmetric: %q %q", store.Word(a), store.Word(b))
					assert.Equal(t, Adjacent(store.Word(a), store.Word(b)), ab, "%q %q", store.Word(a), store.Word(b))
				}
			}
		})
	}
}

func TestNeighborsAreSortedAndExcludeSelf(t *testing.T) {
	store := newStore(t, "cat", "cot", "cog", "dog", "dot", "cut", "at", "cart", "scat")
	for name, idx := range allKinds(t, store) {
		t.Run(name, func(t *testing.T) {
			cat, err := store.Index("cat")
			require.NoError(t, err)

			var words []string
			for _, n := range idx.Neighbors(cat) {
				words = append(words, store.Word(n))
			}
			assert.Equal(t, []string{"at", "cot", "cut", "cart", "scat"}, words)
		})
	}
}

func TestIsolatedWordHasNoNeighbors(t *testing.T) {
	store := newStore(t, "cat", "cot", "zyx", "hello")
	for name, idx := range allKinds(t, store) {
		t.Run(name, func(t *testing.T) {
			for _, w := range []string{"zyx", "hello"} {
				i, err := store.Index(w)
				require.NoError(t, err)
				got := idx.Neighbors(i)
				assert.NotNil(t, got)
				assert.Empty(t, got)
			}
		})
	}
}

func TestSingletonBucketsArePruned(t *testing.T) {
	store := newStore(t, "cat", "cot", "zyx")
	wc, err := NewWildcard(store, 1)
	require.NoError(t, err)

	for _, p := range Patterns("zyx") {
		assert.Empty(t, wc.Bucket(p), "pattern %q", p)
	}
	assert.Equal(t, 1, wc.Buckets(), "only c*t is shared")
}

func TestOutOfRangePanics(t *testing.T) {
	store := newStore(t, "cat", "cot")
	for name, idx := range allKinds(t, store) {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { idx.Neighbors(2) })
			assert.Panics(t, func() { idx.Neighbors(-1) })
		})
	}
}

func TestNeighborsExcluding(t *testing.T) {
	store := newStore(t, "cat", "cot", "cut", "bat")
	wc, err := NewWildcard(store, 2)
	require.NoError(t, err)

	cat, _ := store.Index("cat")
	cot, _ := store.Index("cot")
	got := wc.NeighborsExcluding(cat, func(w dictionary.WordIndex) bool { return w == cot })
	var words []string
	for _, n := range got {
		words = append(words, store.Word(n))
	}
	assert.Equal(t, []string{"bat", "cut"}, words)
}

func TestTableRoundTrip(t *testing.T) {
	store := newStore(t, sampleWords(11, 200)...)
	wc, err := NewWildcard(store, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wc.WriteTable(&buf))

	loaded, err := New(KindWildcard, store, WithTable(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, wc.buckets, loaded.(*Wildcard).buckets)

	cached, err := New(KindCached, store, WithTable(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	for w := dictionary.WordIndex(0); int(w) < store.Len(); w++ {
		require.Equal(t, wc.Neighbors(w), cached.Neighbors(w))
	}
}

func TestWriteTableFormat(t *testing.T) {
	store := newStore(t, "cat", "cot", "cut", "co", "cog")
	wc, err := NewWildcard(store, 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wc.WriteTable(&buf))
	assert.Equal(t, "c*t a o u\nco* 0 g t\n", buf.String())
}

func TestReadTableErrors(t *testing.T) {
	store := newStore(t, "cat", "cot")
	testCases := []struct {
		name  string
		table string
	}{
		{"no blank", "cat a o\n"},
		{"two blanks", "c** a o\n"},
		{"no members", "c*t\n"},
		{"long marker", "c*t ao\n"},
		{"unknown word", "c*t a x\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadTable(store, strings.NewReader(tc.table))
			assert.ErrorIs(t, err, ErrMalformedTable)
		})
	}

	wc, err := ReadTable(store, strings.NewReader("\n"))
	require.NoError(t, err)
	assert.Zero(t, wc.Buckets())
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"lazy": KindLazy, "Wildcard": KindWildcard, "cache": KindCached, "cached": KindCached,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("trie")
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, "cache", KindCached.String())
}

func TestNewRejectsBadCombinations(t *testing.T) {
	store := newStore(t, "cat", "cot")
	_, err := New(KindLazy, store, WithTable(strings.NewReader("c*t a o\n")))
	assert.ErrorIs(t, err, ErrTableUnsupported)

	_, err = New(KindCached, store, WithCacheBase(KindCached))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(Kind(9), store)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func BenchmarkNeighbors(b *testing.B) {
	store := newStore(b, sampleWords(5, 3000)...)
	for _, kind := range []Kind{KindLazy, KindWildcard, KindCached} {
		idx, err := New(kind, store)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(kind.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				idx.Neighbors(dictionary.WordIndex(i % store.Len()))
			}
		})
	}
}

func TestNear(t *testing.T) {
	store := newStore(t, "cat", "cot", "cog", "dog", "cut", "scat")
	assert.Equal(t, []string{"cat", "cog"}, Near(store, "cag", 0))
	assert.Equal(t, []string{"cot", "cut", "scat"}, Near(store, "cat", 0), "the word itself is skipped")
	assert.Equal(t, []string{"cot"}, Near(store, "cat", 1))
	assert.Empty(t, Near(store, "zzzzzz", 0))
}
