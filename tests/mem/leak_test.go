//go:build test

package mem

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bastiangx/wordladder/pkg/dictionary"
	"github.com/bastiangx/wordladder/pkg/neighbor"
	"github.com/bastiangx/wordladder/pkg/search"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var queries = [][2]string{
	{"a", "dddd"}, {"abcd", "dcba"}, {"aa", "bcdb"}, {"cab", "bad"},
	{"dd", "abca"}, {"b", "b"}, {"acdc", "dcda"}, {"bbbb", "a"},
}

// newIndex builds a dense dictionary of every word over "abcd" up to length 4.
func newIndex(t *testing.T, kind neighbor.Kind) neighbor.Index {
	t.Helper()
	words := []string{""}
	var all []string
	for l := 0; l < 4; l++ {
		var next []string
		for _, w := range words {
			for _, c := range "abcd" {
				next = append(next, w+string(c))
			}
		}
		all = append(all, next...)
		words = next
	}
	store, err := dictionary.New(all)
	if err != nil {
		t.Fatalf("dictionary: %v", err)
	}
	idx, err := neighbor.New(kind, store, neighbor.WithWorkers(4))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	return idx
}

func resolve(t *testing.T, store *dictionary.Store) [][2]dictionary.WordIndex {
	t.Helper()
	out := make([][2]dictionary.WordIndex, len(queries))
	for i, q := range queries {
		a, err := store.Index(q[0])
		if err != nil {
			t.Fatal(err)
		}
		b, err := store.Index(q[1])
		if err != nil {
			t.Fatal(err)
		}
		out[i] = [2]dictionary.WordIndex{a, b}
	}
	return out
}

func TestMemoryLeakBasic(t *testing.T) {
	for _, kind := range []neighbor.Kind{neighbor.KindLazy, neighbor.KindWildcard, neighbor.KindCached} {
		for _, iterCount := range []int{10, 50, 200} {
			t.Run(fmt.Sprintf("%s_iterations_%d", kind, iterCount), func(t *testing.T) {
				runBasicMemoryTest(t, newIndex(t, kind), iterCount)
			})
		}
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 80},
		{workers: 2, iterationsPerWorker: 40},
		{workers: 4, iterationsPerWorker: 20},
		{workers: 8, iterationsPerWorker: 10},
	}

	idx := newIndex(t, neighbor.KindCached)
	for _, config := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", config.workers, config.iterationsPerWorker), func(t *testing.T) {
			runConcurrentMemoryTest(t, idx, config.workers, config.iterationsPerWorker)
		})
	}
}

func runBasicMemoryTest(t *testing.T, idx neighbor.Index, iterations int) {
	pairs := resolve(t, idx.Store())
	finder := search.NewDualSided(idx, search.WithWorkers(4))

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	for i := 0; i < iterations; i++ {
		for _, p := range pairs {
			if _, err := finder.FindPaths(context.Background(), p[0], p[1]); err != nil {
				t.Fatalf("find %v: %v", p, err)
			}
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	totalOps := iterations * len(pairs)
	memPerOp := float64(memDelta) / float64(totalOps)

	t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		iterations, totalOps, memDelta, memPerOp, goroutineDelta)

	// Graphs are per query, so nothing should survive a GC.
	if memPerOp > 1000 {
		t.Errorf("retained memory per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func runConcurrentMemoryTest(t *testing.T, idx neighbor.Index, workers, iterationsPerWorker int) {
	memFile, err := os.Create("concurrent_memory.prof")
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer func() {
		memFile.Close()
		os.Remove("concurrent_memory.prof")
	}()

	pairs := resolve(t, idx.Store())
	finders := []search.Finder{
		search.NewSingleSided(idx, search.WithWorkers(2)),
		search.NewDualSided(idx, search.WithWorkers(2)),
	}

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	var wg sync.WaitGroup
	var totalOps, failures atomic.Int64
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < iterationsPerWorker; iter++ {
				for i, p := range pairs {
					if _, err := finders[(iter+i)%2].FindPaths(ctx, p[0], p[1]); err != nil {
						failures.Add(1)
					}
					totalOps.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)
	finalGoroutines := runtime.NumGoroutine()

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	goroutineDelta := finalGoroutines - baselineGoroutines
	memPerOp := float64(memDelta) / float64(totalOps.Load())

	t.Logf("workers=%d iter_per_worker=%d total_ops=%d mem_delta=%d bytes mem_per_op=%.2f goroutine_delta=%d",
		workers, iterationsPerWorker, totalOps.Load(), memDelta, memPerOp, goroutineDelta)

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}
	if n := failures.Load(); n > 0 {
		t.Errorf("%d queries failed", n)
	}
	if memPerOp > 1000 {
		t.Errorf("retained memory per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 3 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}
