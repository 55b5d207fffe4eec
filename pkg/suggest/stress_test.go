//go:build test

package suggest

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
	"testing"

	"github.com/bastiangx/ternserve/pkg/dict"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var stressPrefixes = []string{
	"a", "ab", "abo",
	"w", "wo", "wor", "word",
	"t", "th", "the", "ther",
	"c", "co", "com", "comp",
}

// stressCompleter builds a synthetic dictionary large enough that prefix
// scans do real work.
func stressCompleter(t testing.TB) *Completer {
	t.Helper()
	d := dict.New()
	bases := []string{"ab", "wo", "th", "co", "pr", "in", "de"}
	for i := 0; i < 4000; i++ {
		word := fmt.Sprintf("%s%04d", bases[i%len(bases)], i)
		if err := d.SetWord(word, 20+i%200); err != nil {
			t.Fatalf("SetWord(%q): %v", word, err)
		}
	}
	d.Balance()

	completer := NewCompleter(d)
	completer.WarmCache()
	return completer
}

func TestMemoryGrowthBasic(t *testing.T) {
	completer := stressCompleter(t)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)
	baselineGoroutines := runtime.NumGoroutine()

	iterations := 2000
	for i := 0; i < iterations; i++ {
		for _, prefix := range stressPrefixes {
			_ = completer.Complete(prefix, 10)
		}
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	totalOps := iterations * len(stressPrefixes)
	memPerOp := float64(int64(final.Alloc)-int64(baseline.Alloc)) / float64(totalOps)
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines

	t.Logf("ops=%d mem_per_op=%.2f bytes goroutine_delta=%d", totalOps, memPerOp, goroutineDelta)

	if memPerOp > 1000 {
		t.Errorf("excessive memory usage per operation: %.2f bytes", memPerOp)
	}
	if goroutineDelta > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
	}
}

func TestMemoryGrowthConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 2, iterationsPerWorker: 500},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	completer := stressCompleter(t)

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			profPath := "concurrent_memory.prof"
			memFile, err := os.Create(profPath)
			if err != nil {
				t.Fatalf("profile file creation failed: %v", err)
			}
			defer func() {
				memFile.Close()
				os.Remove(profPath)
			}()

			baselineGoroutines := runtime.NumGoroutine()

			var wg sync.WaitGroup
			for worker := 0; worker < cfg.workers; worker++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for iter := 0; iter < cfg.iterationsPerWorker; iter++ {
						for _, prefix := range stressPrefixes {
							_ = completer.Complete(prefix, 10)
						}
						_, _ = completer.Correct(stressPrefixes[iter%len(stressPrefixes)], 1)
					}
				}()
			}
			wg.Wait()

			runtime.GC()
			if err := pprof.WriteHeapProfile(memFile); err != nil {
				t.Errorf("heap profile write failed: %v", err)
			}

			goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
			if goroutineDelta > 3 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutineDelta)
			}
		})
	}
}
