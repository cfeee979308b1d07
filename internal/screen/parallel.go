package screen

import (
	"sync"

	"github.com/inodb/vibe-enhancer/internal/maf"
	"github.com/inodb/vibe-enhancer/internal/signal"
	"github.com/inodb/vibe-enhancer/internal/variant"
)

// WorkItem holds a mutation and its signal record ready for screening.
type WorkItem struct {
	Seq        int
	Variant    *variant.Variant
	Annotation *maf.Annotation
	Record     *signal.Record
}

// WorkResult holds the screening output for a single mutation.
type WorkResult struct {
	Seq     int
	Variant *variant.Variant
	Result  *Result
	Err     error
}

// ParallelScreen screens work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (s *Screener) ParallelScreen(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = s.poolSize()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r, err := s.Screen(item.Variant, item.Annotation, item.Record)
				results <- WorkResult{Seq: item.Seq, Variant: item.Variant, Result: r, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until their turn.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
