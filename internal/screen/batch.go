package screen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/signal"
)

// Stats summarizes a batch run.
type Stats struct {
	Mutations int                    // rows read from the source
	Screened  int                    // rows with a signal record
	NoSignal  int                    // rows skipped for lack of a signal record
	Detected  int                    // screened rows with a positive detector call
	ByClass   map[enhancer.Class]int // screened rows per enhancer class
}

// ScreenAll screens every mutation from src that has a record in idx and
// writes results to each writer in source order. Mutations without a
// record are counted and skipped. Headers are written before the first
// result and writers are flushed on success.
func (s *Screener) ScreenAll(src MutationSource, idx signal.Index, writers ...ResultWriter) (Stats, error) {
	stats := Stats{ByClass: make(map[enhancer.Class]int)}

	for _, w := range writers {
		if err := w.WriteHeader(); err != nil {
			return stats, fmt.Errorf("write header: %w", err)
		}
	}

	workers := s.poolSize()
	items := make(chan WorkItem, 2*workers)
	var parseErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			v, ann, err := src.Next()
			if err != nil {
				parseErr = fmt.Errorf("read mutation: %w", err)
				return
			}
			if v == nil {
				return
			}
			stats.Mutations++

			rec, ok := idx.Lookup(v.Key())
			if !ok {
				stats.NoSignal++
				s.logger.Debug("no signal record",
					zap.String("variant", v.Key()))
				continue
			}
			items <- WorkItem{Seq: seq, Variant: v, Annotation: ann, Record: &rec}
			seq++
		}
	}()

	results := s.ParallelScreen(items, workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			s.logger.Warn("failed to screen variant",
				zap.String("chrom", r.Variant.Chrom),
				zap.Int64("pos", r.Variant.Pos),
				zap.Error(r.Err))
			return nil
		}
		stats.Screened++
		stats.ByClass[r.Result.Score.Class]++
		if r.Result.Detection.IsDetected {
			stats.Detected++
		}
		for _, w := range writers {
			if err := w.Write(r.Result); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
		return nil
	}); err != nil {
		return stats, err
	}

	if parseErr != nil {
		return stats, parseErr
	}

	if stats.NoSignal > 0 {
		s.logger.Info("mutations without signal records skipped",
			zap.Int("skipped", stats.NoSignal),
			zap.Int("total", stats.Mutations))
	}
	if stats.Mutations == 0 {
		s.logger.Info("0 mutations processed")
	}

	for _, w := range writers {
		if err := w.Flush(); err != nil {
			return stats, fmt.Errorf("flush results: %w", err)
		}
	}
	return stats, nil
}
