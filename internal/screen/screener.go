// Package screen runs the enhancer scorer and detector over a batch of
// cBioPortal mutations joined to their AlphaGenome signal records.
package screen

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-enhancer/internal/detect"
	"github.com/inodb/vibe-enhancer/internal/enhancer"
	"github.com/inodb/vibe-enhancer/internal/maf"
	"github.com/inodb/vibe-enhancer/internal/signal"
	"github.com/inodb/vibe-enhancer/internal/variant"
)

// ErrNoSignal is returned when a mutation has no signal record.
var ErrNoSignal = errors.New("no signal record for variant")

// Result is the screening outcome for one mutation.
type Result struct {
	Variant    *variant.Variant
	Annotation *maf.Annotation
	VariantID  string
	Tissue     string
	Matched    bool // prediction cell type matches the screened tissue
	Replicates int

	Context   enhancer.GenomicContext
	Evidence  enhancer.Evidence
	Score     enhancer.Result
	Detection detect.Result
	Promoter  detect.Result
}

// MutationSource yields mutations one at a time; *maf.Parser implements it.
type MutationSource interface {
	Next() (*variant.Variant, *maf.Annotation, error)
}

// ResultWriter receives screening results in input order.
type ResultWriter interface {
	WriteHeader() error
	Write(r *Result) error
	Flush() error
}

// Screener scores mutations against their signal records.
type Screener struct {
	scorer   *enhancer.Scorer
	detector *detect.Detector
	promoter *detect.PromoterDetector
	tissue   string
	workers  int
	logger   *zap.Logger
}

// New creates a screener. The promoter detector uses the same preset as
// the enhancer detector.
func New(scorer *enhancer.Scorer, detector *detect.Detector) *Screener {
	return &Screener{
		scorer:   scorer,
		detector: detector,
		promoter: detect.NewPromoterDetector(detector.Algorithm()),
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (s *Screener) SetLogger(l *zap.Logger) {
	s.logger = l
}

// SetWorkers sets the worker pool size. Zero or less means runtime.NumCPU().
func (s *Screener) SetWorkers(n int) {
	s.workers = n
}

// SetTissue sets the UBERON id used for records that name no tissue.
func (s *Screener) SetTissue(tissue string) {
	s.tissue = tissue
}

// Screen scores a single mutation. ann may be nil; rec must not be.
func (s *Screener) Screen(v *variant.Variant, ann *maf.Annotation, rec *signal.Record) (*Result, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w %s", ErrNoSignal, v.Key())
	}

	tissue := rec.Tissue
	if tissue == "" {
		tissue = s.tissue
	}

	r := &Result{
		Variant:    v,
		Annotation: ann,
		VariantID:  v.Key(),
		Tissue:     tissue,
		Matched:    rec.CellTypeMatch(tissue),
		Replicates: rec.ReplicateCount,
		Context:    contextFor(ann, rec),
	}

	if rec.Evidence != nil {
		r.Evidence = enhancer.EvidenceFromMap(rec.Evidence)
	} else {
		r.Evidence = enhancer.ExtractEvidence(rec.Summary)
	}

	r.Score = s.scorer.Score(r.Evidence, r.Context, r.Matched, r.Replicates)
	r.Detection = s.detector.Detect(rec.Summary, tissue)
	r.Promoter = s.promoter.Detect(rec.Summary)
	return r, nil
}

// contextFor prefers an explicit context on the signal record and falls
// back to the MAF consequence annotation.
func contextFor(ann *maf.Annotation, rec *signal.Record) enhancer.GenomicContext {
	if rec.Context != nil {
		return enhancer.ContextFromMap(rec.Context)
	}
	if ann == nil {
		return enhancer.UnknownContext()
	}
	return enhancer.ContextFromConsequence(ann.ConsequenceTerms(), ann.HGVSpShort)
}

func (s *Screener) poolSize() int {
	if s.workers <= 0 {
		return runtime.NumCPU()
	}
	return s.workers
}
