package enhancer

import "math"

// Component names used as keys of Result.Components.
const (
	ComponentH3K27ac         = "H3K27ac"
	ComponentH3K4me1         = "H3K4me1"
	ComponentAccessibility   = "Accessibility"
	ComponentERNA            = "eRNA"
	ComponentGeneBodyPenalty = "Gene_body_penalty"
	ComponentPromoterPenalty = "Promoter_penalty"
	ComponentAlleleBonus     = "Allele_specific_bonus"
)

// componentOrder is the evaluation order of components, used to break ties
// when reporting.
var componentOrder = []string{
	ComponentH3K27ac,
	ComponentH3K4me1,
	ComponentAccessibility,
	ComponentERNA,
	ComponentGeneBodyPenalty,
	ComponentPromoterPenalty,
	ComponentAlleleBonus,
}

// Result is the outcome of scoring one region.
//
// Components always lists the four positively weighted marks, with 0 for
// marks below threshold. Penalty and bonus keys appear only when applied.
type Result struct {
	TotalScore float64            `json:"total_score" yaml:"total_score"`
	Components map[string]float64 `json:"component_scores" yaml:"component_scores"`
	Class      Class              `json:"classification" yaml:"classification"`
	Confidence Confidence         `json:"confidence" yaml:"confidence"`
}

// Scorer scores evidence against a fixed set of criteria. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	criteria Criteria
}

// NewScorer validates the criteria and binds them to a new Scorer.
func NewScorer(c Criteria) (*Scorer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{criteria: c}, nil
}

// NewDefaultScorer returns a Scorer using DefaultCriteria.
func NewDefaultScorer() *Scorer {
	return &Scorer{criteria: DefaultCriteria()}
}

// Criteria returns the criteria bound to the scorer.
func (s *Scorer) Criteria() Criteria {
	return s.criteria
}

// Score scores one region. See the package-level Score.
func (s *Scorer) Score(ev Evidence, ctx GenomicContext, cellTypeMatched bool, replicateCount int) Result {
	return Score(ev, ctx, cellTypeMatched, replicateCount, s.criteria)
}

// Score computes the weighted enhancer score of one region under c.
//
// Gene-proximal regions short-circuit to a zero score with class and
// confidence NotApplicable. Otherwise each core mark contributes its full
// weight when it reaches its threshold (eRNA when flagged), the gene-body
// and promoter penalties apply when H3K36me3 or H3K4me3 strictly exceed
// their thresholds, the allele bonus applies when allele bias is present,
// and the total is clamped to [0, c.MaxScore].
func Score(ev Evidence, ctx GenomicContext, cellTypeMatched bool, replicateCount int, c Criteria) Result {
	if ctx.IsGeneProximal() {
		return Result{
			TotalScore: 0,
			Components: map[string]float64{},
			Class:      ClassNotApplicable,
			Confidence: ConfidenceNotApplicable,
		}
	}

	components := make(map[string]float64, len(componentOrder))
	total := 0.0

	add := func(name string, passed bool, weight float64) {
		if !passed {
			components[name] = 0
			return
		}
		components[name] = weight
		total += weight
	}
	add(ComponentH3K27ac, ev.H3K27ac >= c.H3K27acThreshold, c.H3K27acWeight)
	add(ComponentH3K4me1, ev.H3K4me1 >= c.H3K4me1Threshold, c.H3K4me1Weight)
	add(ComponentAccessibility, ev.Accessibility >= c.AccessibilityThreshold, c.AccessibilityWeight)
	add(ComponentERNA, ev.IsLikelyERNA, c.ERNAWeight)

	if ev.H3K36me3 > c.H3K36me3Threshold {
		components[ComponentGeneBodyPenalty] = c.GeneBodyPenalty
		total += c.GeneBodyPenalty
	}
	if ev.H3K4me3 > c.H3K4me3Threshold {
		components[ComponentPromoterPenalty] = c.PromoterPenalty
		total += c.PromoterPenalty
	}
	if ev.HasAlleleBias {
		components[ComponentAlleleBonus] = c.AlleleSpecificBonus
		total += c.AlleleSpecificBonus
	}

	total = math.Max(0, math.Min(c.MaxScore, total))

	return Result{
		TotalScore: total,
		Components: components,
		Class:      Classify(components, ev),
		Confidence: EstimateConfidence(total, cellTypeMatched, replicateCount),
	}
}
