package detect

// TissueAdjustment scales detection thresholds for one tissue.
type TissueAdjustment struct {
	Name   string  `json:"name" yaml:"name"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// tissueAdjustments is keyed by UBERON ontology id.
var tissueAdjustments = map[string]TissueAdjustment{
	"UBERON:0000310": {Name: "breast", Factor: 1.0},
	"UBERON:0001264": {Name: "pancreatic", Factor: 1.2},
	"UBERON:0002048": {Name: "lung", Factor: 0.9},
	"UBERON:0001157": {Name: "colorectal", Factor: 1.1},
	"UBERON:0000955": {Name: "brain", Factor: 1.3},
	"UBERON:0002367": {Name: "prostate", Factor: 1.0},
}

// LookupTissue returns the adjustment for a UBERON id.
func LookupTissue(id string) (TissueAdjustment, bool) {
	adj, ok := tissueAdjustments[id]
	return adj, ok
}

// adjust scales every minimum threshold by the tissue factor. The H3K4me3
// ceiling and the mark counts are left unchanged.
func (t Thresholds) adjust(tissueID string) Thresholds {
	adj, ok := LookupTissue(tissueID)
	if !ok {
		return t
	}
	t.Name = t.Name + " (" + adj.Name + " tissue)"
	t.DNase *= adj.Factor
	t.H3K27ac *= adj.Factor
	t.H3K4me1 *= adj.Factor
	t.RNA *= adj.Factor
	return t
}
