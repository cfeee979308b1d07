package enhancer

// poisedH3K27me3Threshold is the H3K27me3 z-score above which an
// H3K4me1-marked region is considered poised. It is independent of Criteria.
const poisedH3K27me3Threshold = 2.0

// Classify maps the scored components to a chromatin state. Rules are
// checked in order and the first match wins, so a region that is both
// active and poised is reported active.
func Classify(components map[string]float64, ev Evidence) Class {
	h3k27ac := components[ComponentH3K27ac] > 0
	h3k4me1 := components[ComponentH3K4me1] > 0
	accessible := components[ComponentAccessibility] > 0

	switch {
	case h3k27ac && accessible:
		return ClassActive
	case h3k4me1 && accessible && !h3k27ac:
		return ClassPrimed
	case h3k4me1 && ev.H3K27me3 > poisedH3K27me3Threshold:
		return ClassPoised
	default:
		return ClassNone
	}
}
