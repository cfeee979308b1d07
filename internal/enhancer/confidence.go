package enhancer

// Confidence tier boundaries on the weighted score.
const (
	HighConfidenceScore      = 8.0
	ModerateConfidenceScore  = 5.0
	HighConfidenceReplicates = 2
)

// EstimateConfidence assigns a confidence tier to a weighted score.
//
// A cell-type mismatch is always LOW. HIGH needs a score of at least 8 and
// two or more replicates; MODERATE covers scores in [5, 8). Everything
// else is LOW, including a score of 8 or more from a single replicate.
func EstimateConfidence(totalScore float64, cellTypeMatched bool, replicateCount int) Confidence {
	if !cellTypeMatched {
		return ConfidenceLow
	}
	if totalScore >= HighConfidenceScore && replicateCount >= HighConfidenceReplicates {
		return ConfidenceHigh
	}
	if totalScore >= ModerateConfidenceScore && totalScore < HighConfidenceScore {
		return ConfidenceModerate
	}
	return ConfidenceLow
}
