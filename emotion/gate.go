package emotion

const (
	DefaultMinConfidence = 0.4
	VideoMinConfidence   = 0.3
)

// ShouldDisplay suppresses low-confidence results. An explicit confidence
// wins over the probability mapping; with neither the result is shown.
func ShouldDisplay(r Result, threshold float64) bool {
	if r.Confidence != nil {
		return *r.Confidence >= threshold
	}
	if r.Probabilities != nil {
		top, ok := r.Probabilities.Max()
		return ok && top >= threshold
	}
	return true
}
