package pipeline

// DensityScore is the weighted sum of per-class counts. Pure and
// deterministic, no smoothing across frames: each frame scores independently.
func DensityScore(counts Counts, weights map[string]float64) float64 {
	score := 0.0
	for class, n := range counts {
		score += float64(n) * weights[class]
	}
	return score
}
