package pipeline

import (
	"neuroflow/internal/config"
	"neuroflow/internal/detect"
)

// Counts is the per-frame aggregate over the class whitelist. Every
// whitelisted class is present, missing classes count as 0.
type Counts map[string]int

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Aggregate filters detections by the class whitelist and the confidence
// threshold. A detection at exactly the threshold is excluded.
func Aggregate(detections []detect.Detection, policy config.PipelineConfig) Counts {
	counts := make(Counts, len(policy.Classes))
	for _, class := range policy.Classes {
		counts[class] = 0
	}
	for _, d := range detections {
		if _, ok := counts[d.Label]; !ok {
			continue
		}
		if d.Confidence <= policy.ConfThreshold {
			continue
		}
		counts[d.Label]++
	}
	return counts
}
