package planner

import "github.com/strideapp/stride/internal/constants"

// Reasoning coverage thresholds.
const (
	coverageFull = 0.90
	coverageMost = 0.70
)

// Confidence blends plan coverage with the user's historical goal rate.
// Capped below 1: a plan is never a certainty.
func Confidence(stepsNeeded, coveredSteps int, goalRate float64) float64 {
	confidence := constants.ConfidenceCoverageWeight*coverage(stepsNeeded, coveredSteps) +
		constants.ConfidenceHistoryWeight*clamp01(goalRate)
	if confidence > constants.ConfidenceCap {
		return constants.ConfidenceCap
	}
	return confidence
}

// Reasoning summarizes the plan in one line from how much of the gap it
// covers.
func Reasoning(stepsNeeded, coveredSteps, walkableMeetings int) string {
	if stepsNeeded <= 0 {
		return "You've already reached your step goal for the day."
	}
	switch cov := coverage(stepsNeeded, coveredSteps); {
	case cov >= coverageFull:
		return "The planned walks cover your step goal."
	case cov >= coverageMost:
		if walkableMeetings > 0 {
			return "The plan covers most of your goal; taking a walkable meeting on foot closes the rest."
		}
		return "The plan covers most of your goal; a small gap remains."
	default:
		return "Limited free time today; a step gap remains after planning."
	}
}

func coverage(needed, covered int) float64 {
	if needed <= 0 {
		return 1
	}
	c := float64(covered) / float64(needed)
	if c > 1 {
		return 1
	}
	return c
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
