package patterns

import (
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// DefaultAdherence returns adherence stats with every time-of-day bucket at
// the neutral prior. Also the documented fallback for unreadable state.
func DefaultAdherence() models.PlanAdherence {
	return models.PlanAdherence{
		BestTimeSlots: map[models.TimeOfDay]float64{
			models.Morning:   constants.AdherenceNeutralRate,
			models.Afternoon: constants.AdherenceNeutralRate,
			models.Evening:   constants.AdherenceNeutralRate,
		},
	}
}

// RecordOutcome folds one completion or skip into the adherence stats. The
// per-bucket rate moves by exponential moving average so old behavior decays
// rather than dominating.
func RecordOutcome(adh *models.PlanAdherence, tod models.TimeOfDay, completed bool) {
	if adh.BestTimeSlots == nil {
		adh.BestTimeSlots = DefaultAdherence().BestTimeSlots
	}

	outcome := 0.0
	if completed {
		outcome = 1.0
		adh.ActivitiesCompleted++
	} else {
		adh.ActivitiesSkipped++
	}

	prev, ok := adh.BestTimeSlots[tod]
	if !ok {
		prev = constants.AdherenceNeutralRate
	}
	adh.BestTimeSlots[tod] = constants.AdherenceNewWeight*outcome + constants.AdherenceExistingWeight*prev
	adh.AverageCompletionRate = adh.CompletionRate()
}

// RateFor reads a bucket's completion rate, falling back to the neutral
// prior for buckets with no observations yet.
func RateFor(adh models.PlanAdherence, tod models.TimeOfDay) float64 {
	if adh.BestTimeSlots == nil {
		return constants.AdherenceNeutralRate
	}
	rate, ok := adh.BestTimeSlots[tod]
	if !ok {
		return constants.AdherenceNeutralRate
	}
	return rate
}
