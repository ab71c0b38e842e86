package planner

import (
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/patterns"
	"github.com/strideapp/stride/internal/schedule"
)

// Slot score components. The adherence term scales with the historical
// completion rate for the slot's time of day, so slots the user actually
// follows through on rise over time.
const (
	scorePeakHour        = 0.3
	scorePreferredTime   = 0.25
	scoreUsefulDuration  = 0.2
	scoreAmpleDuration   = 0.15
	scoreAdherenceWeight = 0.3

	usefulDurationMin = 20
	ampleDurationMin  = 30
)

// ScoreSlot rates a free slot for walk placement. Deterministic for
// identical inputs.
func ScoreSlot(slot schedule.FreeSlot, p models.UserActivityPatterns, adh models.PlanAdherence) float64 {
	score := 0.0
	if isPeakHour(slot.Start.Hour(), p.PeakActivityHours) {
		score += scorePeakHour
	}
	if slot.IsPreferredTime {
		score += scorePreferredTime
	}
	if slot.DurationMin >= usefulDurationMin {
		score += scoreUsefulDuration
	}
	if slot.DurationMin >= ampleDurationMin {
		score += scoreAmpleDuration
	}
	score += scoreAdherenceWeight * patterns.RateFor(adh, models.TimeOfDayForHour(slot.Start.Hour()))
	return score
}

func isPeakHour(hour int, peaks []int) bool {
	for _, p := range peaks {
		if p == hour {
			return true
		}
	}
	return false
}

// preferenceTable scores how well a time-of-day band fits a preference:
// 3 exact, 2 neutral (no preference), 1 adjacent band, 0 opposite end.
var preferenceTable = map[string]map[models.TimeOfDay]int{
	string(models.Morning):   {models.Morning: 3, models.Afternoon: 1, models.Evening: 0},
	string(models.Afternoon): {models.Morning: 1, models.Afternoon: 3, models.Evening: 1},
	string(models.Evening):   {models.Morning: 0, models.Afternoon: 1, models.Evening: 3},
	models.PreferenceNone:    {models.Morning: 2, models.Afternoon: 2, models.Evening: 2},
}

// PreferenceScore rates an hour of day against a preferred band. Unknown
// preference values count as no preference.
func PreferenceScore(hour int, preference string) int {
	bands, ok := preferenceTable[preference]
	if !ok {
		bands = preferenceTable[models.PreferenceNone]
	}
	return bands[models.TimeOfDayForHour(hour)]
}
