package constants

const (
	// Adherence adjustment constants:
	// - AdherenceExistingWeight and AdherenceNewWeight are exponential moving
	//   average (EMA) weights for the stored completion rate and the newest
	//   outcome. They must sum to 1.0.
	// - AdherenceNeutralRate is the prior used for a time-of-day bucket before
	//   its first recorded outcome.
	AdherenceExistingWeight = 0.8
	AdherenceNewWeight      = 0.2
	AdherenceNeutralRate    = 0.5

	// PatternLookbackDays is the history window for rebuilding activity patterns.
	PatternLookbackDays = 30

	// PeakHourMultiplier marks an hour as a peak when its step count reaches
	// this multiple of the day's hourly mean.
	PeakHourMultiplier = 1.5
)

func init() {
	// Runtime validation: ensure EMA weights sum to 1.0
	if AdherenceExistingWeight+AdherenceNewWeight != 1.0 {
		panic("AdherenceExistingWeight and AdherenceNewWeight must sum to 1.0")
	}
}
