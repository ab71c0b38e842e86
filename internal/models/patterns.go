package models

import "time"

// TimeOfDay buckets an hour into the bands used for preference matching and
// adherence statistics.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
)

// PreferenceNone is the preferred-time setting value meaning "no preference".
const PreferenceNone = "no_preference"

// TimeOfDayForHour maps an hour of day (0-23) to its band. Morning runs
// until noon, afternoon until 17:00, evening after that.
func TimeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour < 12:
		return Morning
	case hour < 17:
		return Afternoon
	default:
		return Evening
	}
}

// UserActivityPatterns holds rolling statistics rebuilt from step and workout
// history. Rates are in [0,1].
type UserActivityPatterns struct {
	AverageDailySteps   float64        `json:"average_daily_steps"`
	WeekdayAverageSteps float64        `json:"weekday_average_steps"`
	WeekendAverageSteps float64        `json:"weekend_average_steps"`
	BestPerformingDays  []time.Weekday `json:"best_performing_days"`
	PeakActivityHours   []int          `json:"peak_activity_hours"`
	StepsPerMinute      float64        `json:"steps_per_minute"`
	GoalAchievementRate float64        `json:"goal_achievement_rate"`
	ConsistentWalkTimes []string       `json:"consistent_walk_times,omitempty"` // HH:MM
	WorkoutDaysPerWeek  float64        `json:"workout_days_per_week"`
	SampleDays          int            `json:"sample_days"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// PlanAdherence tracks completion vs. skip outcomes for planned activities,
// bucketed by time of day. Rates are in [0,1].
type PlanAdherence struct {
	ActivitiesCompleted   int                   `json:"activities_completed"`
	ActivitiesSkipped     int                   `json:"activities_skipped"`
	BestTimeSlots         map[TimeOfDay]float64 `json:"best_time_slots"`
	AverageCompletionRate float64               `json:"average_completion_rate"`
}

// CompletionRate returns completions over total outcomes, or zero before any
// outcome has been recorded.
func (a PlanAdherence) CompletionRate() float64 {
	total := a.ActivitiesCompleted + a.ActivitiesSkipped
	if total == 0 {
		return 0
	}
	return float64(a.ActivitiesCompleted) / float64(total)
}
