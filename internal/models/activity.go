package models

import "time"

type ActivityType string

const (
	ActivityMicroWalk    ActivityType = "micro_walk"
	ActivityShortWalk    ActivityType = "short_walk"
	ActivityStandardWalk ActivityType = "standard_walk"
	ActivityMorningWalk  ActivityType = "morning_walk"
	ActivityLunchWalk    ActivityType = "lunch_walk"
	ActivityEveningWalk  ActivityType = "evening_walk"
	ActivityWorkout      ActivityType = "workout"
)

// IsWalk reports whether the activity type is any kind of walk.
func (t ActivityType) IsWalk() bool {
	return t != ActivityWorkout
}

type ActivityPriority string

const (
	PriorityCritical    ActivityPriority = "critical"
	PriorityRecommended ActivityPriority = "recommended"
	PriorityOptional    ActivityPriority = "optional"
)

type ActivityStatus string

const (
	StatusPlanned     ActivityStatus = "planned"
	StatusCompleted   ActivityStatus = "completed"
	StatusSkipped     ActivityStatus = "skipped"
	StatusRescheduled ActivityStatus = "rescheduled"
)

// PlannedActivity represents one walk or workout placed into a free slot.
// Activities for a date are owned by the plan that produced them and are
// replaced wholesale when the plan is regenerated.
type PlannedActivity struct {
	ID             string           `json:"id"`
	Type           ActivityType     `json:"type"`
	StartTime      time.Time        `json:"start_time"`
	DurationMin    int              `json:"duration_min"`
	EstimatedSteps int              `json:"estimated_steps"`
	Priority       ActivityPriority `json:"priority"`
	Status         ActivityStatus   `json:"status"`
	Reason         string           `json:"reason,omitempty"`
}

// EndTime returns the instant the activity finishes.
func (a PlannedActivity) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMin) * time.Minute)
}
