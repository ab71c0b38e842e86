package models

import "time"

// MovementPlan is the allocator output for one date: the ordered activity
// list plus the numbers that explain it.
type MovementPlan struct {
	Date           string            `json:"date"` // YYYY-MM-DD
	Activities     []PlannedActivity `json:"activities"`
	StepsNeeded    int               `json:"steps_needed"`  // gap the plan was asked to close
	PlannedSteps   int               `json:"planned_steps"` // steps the activities are expected to add
	MeetingSteps   int               `json:"meeting_steps"` // steps attributed to recommended walking meetings
	Confidence     float64           `json:"confidence"`
	Reasoning      string            `json:"reasoning"`
	Epoch          int64             `json:"epoch"` // generation stamp; newer epochs supersede older ones
	GeneratedAt    time.Time         `json:"generated_at"`
	WalkableEvents []string          `json:"walkable_events,omitempty"` // meeting IDs recommended as walking meetings
}

// RemainingGap returns the step shortfall the plan could not cover.
func (p MovementPlan) RemainingGap() int {
	gap := p.StepsNeeded - p.PlannedSteps - p.MeetingSteps
	if gap < 0 {
		return 0
	}
	return gap
}
