package models

import "time"

// TrustLevel controls what autopilot may do with the walks it schedules.
type TrustLevel string

const (
	// TrustFullAuto commits walks straight to the calendar.
	TrustFullAuto TrustLevel = "full_auto"
	// TrustConfirmFirst queues walks for approval and notifies the user.
	TrustConfirmFirst TrustLevel = "confirm_first"
	// TrustSuggestOnly surfaces walks in-app and never writes the calendar.
	TrustSuggestOnly TrustLevel = "suggest_only"
)

// ParseTrustLevel validates a raw setting value. Anything unrecognized falls
// back to suggest-only, which never writes the calendar.
func ParseTrustLevel(raw string) TrustLevel {
	switch TrustLevel(raw) {
	case TrustFullAuto, TrustConfirmFirst, TrustSuggestOnly:
		return TrustLevel(raw)
	default:
		return TrustSuggestOnly
	}
}

// ApprovalState is the per-walk approval lifecycle: pending walks resolve to
// approved or rejected; approved walks may additionally gain a calendar
// event once committed.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// AutopilotWalk is one walk scheduled by the nightly autopilot run.
type AutopilotWalk struct {
	ID              string        `json:"id"`
	Date            string        `json:"date"` // YYYY-MM-DD
	StartTime       time.Time     `json:"start_time"`
	DurationMin     int           `json:"duration_min"`
	Type            ActivityType  `json:"type"`
	ApprovalState   ApprovalState `json:"approval_state"`
	CalendarEventID string        `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
}

// Committed reports whether the walk has been written to the calendar.
func (w AutopilotWalk) Committed() bool {
	return w.CalendarEventID != ""
}

// EndTime returns the instant the walk finishes.
func (w AutopilotWalk) EndTime() time.Time {
	return w.StartTime.Add(time.Duration(w.DurationMin) * time.Minute)
}

// AutopilotState is the persisted autopilot bookkeeping: the scheduled walk
// list plus the idempotency marker for the last scheduled date.
type AutopilotState struct {
	LastScheduledDate string          `json:"last_scheduled_date,omitempty"` // YYYY-MM-DD
	Walks             []AutopilotWalk `json:"walks"`
}
