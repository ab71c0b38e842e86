package models

import "time"

// MeetingSource tags where a calendar meeting came from.
type MeetingSource string

const (
	// MeetingSourceExternal marks meetings imported from the user's calendar.
	MeetingSourceExternal MeetingSource = "external"
	// MeetingSourceAutopilot marks calendar events this app created for
	// committed walks. They block time like any meeting but are never
	// candidates for walkability classification.
	MeetingSourceAutopilot MeetingSource = "autopilot"
)

// CalendarMeeting represents a calendar event for a single day.
type CalendarMeeting struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	AttendeeCount int           `json:"attendee_count"`
	IsOrganizer   bool          `json:"is_organizer"`
	IsAllDay      bool          `json:"is_all_day"`
	IsOutOfOffice bool          `json:"is_out_of_office"`
	Notes         string        `json:"notes,omitempty"`
	Source        MeetingSource `json:"source"`
	DeletedAt     *string       `json:"deleted_at,omitempty"` // RFC3339 timestamp
}

// IsRealMeeting reports whether the event occupies actual time on the
// calendar, as opposed to all-day markers and out-of-office blocks.
func (m CalendarMeeting) IsRealMeeting() bool {
	return !m.IsAllDay && !m.IsOutOfOffice
}

// DurationMinutes returns the meeting length in whole minutes.
func (m CalendarMeeting) DurationMinutes() int {
	return int(m.EndTime.Sub(m.StartTime).Minutes())
}
