package models

import "time"

// DailySteps is one day's step record. HourlySteps is optional; when present
// it maps hour-of-day (0-23) to the steps taken in that hour and feeds peak
// hour detection.
type DailySteps struct {
	Date        string      `json:"date"` // YYYY-MM-DD
	Steps       int         `json:"steps"`
	HourlySteps map[int]int `json:"hourly_steps,omitempty"`
}

// Workout represents a logged workout session.
type Workout struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Kind        string    `json:"kind"` // free-form: run, gym, yoga, ...
	StartTime   time.Time `json:"start_time"`
	DurationMin int       `json:"duration_min"`
	DeletedAt   *string   `json:"deleted_at,omitempty"` // RFC3339 timestamp
}
