package providers

import (
	"context"

	"github.com/strideapp/stride/internal/models"
)

// Calendar supplies the meetings for a day and accepts the movement events
// the engine books back onto it. Implementations may sit in front of a
// remote calendar, so every call takes a context.
type Calendar interface {
	// Events returns the meetings overlapping the given date (YYYY-MM-DD),
	// ordered by start time.
	Events(ctx context.Context, date string) ([]models.CalendarMeeting, error)
	// CreateEvent books a new event and returns its ID.
	CreateEvent(ctx context.Context, meeting models.CalendarMeeting) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Activity supplies recorded movement history: step counts and workouts.
type Activity interface {
	// Steps returns the day's record. A day with no record yet comes back
	// as a zero count, not an error.
	Steps(ctx context.Context, date string) (models.DailySteps, error)
	// StepsRange returns records with startDate <= date <= endDate, ordered
	// by date. Days with no record are absent from the result.
	StepsRange(ctx context.Context, startDate, endDate string) ([]models.DailySteps, error)
	Workouts(ctx context.Context, date string) ([]models.Workout, error)
	WorkoutsRange(ctx context.Context, startDate, endDate string) ([]models.Workout, error)
}
