package storage

import (
	"errors"

	"github.com/strideapp/stride/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleEpoch is returned when a plan save carries an older epoch than
	// the stored plan. The newest generation wins; stale writers must drop
	// their result.
	ErrStaleEpoch = errors.New("plan epoch is older than the stored plan")
)

// KV is the narrow get/put contract the statistics components persist
// through. Values are opaque strings; callers own the encoding.
type KV interface {
	// GetValue returns the stored value and whether the key exists.
	GetValue(key string) (string, bool, error)
	PutValue(key, value string) error
	DeleteValue(key string) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Meetings
	AddMeeting(models.CalendarMeeting) error
	GetMeeting(id string) (models.CalendarMeeting, error)
	// GetMeetingsForDate returns non-deleted meetings overlapping the given
	// date (YYYY-MM-DD), ordered by start time.
	GetMeetingsForDate(date string) ([]models.CalendarMeeting, error)
	// GetAllMeetings returns every meeting, deleted ones included. Used to
	// copy data between stores.
	GetAllMeetings() ([]models.CalendarMeeting, error)
	UpdateMeeting(models.CalendarMeeting) error
	DeleteMeeting(id string) error

	// Daily steps
	SaveDailySteps(models.DailySteps) error
	GetDailySteps(date string) (models.DailySteps, error)
	// GetDailyStepsRange returns records with startDate <= date <= endDate,
	// ordered by date. Days with no record are absent, not zero-filled.
	GetDailyStepsRange(startDate, endDate string) ([]models.DailySteps, error)

	// Workouts
	AddWorkout(models.Workout) error
	GetWorkoutsForDate(date string) ([]models.Workout, error)
	GetWorkoutsRange(startDate, endDate string) ([]models.Workout, error)
	DeleteWorkout(id string) error

	// Plans
	// SavePlan replaces the stored plan for plan.Date wholesale, in one
	// transaction. A save whose Epoch is below the stored plan's fails with
	// ErrStaleEpoch.
	SavePlan(models.MovementPlan) error
	GetPlan(date string) (models.MovementPlan, error)
	GetAllPlans() ([]models.MovementPlan, error)
	DeletePlan(date string) error
	// UpdateActivityStatus marks a single activity completed / skipped /
	// rescheduled without touching the rest of the plan.
	UpdateActivityStatus(date, activityID string, status models.ActivityStatus) error

	// Key-value state for the statistics components
	KV

	// Utils
	GetConfigPath() string
}
