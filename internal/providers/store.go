package providers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

// StoreCalendar serves calendar data from local storage. Events created
// through it are stamped with the autopilot source so classification never
// treats the engine's own bookings as walk candidates.
type StoreCalendar struct {
	store storage.Provider
}

func NewStoreCalendar(store storage.Provider) *StoreCalendar {
	return &StoreCalendar{store: store}
}

func (c *StoreCalendar) Events(_ context.Context, date string) ([]models.CalendarMeeting, error) {
	return c.store.GetMeetingsForDate(date)
}

func (c *StoreCalendar) CreateEvent(_ context.Context, meeting models.CalendarMeeting) (string, error) {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	meeting.Source = models.MeetingSourceAutopilot
	if err := c.store.AddMeeting(meeting); err != nil {
		return "", err
	}
	return meeting.ID, nil
}

func (c *StoreCalendar) DeleteEvent(_ context.Context, eventID string) error {
	return c.store.DeleteMeeting(eventID)
}

// StoreActivity serves step and workout history from local storage.
type StoreActivity struct {
	store storage.Provider
}

func NewStoreActivity(store storage.Provider) *StoreActivity {
	return &StoreActivity{store: store}
}

func (a *StoreActivity) Steps(_ context.Context, date string) (models.DailySteps, error) {
	rec, err := a.store.GetDailySteps(date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DailySteps{Date: date}, nil
	}
	return rec, err
}

func (a *StoreActivity) StepsRange(_ context.Context, startDate, endDate string) ([]models.DailySteps, error) {
	return a.store.GetDailyStepsRange(startDate, endDate)
}

func (a *StoreActivity) Workouts(_ context.Context, date string) ([]models.Workout, error) {
	return a.store.GetWorkoutsForDate(date)
}

func (a *StoreActivity) WorkoutsRange(_ context.Context, startDate, endDate string) ([]models.Workout, error) {
	return a.store.GetWorkoutsRange(startDate, endDate)
}
