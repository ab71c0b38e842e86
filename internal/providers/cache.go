package providers

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

const cacheMaxDates = 64

// CachedCalendar memoizes per-date event lookups so a planning pass that
// reads the same day several times hits the upstream calendar once. Writes
// through it invalidate the affected dates.
type CachedCalendar struct {
	upstream Calendar
	cache    *otter.Cache[string, []models.CalendarMeeting]
}

func NewCachedCalendar(upstream Calendar, ttl time.Duration) *CachedCalendar {
	cache := otter.Must(&otter.Options[string, []models.CalendarMeeting]{
		MaximumSize:      cacheMaxDates,
		ExpiryCalculator: otter.ExpiryWriting[string, []models.CalendarMeeting](ttl),
	})
	return &CachedCalendar{upstream: upstream, cache: cache}
}

func (c *CachedCalendar) Events(ctx context.Context, date string) ([]models.CalendarMeeting, error) {
	if events, ok := c.cache.GetIfPresent(date); ok {
		return events, nil
	}
	events, err := c.upstream.Events(ctx, date)
	if err != nil {
		return nil, err
	}
	c.cache.Set(date, events)
	return events, nil
}

func (c *CachedCalendar) CreateEvent(ctx context.Context, meeting models.CalendarMeeting) (string, error) {
	id, err := c.upstream.CreateEvent(ctx, meeting)
	if err != nil {
		return "", err
	}
	c.cache.Invalidate(meeting.StartTime.Format(constants.DateFormat))
	return id, nil
}

func (c *CachedCalendar) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.upstream.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	// The ID alone doesn't carry a date; drop any cached day holding it.
	var stale []string
	for date, events := range c.cache.All() {
		for _, m := range events {
			if m.ID == eventID {
				stale = append(stale, date)
				break
			}
		}
	}
	for _, date := range stale {
		c.cache.Invalidate(date)
	}
	return nil
}
