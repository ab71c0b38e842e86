package schedule

import (
	"sort"

	"github.com/strideapp/stride/internal/interval"
	"github.com/strideapp/stride/internal/models"
)

// BusySource tags what produced a busy interval.
type BusySource string

const (
	SourceMeeting  BusySource = "meeting"
	SourceActivity BusySource = "activity"
)

// BusyInterval is a time range already spoken for on a date.
type BusyInterval struct {
	interval.Interval
	Source BusySource
	Label  string
}

// BuildBusyIntervals unions real calendar meetings and already-committed
// activities into one list sorted by start time. All-day and out-of-office
// events are skipped; they do not block time.
func BuildBusyIntervals(meetings []models.CalendarMeeting, activities []models.PlannedActivity) []BusyInterval {
	busy := make([]BusyInterval, 0, len(meetings)+len(activities))

	for _, m := range meetings {
		if !m.IsRealMeeting() {
			continue
		}
		iv := interval.New(m.StartTime, m.EndTime)
		if !iv.IsValid() {
			continue
		}
		busy = append(busy, BusyInterval{Interval: iv, Source: SourceMeeting, Label: m.Title})
	}

	for _, a := range activities {
		iv := interval.New(a.StartTime, a.EndTime())
		if !iv.IsValid() {
			continue
		}
		busy = append(busy, BusyInterval{Interval: iv, Source: SourceActivity, Label: string(a.Type)})
	}

	sort.Slice(busy, func(i, j int) bool {
		if !busy[i].Start.Equal(busy[j].Start) {
			return busy[i].Start.Before(busy[j].Start)
		}
		return busy[i].End.Before(busy[j].End)
	})
	return busy
}

// TotalBusyMinutes sums the merged busy time, counting overlapping intervals
// once.
func TotalBusyMinutes(busy []BusyInterval) int {
	ivs := make([]interval.Interval, len(busy))
	for i, b := range busy {
		ivs[i] = b.Interval
	}
	total := 0
	for _, iv := range interval.Merge(ivs) {
		total += iv.DurationMinutes()
	}
	return total
}
