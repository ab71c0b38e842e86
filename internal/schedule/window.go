package schedule

import (
	"fmt"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/interval"
	"github.com/strideapp/stride/internal/utils"
)

// ActiveWindow computes the plannable window for a date: one hour after wake
// to one hour before sleep, never past the hard day-end ceiling. A
// misconfigured wake/sleep pair (start at or after end) yields an invalid
// window, which downstream slot finding treats as "no free time" rather than
// an error.
func ActiveWindow(date time.Time, wakeTime, sleepTime string) (interval.Interval, error) {
	wakeMin, err := utils.ParseTimeToMinutes(wakeTime)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid wake time %q: %w", wakeTime, err)
	}
	sleepMin, err := utils.ParseTimeToMinutes(sleepTime)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("invalid sleep time %q: %w", sleepTime, err)
	}

	startMin := wakeMin + constants.WakeBufferMin
	endMin := sleepMin - constants.SleepBufferMin
	if hardEnd := constants.HardDayEndHour * 60; endMin > hardEnd {
		endMin = hardEnd
	}
	if startMin >= endMin {
		return interval.Interval{}, nil
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return interval.New(
		midnight.Add(time.Duration(startMin)*time.Minute),
		midnight.Add(time.Duration(endMin)*time.Minute),
	), nil
}

// MealInstants resolves configured HH:MM meal times to instants on the given
// date. Unparseable entries are skipped.
func MealInstants(date string, mealTimes []string, loc *time.Location) []time.Time {
	instants := make([]time.Time, 0, len(mealTimes))
	for _, mt := range mealTimes {
		t, err := utils.CombineDateAndTime(date, mt, loc)
		if err != nil {
			continue
		}
		instants = append(instants, t)
	}
	return instants
}
