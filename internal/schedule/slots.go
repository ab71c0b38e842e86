package schedule

import (
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/interval"
	"github.com/strideapp/stride/internal/models"
)

// SlotClass buckets a free slot by how much it can hold.
type SlotClass string

const (
	ClassMicro    SlotClass = "micro"    // up to 10 minutes
	ClassShort    SlotClass = "short"    // up to 20 minutes
	ClassStandard SlotClass = "standard" // up to 40 minutes
	ClassExtended SlotClass = "extended" // longer
)

// ClassForDuration maps a slot length in minutes to its class.
func ClassForDuration(min int) SlotClass {
	switch {
	case min <= constants.MicroSlotMax:
		return ClassMicro
	case min <= constants.ShortSlotMax:
		return ClassShort
	case min <= constants.StandardSlotMax:
		return ClassStandard
	default:
		return ClassExtended
	}
}

// FreeSlot is a gap between busy intervals that is long enough to plan into.
type FreeSlot struct {
	interval.Interval
	DurationMin     int
	Class           SlotClass
	IsDuringMeal    bool
	IsPreferredTime bool
}

// Config carries the per-date inputs for slot finding.
type Config struct {
	// Window is the buffered active window; an invalid window produces no slots.
	Window interval.Interval
	// MinDurationMin drops gaps shorter than this many minutes.
	MinDurationMin int
	// MealTimes are meal anchors on the date; slots near them are flagged,
	// not dropped. Filtering on the flag is the caller's call.
	MealTimes []time.Time
	// PreferredTime marks slots starting in the user's preferred band. Leave
	// empty for no preference.
	PreferredTime models.TimeOfDay
}

// FindFreeSlots computes the complement of the busy intervals within the
// active window. The busy list must be sorted by start time (as
// BuildBusyIntervals returns it); overlapping entries are handled by the
// cursor never moving backwards.
func FindFreeSlots(busy []BusyInterval, cfg Config) []FreeSlot {
	if !cfg.Window.IsValid() {
		return nil
	}
	minDur := cfg.MinDurationMin
	if minDur <= 0 {
		minDur = constants.MinSlotDuration
	}

	var slots []FreeSlot
	cursor := cfg.Window.Start

	for _, b := range busy {
		clamped, ok := b.ClampTo(cfg.Window)
		if !ok {
			continue
		}
		if clamped.Start.After(cursor) {
			gap := interval.New(cursor, clamped.Start)
			if gap.DurationMinutes() >= minDur {
				slots = append(slots, newSlot(gap, cfg))
			}
		}
		if clamped.End.After(cursor) {
			cursor = clamped.End
		}
	}

	if cfg.Window.End.After(cursor) {
		gap := interval.New(cursor, cfg.Window.End)
		if gap.DurationMinutes() >= minDur {
			slots = append(slots, newSlot(gap, cfg))
		}
	}
	return slots
}

func newSlot(gap interval.Interval, cfg Config) FreeSlot {
	dur := gap.DurationMinutes()
	return FreeSlot{
		Interval:        gap,
		DurationMin:     dur,
		Class:           ClassForDuration(dur),
		IsDuringMeal:    nearMeal(gap, cfg.MealTimes),
		IsPreferredTime: cfg.PreferredTime != "" && models.TimeOfDayForHour(gap.Start.Hour()) == cfg.PreferredTime,
	}
}

// SplitAroundMeals carves the buffered meal windows out of meal-flagged
// slots and returns the reshaped list. Unflagged slots pass through
// untouched. Fragments shorter than the configured minimum are dropped.
// Callers that exclude flagged slots outright would otherwise throw away a
// long slot because it happens to cross lunch; carving keeps the usable
// parts on either side.
func SplitAroundMeals(slots []FreeSlot, cfg Config) []FreeSlot {
	if len(cfg.MealTimes) == 0 {
		return slots
	}
	windows := interval.Merge(mealWindows(cfg.MealTimes))
	minDur := cfg.MinDurationMin
	if minDur <= 0 {
		minDur = constants.MinSlotDuration
	}

	var out []FreeSlot
	for _, s := range slots {
		if !s.IsDuringMeal {
			out = append(out, s)
			continue
		}
		cursor := s.Start
		for _, w := range windows {
			clamped, ok := w.ClampTo(s.Interval)
			if !ok {
				continue
			}
			if clamped.Start.After(cursor) {
				gap := interval.New(cursor, clamped.Start)
				if gap.DurationMinutes() >= minDur {
					out = append(out, newSlot(gap, cfg))
				}
			}
			if clamped.End.After(cursor) {
				cursor = clamped.End
			}
		}
		if s.End.After(cursor) {
			gap := interval.New(cursor, s.End)
			if gap.DurationMinutes() >= minDur {
				out = append(out, newSlot(gap, cfg))
			}
		}
	}
	return out
}

// nearMeal reports whether the slot touches the buffered window around any
// configured meal time.
func nearMeal(gap interval.Interval, meals []time.Time) bool {
	for _, w := range mealWindows(meals) {
		if gap.Overlaps(w) {
			return true
		}
	}
	return false
}

// mealWindows expands meal anchors into their buffered windows.
func mealWindows(meals []time.Time) []interval.Interval {
	buf := time.Duration(constants.MealBufferMin) * time.Minute
	windows := make([]interval.Interval, 0, len(meals))
	for _, m := range meals {
		windows = append(windows, interval.New(m.Add(-buf), m.Add(buf)))
	}
	return windows
}
