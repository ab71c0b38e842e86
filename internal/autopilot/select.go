package autopilot

import (
	"fmt"
	"sort"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/interval"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/schedule"
)

// category is one fixed time-of-day band. The bands cover the whole day, so
// every slot lands in exactly one of them.
type category struct {
	name     string
	fromHour int // inclusive
	toHour   int // exclusive
	walkType models.ActivityType
}

// categories, in pick order. The walk type follows the category, not the
// raw start hour, so a band never labels its picks with another band's name.
var categories = []category{
	{"morning", 0, 11, models.ActivityMorningWalk},
	{"midday", 11, 14, models.ActivityLunchWalk},
	{"afternoon", 14, 17, models.ActivityStandardWalk},
	{"evening", 17, 24, models.ActivityEveningWalk},
}

func (c category) contains(hour int) bool {
	return hour >= c.fromHour && hour < c.toHour
}

// pickWalks selects the date's walks: the best free slot per category in pick
// order, up to target, then 5-15 minute gaps as micro walks when the target
// is unmet and micro walks are enabled. Every pair of selected walks keeps at
// least spacingMin minutes of clearance. Pure and deterministic: identical
// slots always yield identical walks.
func pickWalks(date string, slots []schedule.FreeSlot, target, spacingMin int, microFallback bool) []models.AutopilotWalk {
	if target <= 0 {
		return nil
	}

	var picked []models.AutopilotWalk
	for _, cat := range categories {
		if len(picked) >= target {
			break
		}
		if walk, ok := bestCategoryWalk(date, slots, cat, picked, spacingMin); ok {
			picked = append(picked, walk)
		}
	}

	if microFallback && len(picked) < target {
		for _, slot := range microGaps(slots) {
			if len(picked) >= target {
				break
			}
			walk := microWalk(date, slot)
			if !spaced(walkSpan(walk), picked, spacingMin) {
				continue
			}
			picked = append(picked, walk)
		}
	}

	sort.Slice(picked, func(i, j int) bool {
		return picked[i].StartTime.Before(picked[j].StartTime)
	})
	return picked
}

// bestCategoryWalk picks the category's longest plannable slot, earliest on
// ties. Meal-flagged slots and micro gaps are not category material.
func bestCategoryWalk(date string, slots []schedule.FreeSlot, cat category, picked []models.AutopilotWalk, spacingMin int) (models.AutopilotWalk, bool) {
	var best schedule.FreeSlot
	found := false
	for _, s := range slots {
		if s.IsDuringMeal || s.DurationMin <= constants.MicroWalkMaxMin {
			continue
		}
		if !cat.contains(s.Start.Hour()) {
			continue
		}
		walk := categoryWalk(date, s, cat)
		if walk.DurationMin < constants.MinWalkDurationMin {
			continue
		}
		if !spaced(walkSpan(walk), picked, spacingMin) {
			continue
		}
		if !found || s.DurationMin > best.DurationMin ||
			(s.DurationMin == best.DurationMin && s.Start.Before(best.Start)) {
			best, found = s, true
		}
	}
	if !found {
		return models.AutopilotWalk{}, false
	}
	return categoryWalk(date, best, cat), true
}

// microGaps returns the 5-15 minute slots, longest first so fallback walks
// are as substantial as the gaps allow.
func microGaps(slots []schedule.FreeSlot) []schedule.FreeSlot {
	var gaps []schedule.FreeSlot
	for _, s := range slots {
		if s.IsDuringMeal {
			continue
		}
		if s.DurationMin < constants.MinWalkDurationMin || s.DurationMin > constants.MicroWalkMaxMin {
			continue
		}
		gaps = append(gaps, s)
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].DurationMin != gaps[j].DurationMin {
			return gaps[i].DurationMin > gaps[j].DurationMin
		}
		return gaps[i].Start.Before(gaps[j].Start)
	})
	return gaps
}

// categoryWalk sizes a standard walk into the slot: the slot's trimmed length
// capped at the autopilot walk duration.
func categoryWalk(date string, slot schedule.FreeSlot, cat category) models.AutopilotWalk {
	duration := slot.DurationMin - constants.SlotTrimMin
	if duration > constants.AutopilotWalkDurationMin {
		duration = constants.AutopilotWalkDurationMin
	}
	return newWalk(date, slot.Start, duration, cat.walkType)
}

// microWalk uses the whole gap; gaps this short cannot afford a transition
// trim.
func microWalk(date string, slot schedule.FreeSlot) models.AutopilotWalk {
	duration := slot.DurationMin
	if duration > constants.MicroWalkMaxMin {
		duration = constants.MicroWalkMaxMin
	}
	return newWalk(date, slot.Start, duration, models.ActivityMicroWalk)
}

func newWalk(date string, start time.Time, durationMin int, typ models.ActivityType) models.AutopilotWalk {
	return models.AutopilotWalk{
		ID:            walkID(start),
		Date:          date,
		StartTime:     start,
		DurationMin:   durationMin,
		Type:          typ,
		ApprovalState: models.ApprovalPending,
	}
}

// walkID derives a stable ID from the start instant, which doubles as the
// one-active-walk-per-start uniqueness key.
func walkID(start time.Time) string {
	return fmt.Sprintf("walk-%s", start.Format("20060102-1504"))
}

func walkSpan(w models.AutopilotWalk) interval.Interval {
	return interval.New(w.StartTime, w.EndTime())
}

// spaced reports whether the candidate keeps at least spacingMin minutes of
// clearance from every already-selected walk. Overlapping or touching walks
// never qualify.
func spaced(candidate interval.Interval, picked []models.AutopilotWalk, spacingMin int) bool {
	for _, w := range picked {
		earlier, later := candidate, walkSpan(w)
		if later.Start.Before(earlier.Start) {
			earlier, later = later, earlier
		}
		gap, ok := earlier.GapTo(later)
		if !ok || gap.DurationMinutes() < spacingMin {
			return false
		}
	}
	return true
}
