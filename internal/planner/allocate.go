package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/schedule"
	"github.com/strideapp/stride/internal/utils"
	"github.com/strideapp/stride/internal/walkability"
)

// Request carries the inputs for one allocation pass. Allocate never
// mutates them.
type Request struct {
	// StepsNeeded is the gap between the daily goal and steps taken so far.
	StepsNeeded int
	// Slots are the day's free slots, in chronological order.
	Slots []schedule.FreeSlot
	// WalkableMeetings are the meetings recommended as movement; their
	// estimated steps count toward the gap before any slot is consumed.
	WalkableMeetings []models.CalendarMeeting
	Patterns         models.UserActivityPatterns
	Adherence        models.PlanAdherence
}

// Result is the outcome of an allocation pass.
type Result struct {
	// Activities are the planned walks (and workout, when requested), in
	// start-time order.
	Activities []models.PlannedActivity
	// PlannedSteps is the step total across planned activities.
	PlannedSteps int
	// MeetingSteps is the step total credited to walkable meetings.
	MeetingSteps int
}

// Allocate greedily fills the step gap with walks placed into the
// best-scoring free slots. Meal-flagged slots are left alone. Greedy by
// score is intentionally not globally optimal; every activity carries a
// reason the user can read.
func Allocate(req Request) Result {
	pace := paceOrDefault(req.Patterns.StepsPerMinute)

	var res Result
	for _, m := range req.WalkableMeetings {
		res.MeetingSteps += walkability.EstimatedSteps(m.DurationMinutes(), pace)
	}
	remaining := req.StepsNeeded - res.MeetingSteps

	for _, c := range rankSlots(req.Slots, req.Patterns, req.Adherence) {
		if remaining <= 0 {
			break
		}
		walk, ok := walkFor(c, remaining, pace, req.Patterns)
		if !ok {
			continue
		}
		res.Activities = append(res.Activities, walk)
		res.PlannedSteps += walk.EstimatedSteps
		remaining -= walk.EstimatedSteps
	}

	sortByStart(res.Activities)
	return res
}

// rankSlots orders plannable slots by score, best first. Ties break on the
// earlier start so identical inputs always rank identically.
func rankSlots(slots []schedule.FreeSlot, p models.UserActivityPatterns, adh models.PlanAdherence) []schedule.FreeSlot {
	type scored struct {
		slot  schedule.FreeSlot
		score float64
	}
	candidates := make([]scored, 0, len(slots))
	for _, s := range slots {
		if s.IsDuringMeal {
			continue
		}
		candidates = append(candidates, scored{slot: s, score: ScoreSlot(s, p, adh)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].slot.Start.Before(candidates[j].slot.Start)
	})

	ranked := make([]schedule.FreeSlot, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.slot
	}
	return ranked
}

// walkFor sizes a walk into the slot: long enough to close the remaining
// gap with a transition buffer, but never past the slot's trimmed length or
// the single-walk ceiling.
func walkFor(slot schedule.FreeSlot, remaining int, pace float64, p models.UserActivityPatterns) (models.PlannedActivity, bool) {
	minutesNeeded := int(math.Ceil(float64(remaining)/pace)) + constants.SlotTrimMin

	duration := slot.DurationMin - constants.SlotTrimMin
	if minutesNeeded < duration {
		duration = minutesNeeded
	}
	if duration > constants.MaxWalkDurationMin {
		duration = constants.MaxWalkDurationMin
	}
	if duration < constants.MinWalkDurationMin {
		return models.PlannedActivity{}, false
	}

	steps := walkability.EstimatedSteps(duration, pace)
	return models.PlannedActivity{
		ID:             activityID(slot),
		Type:           walkTypeFor(slot),
		StartTime:      slot.Start,
		DurationMin:    duration,
		EstimatedSteps: steps,
		Priority:       priorityFor(steps, remaining),
		Status:         models.StatusPlanned,
		Reason:         walkReason(slot, p),
	}, true
}

// activityID derives a stable ID from the slot start, so regenerating a plan
// from identical inputs reproduces it exactly.
func activityID(slot schedule.FreeSlot) string {
	return fmt.Sprintf("act-%s", slot.Start.Format("20060102-1504"))
}

// walkTypeFor names the walk by slot class and hour: micro slots stay micro
// walks, everything else goes by the hour band.
func walkTypeFor(slot schedule.FreeSlot) models.ActivityType {
	if slot.Class == schedule.ClassMicro {
		return models.ActivityMicroWalk
	}
	switch hour := slot.Start.Hour(); {
	case hour < 12:
		return models.ActivityMorningWalk
	case hour < 15:
		return models.ActivityLunchWalk
	default:
		return models.ActivityEveningWalk
	}
}

// priorityFor tiers an activity by the share of the remaining gap it covers.
func priorityFor(steps, remaining int) models.ActivityPriority {
	share := float64(steps) / float64(remaining)
	switch {
	case share > constants.CriticalGapShare:
		return models.PriorityCritical
	case share > constants.RecommendedGapShare:
		return models.PriorityRecommended
	default:
		return models.PriorityOptional
	}
}

func walkReason(slot schedule.FreeSlot, p models.UserActivityPatterns) string {
	parts := []string{fmt.Sprintf("%s free from %s", utils.FormatMinutes(slot.DurationMin), slot.Start.Format(constants.TimeFormat))}
	if isPeakHour(slot.Start.Hour(), p.PeakActivityHours) {
		parts = append(parts, "one of your most active hours")
	}
	if slot.IsPreferredTime {
		parts = append(parts, "matches your preferred time of day")
	}
	return strings.Join(parts, "; ")
}

func paceOrDefault(pace float64) float64 {
	if pace <= 0 {
		return constants.DefaultStepsPerMinute
	}
	return pace
}

func sortByStart(activities []models.PlannedActivity) {
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].StartTime.Before(activities[j].StartTime)
	})
}
