package planner

import (
	"fmt"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/schedule"
	"github.com/strideapp/stride/internal/utils"
	"github.com/strideapp/stride/internal/walkability"
)

// workoutSlotMin is the open stretch a workout needs, including transitions.
const workoutSlotMin = 60

// AllocateWithWorkout plans a day that should carry a workout alongside its
// walks. The day's capacity decides the shape:
//   - no hour-long slot: the workout is dropped and the gap falls back to
//     walkable meetings and shorter slots;
//   - exactly one: the workout takes it, walks fill what's left;
//   - two or more: workout and the lead walk each take the slot that best
//     fits their own time-of-day preference, independently.
func AllocateWithWorkout(req Request, workoutMin int, workoutPref, walkPref string) Result {
	if workoutMin <= 0 {
		workoutMin = constants.DefaultWorkoutDurationMin
	}

	var long []schedule.FreeSlot
	for _, s := range req.Slots {
		if !s.IsDuringMeal && s.DurationMin >= workoutSlotMin {
			long = append(long, s)
		}
	}

	switch len(long) {
	case 0:
		return Allocate(req)
	case 1:
		workout := workoutActivity(long[0], workoutMin)
		res := Allocate(withSlots(req, exclude(req.Slots, long[0])))
		res.Activities = append(res.Activities, workout)
		sortByStart(res.Activities)
		return res
	default:
		return allocateSplit(req, long, workoutMin, workoutPref, walkPref)
	}
}

// allocateSplit handles days with several hour-long slots: the workout and
// the lead walk are placed first by preference fit, then the usual greedy
// pass mops up any remaining gap.
func allocateSplit(req Request, long []schedule.FreeSlot, workoutMin int, workoutPref, walkPref string) Result {
	pace := paceOrDefault(req.Patterns.StepsPerMinute)

	var res Result
	for _, m := range req.WalkableMeetings {
		res.MeetingSteps += walkability.EstimatedSteps(m.DurationMinutes(), pace)
	}
	remaining := req.StepsNeeded - res.MeetingSteps

	workoutSlot := bestByPreference(long, workoutPref)
	res.Activities = append(res.Activities, workoutActivity(workoutSlot, workoutMin))

	rest := exclude(req.Slots, workoutSlot)
	if remaining > 0 {
		walkSlot := bestByPreference(exclude(long, workoutSlot), walkPref)
		if walk, ok := walkFor(walkSlot, remaining, pace, req.Patterns); ok {
			res.Activities = append(res.Activities, walk)
			res.PlannedSteps += walk.EstimatedSteps
			remaining -= walk.EstimatedSteps
			rest = exclude(rest, walkSlot)
		}
	}

	sub := Allocate(Request{
		StepsNeeded: remaining,
		Slots:       rest,
		Patterns:    req.Patterns,
		Adherence:   req.Adherence,
	})
	res.Activities = append(res.Activities, sub.Activities...)
	res.PlannedSteps += sub.PlannedSteps

	sortByStart(res.Activities)
	return res
}

// bestByPreference picks the slot whose start hour best fits the preferred
// band. Ties go to the earlier slot; slots arrive in chronological order.
func bestByPreference(slots []schedule.FreeSlot, preference string) schedule.FreeSlot {
	best := slots[0]
	bestScore := PreferenceScore(best.Start.Hour(), preference)
	for _, s := range slots[1:] {
		if score := PreferenceScore(s.Start.Hour(), preference); score > bestScore {
			best, bestScore = s, score
		}
	}
	return best
}

func workoutActivity(slot schedule.FreeSlot, workoutMin int) models.PlannedActivity {
	duration := workoutMin
	if trimmed := slot.DurationMin - constants.SlotTrimMin; duration > trimmed {
		duration = trimmed
	}
	return models.PlannedActivity{
		ID:          activityID(slot),
		Type:        models.ActivityWorkout,
		StartTime:   slot.Start,
		DurationMin: duration,
		Priority:    models.PriorityRecommended,
		Status:      models.StatusPlanned,
		Reason:      fmt.Sprintf("%s open from %s, enough for a full workout", utils.FormatMinutes(slot.DurationMin), slot.Start.Format(constants.TimeFormat)),
	}
}

func withSlots(req Request, slots []schedule.FreeSlot) Request {
	req.Slots = slots
	return req
}

func exclude(slots []schedule.FreeSlot, drop schedule.FreeSlot) []schedule.FreeSlot {
	out := make([]schedule.FreeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Start.Equal(drop.Start) {
			continue
		}
		out = append(out, s)
	}
	return out
}
