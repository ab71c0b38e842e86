package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/interval"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/walkability"
)

// ConflictType represents the type of schedule conflict
type ConflictType string

const (
	ConflictOverlappingActivities ConflictType = "overlapping_activities"
	ConflictMeetingCollision      ConflictType = "meeting_collision"
	ConflictInsufficientSpacing   ConflictType = "insufficient_spacing"
	ConflictInvalidDateTime       ConflictType = "invalid_datetime"
)

// ScheduleConflict represents a detected conflict in a day's movement schedule
type ScheduleConflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // IDs of the activities/walks/meetings involved
	TimeRange   string   // Human-readable time range (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []ScheduleConflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks movement plans against the calendar and the autopilot
// walk list. Conflicts are reported, never auto-resolved: the planner and
// autopilot each own their own placement logic, and a human decides what
// moves.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// timedItem is one scheduled movement block, from either source.
type timedItem struct {
	id    string
	label string
	span  interval.Interval
}

// CheckPlan validates one day's movement schedule: the plan's pending
// activities plus any autopilot walks for the same date, against the
// meetings the user actually has to sit in.
func (v *Validator) CheckPlan(plan models.MovementPlan, meetings []models.CalendarMeeting, walks []models.AutopilotWalk) ValidationResult {
	result := ValidationResult{Conflicts: []ScheduleConflict{}}

	planDate, err := time.Parse(constants.DateFormat, plan.Date)
	if err != nil {
		result.Conflicts = append(result.Conflicts, ScheduleConflict{
			Type:        ConflictInvalidDateTime,
			Description: fmt.Sprintf("Invalid plan date: %s", plan.Date),
			Date:        plan.Date,
		})
		return result // Can't continue validation without valid date
	}

	items := collectItems(plan, walks)

	// Sort by start time for deterministic conflict ordering
	sort.Slice(items, func(i, j int) bool {
		return items[i].span.Start.Before(items[j].span.Start)
	})

	// Check for overlapping movement items
	// O(n²) complexity - acceptable for a single day's handful of walks
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if a.span.Overlaps(b.span) {
				result.Conflicts = append(result.Conflicts, ScheduleConflict{
					Type: ConflictOverlappingActivities,
					Description: fmt.Sprintf("%s: %s \"%s\" overlaps \"%s\"",
						formatDate(planDate), timeRange(a.span), a.label, b.label),
					Date:      plan.Date,
					Items:     []string{a.id, b.id},
					TimeRange: timeRange(a.span),
				})
			}
		}
	}

	// Check for collisions with meetings that demand the user's presence
	for _, item := range items {
		for _, m := range meetings {
			if !meetingRequiresPresence(m) {
				continue
			}
			meetingSpan := interval.New(m.StartTime, m.EndTime)
			if item.span.Overlaps(meetingSpan) {
				result.Conflicts = append(result.Conflicts, ScheduleConflict{
					Type: ConflictMeetingCollision,
					Description: fmt.Sprintf("%s: \"%s\" (%s) collides with meeting \"%s\" (%s)",
						formatDate(planDate), item.label, timeRange(item.span), m.Title, timeRange(meetingSpan)),
					Date:      plan.Date,
					Items:     []string{item.id, m.ID},
					TimeRange: timeRange(meetingSpan),
				})
			}
		}
	}

	// Check spacing between consecutive movement items. Back-to-back walks
	// defeat the point of spreading movement through the day.
	for i := 1; i < len(items); i++ {
		prev, next := items[i-1], items[i]
		gapMin := 0
		if gap, ok := prev.span.GapTo(next.span); ok {
			gapMin = gap.DurationMinutes()
		} else if prev.span.Overlaps(next.span) {
			continue // already reported
		}
		// Touching items fall through with a zero gap.
		if gapMin < constants.MinWalkSpacingMin {
			result.Conflicts = append(result.Conflicts, ScheduleConflict{
				Type: ConflictInsufficientSpacing,
				Description: fmt.Sprintf("%s: only %d min between \"%s\" and \"%s\" (minimum %d)",
					formatDate(planDate), gapMin, prev.label, next.label, constants.MinWalkSpacingMin),
				Date:      plan.Date,
				Items:     []string{prev.id, next.id},
				TimeRange: fmt.Sprintf("%s-%s", prev.span.End.Format(constants.TimeFormat), next.span.Start.Format(constants.TimeFormat)),
			})
		}
	}

	return result
}

// collectItems gathers the movement blocks that can still collide: pending
// plan activities and unrejected autopilot walks for the plan's date.
// Completed, skipped and rescheduled activities have vacated their slots.
func collectItems(plan models.MovementPlan, walks []models.AutopilotWalk) []timedItem {
	var items []timedItem
	for _, a := range plan.Activities {
		if a.Status != models.StatusPlanned {
			continue
		}
		items = append(items, timedItem{
			id:    a.ID,
			label: activityLabel(a.Type),
			span:  interval.New(a.StartTime, a.EndTime()),
		})
	}
	for _, w := range walks {
		if w.Date != plan.Date || w.ApprovalState == models.ApprovalRejected {
			continue
		}
		items = append(items, timedItem{
			id:    w.ID,
			label: "autopilot " + activityLabel(w.Type),
			span:  interval.New(w.StartTime, w.EndTime()),
		})
	}
	return items
}

// meetingRequiresPresence reports whether overlapping this meeting is a real
// conflict. Walking 1:1s and background-listenable calls are the two classes
// a walk may legitimately share time with, and autopilot's own calendar
// events are the walks themselves.
func meetingRequiresPresence(m models.CalendarMeeting) bool {
	if !m.IsRealMeeting() {
		return false
	}
	if m.Source == models.MeetingSourceAutopilot {
		return false
	}
	return !walkability.IsWalkingOneOnOne(m) && !walkability.IsBackgroundListenable(m)
}

// Helper functions

func activityLabel(t models.ActivityType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

func timeRange(span interval.Interval) string {
	return fmt.Sprintf("%s-%s", span.Start.Format(constants.TimeFormat), span.End.Format(constants.TimeFormat))
}

func formatDate(t time.Time) string {
	// Format as "Mon" for day of week abbreviation
	return t.Format("Mon")
}
