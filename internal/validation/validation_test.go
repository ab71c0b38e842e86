package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/strideapp/stride/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func plannedWalk(id string, start time.Time, durationMin int) models.PlannedActivity {
	return models.PlannedActivity{
		ID:          id,
		Type:        models.ActivityShortWalk,
		StartTime:   start,
		DurationMin: durationMin,
		Priority:    models.PriorityRecommended,
		Status:      models.StatusPlanned,
	}
}

func planWith(activities ...models.PlannedActivity) models.MovementPlan {
	return models.MovementPlan{
		Date:       "2026-03-10",
		Activities: activities,
	}
}

func hasConflictType(result ValidationResult, want ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == want {
			return true
		}
	}
	return false
}

func TestCheckPlan_NoConflicts(t *testing.T) {
	validator := New()

	plan := planWith(
		plannedWalk("act-1", at(9, 0), 20),
		plannedWalk("act-2", at(15, 0), 30),
	)
	meetings := []models.CalendarMeeting{
		{
			ID:            "mtg-1",
			Title:         "Design review",
			StartTime:     at(11, 0),
			EndTime:       at(12, 0),
			AttendeeCount: 3,
		},
	}

	result := validator.CheckPlan(plan, meetings, nil)

	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got: %s", result.FormatReport())
	}
	if report := result.FormatReport(); report != "No conflicts detected." {
		t.Errorf("FormatReport() = %q, want %q", report, "No conflicts detected.")
	}
}

func TestCheckPlan_OverlappingActivities(t *testing.T) {
	validator := New()

	plan := planWith(
		plannedWalk("act-1", at(9, 0), 30),
		plannedWalk("act-2", at(9, 15), 30),
	)

	result := validator.CheckPlan(plan, nil, nil)

	if !hasConflictType(result, ConflictOverlappingActivities) {
		t.Fatalf("Expected ConflictOverlappingActivities, got: %s", result.FormatReport())
	}
	// Overlapping pairs must not also be reported as too close
	if hasConflictType(result, ConflictInsufficientSpacing) {
		t.Errorf("Overlapping pair also reported as insufficient spacing: %s", result.FormatReport())
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictOverlappingActivities {
			if len(c.Items) != 2 || c.Items[0] != "act-1" || c.Items[1] != "act-2" {
				t.Errorf("Conflict.Items = %v, want [act-1 act-2]", c.Items)
			}
			if c.Date != "2026-03-10" {
				t.Errorf("Conflict.Date = %q, want 2026-03-10", c.Date)
			}
		}
	}
}

func TestCheckPlan_MeetingCollision(t *testing.T) {
	validator := New()

	plan := planWith(plannedWalk("act-1", at(11, 30), 30))
	meetings := []models.CalendarMeeting{
		{
			ID:            "mtg-1",
			Title:         "Sprint planning",
			StartTime:     at(11, 0),
			EndTime:       at(12, 0),
			AttendeeCount: 3, // too big for a walking 1:1, too small to listen in
		},
	}

	result := validator.CheckPlan(plan, meetings, nil)

	if !hasConflictType(result, ConflictMeetingCollision) {
		t.Fatalf("Expected ConflictMeetingCollision, got: %s", result.FormatReport())
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictMeetingCollision && !strings.Contains(c.Description, "Sprint planning") {
			t.Errorf("Description %q does not name the meeting", c.Description)
		}
	}
}

func TestCheckPlan_WalkableMeetingsAreNotCollisions(t *testing.T) {
	validator := New()

	plan := planWith(plannedWalk("act-1", at(11, 0), 30))

	tests := []struct {
		name    string
		meeting models.CalendarMeeting
	}{
		{
			name: "walking 1:1",
			meeting: models.CalendarMeeting{
				ID: "mtg-1", Title: "1:1 sync",
				StartTime: at(11, 0), EndTime: at(11, 30),
				AttendeeCount: 2,
			},
		},
		{
			name: "background listenable",
			meeting: models.CalendarMeeting{
				ID: "mtg-2", Title: "All hands",
				StartTime: at(11, 0), EndTime: at(12, 0),
				AttendeeCount: 40,
			},
		},
		{
			name: "all-day marker",
			meeting: models.CalendarMeeting{
				ID: "mtg-3", Title: "Conference",
				StartTime: at(0, 0), EndTime: at(23, 59),
				AttendeeCount: 3, IsAllDay: true,
			},
		},
		{
			name: "out of office",
			meeting: models.CalendarMeeting{
				ID: "mtg-4", Title: "OOO",
				StartTime: at(9, 0), EndTime: at(17, 0),
				AttendeeCount: 1, IsOutOfOffice: true,
			},
		},
		{
			name: "autopilot's own event",
			meeting: models.CalendarMeeting{
				ID: "mtg-5", Title: "Walk",
				StartTime: at(11, 0), EndTime: at(11, 30),
				AttendeeCount: 1, Source: models.MeetingSourceAutopilot,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.CheckPlan(plan, []models.CalendarMeeting{tt.meeting}, nil)
			if hasConflictType(result, ConflictMeetingCollision) {
				t.Errorf("Expected no meeting collision, got: %s", result.FormatReport())
			}
		})
	}
}

func TestCheckPlan_InsufficientSpacing(t *testing.T) {
	validator := New()

	// 20 minutes apart: 09:00-09:20 walk, 09:40-10:00 walk
	plan := planWith(
		plannedWalk("act-1", at(9, 0), 20),
		plannedWalk("act-2", at(9, 40), 20),
	)

	result := validator.CheckPlan(plan, nil, nil)

	if !hasConflictType(result, ConflictInsufficientSpacing) {
		t.Fatalf("Expected ConflictInsufficientSpacing, got: %s", result.FormatReport())
	}
	for _, c := range result.Conflicts {
		if c.Type == ConflictInsufficientSpacing {
			if !strings.Contains(c.Description, "only 20 min") {
				t.Errorf("Description = %q, want gap named", c.Description)
			}
			if c.TimeRange != "09:20-09:40" {
				t.Errorf("TimeRange = %q, want 09:20-09:40", c.TimeRange)
			}
		}
	}
}

func TestCheckPlan_BackToBackItemsAreTooClose(t *testing.T) {
	validator := New()

	plan := planWith(
		plannedWalk("act-1", at(9, 0), 20),
		plannedWalk("act-2", at(9, 20), 20),
	)

	result := validator.CheckPlan(plan, nil, nil)

	if hasConflictType(result, ConflictOverlappingActivities) {
		t.Errorf("Touching items reported as overlapping: %s", result.FormatReport())
	}
	if !hasConflictType(result, ConflictInsufficientSpacing) {
		t.Errorf("Expected ConflictInsufficientSpacing for back-to-back items, got: %s", result.FormatReport())
	}
}

func TestCheckPlan_AutopilotWalksJoinTheSchedule(t *testing.T) {
	validator := New()

	plan := planWith(plannedWalk("act-1", at(9, 0), 30))
	walks := []models.AutopilotWalk{
		{
			ID:            "walk-1",
			Date:          "2026-03-10",
			StartTime:     at(9, 15),
			DurationMin:   20,
			Type:          models.ActivityShortWalk,
			ApprovalState: models.ApprovalPending,
		},
		{
			ID:            "walk-other-day",
			Date:          "2026-03-11",
			StartTime:     at(9, 15),
			DurationMin:   20,
			Type:          models.ActivityShortWalk,
			ApprovalState: models.ApprovalPending,
		},
	}

	result := validator.CheckPlan(plan, nil, walks)

	overlaps := 0
	for _, c := range result.Conflicts {
		if c.Type == ConflictOverlappingActivities {
			overlaps++
			if c.Items[1] != "walk-1" {
				t.Errorf("Conflict.Items = %v, want walk-1 as second item", c.Items)
			}
		}
	}
	if overlaps != 1 {
		t.Errorf("Expected exactly 1 overlap (other-day walk ignored), got %d: %s", overlaps, result.FormatReport())
	}
}

func TestCheckPlan_RejectedWalksAndResolvedActivitiesIgnored(t *testing.T) {
	validator := New()

	completed := plannedWalk("act-done", at(9, 0), 30)
	completed.Status = models.StatusCompleted
	skipped := plannedWalk("act-skipped", at(9, 10), 30)
	skipped.Status = models.StatusSkipped
	plan := planWith(completed, skipped)

	walks := []models.AutopilotWalk{
		{
			ID:            "walk-rejected",
			Date:          "2026-03-10",
			StartTime:     at(9, 15),
			DurationMin:   20,
			Type:          models.ActivityShortWalk,
			ApprovalState: models.ApprovalRejected,
		},
	}

	result := validator.CheckPlan(plan, nil, walks)

	if result.HasConflicts() {
		t.Errorf("Resolved items should not conflict, got: %s", result.FormatReport())
	}
}

func TestCheckPlan_InvalidDate(t *testing.T) {
	validator := New()

	plan := models.MovementPlan{Date: "not-a-date"}
	result := validator.CheckPlan(plan, nil, nil)

	if !hasConflictType(result, ConflictInvalidDateTime) {
		t.Fatalf("Expected ConflictInvalidDateTime, got: %s", result.FormatReport())
	}
	if len(result.Conflicts) != 1 {
		t.Errorf("Expected validation to stop after invalid date, got %d conflicts", len(result.Conflicts))
	}
}
