package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("40"))
)

// RenderPlan prints a stored movement plan: the activity rows, the step
// arithmetic behind them, and the recommended walkable meetings.
func RenderPlan(plan models.MovementPlan) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Movement plan for %s", plan.Date)))
	b.WriteString("\n\n")

	if len(plan.Activities) == 0 {
		b.WriteString(dimStyle.Render("  No activities planned."))
		b.WriteString("\n")
	}
	for _, a := range plan.Activities {
		b.WriteString(renderActivity(a))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Steps needed:   %d\n", plan.StepsNeeded))
	b.WriteString(fmt.Sprintf("  Planned steps:  %d\n", plan.PlannedSteps))
	if plan.MeetingSteps > 0 {
		b.WriteString(fmt.Sprintf("  Meeting steps:  %d\n", plan.MeetingSteps))
	}
	if gap := plan.RemainingGap(); gap > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Remaining gap:  %d steps", gap)))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("  Confidence:     %.0f%%\n", plan.Confidence*100))
	if plan.Reasoning != "" {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s", plan.Reasoning)))
		b.WriteString("\n")
	}

	if len(plan.WalkableEvents) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Walkable meetings"))
		b.WriteString("\n")
		for _, label := range plan.WalkableEvents {
			b.WriteString(fmt.Sprintf("  • %s\n", label))
		}
	}

	return b.String()
}

func renderActivity(a models.PlannedActivity) string {
	span := timeStyle.Render(fmt.Sprintf("%s–%s",
		a.StartTime.Format(constants.TimeFormat), a.EndTime().Format(constants.TimeFormat)))
	line := fmt.Sprintf("  %s  %-14s %s  ~%d steps  [%s]",
		span, activityLabel(a.Type), utils.FormatMinutes(a.DurationMin), a.EstimatedSteps, a.ID)

	switch a.Status {
	case models.StatusCompleted:
		return doneStyle.Render(line + "  done")
	case models.StatusSkipped:
		return dimStyle.Render(line + "  skipped")
	default:
		return line
	}
}

// RenderWalk prints one autopilot walk with its approval state.
func RenderWalk(w models.AutopilotWalk) string {
	span := timeStyle.Render(fmt.Sprintf("%s–%s",
		w.StartTime.Format(constants.TimeFormat), w.EndTime().Format(constants.TimeFormat)))
	line := fmt.Sprintf("  %s %s  %-14s %s  [%s]",
		w.Date, span, activityLabel(w.Type), utils.FormatMinutes(w.DurationMin), w.ID)

	switch w.ApprovalState {
	case models.ApprovalApproved:
		if w.Committed() {
			return doneStyle.Render(line + "  approved, on calendar")
		}
		return doneStyle.Render(line + "  approved")
	case models.ApprovalRejected:
		return dimStyle.Render(line + "  rejected")
	default:
		return warnStyle.Render(line + "  pending")
	}
}

// RenderMeeting prints one calendar meeting with its walkability tag.
func RenderMeeting(m models.CalendarMeeting, tag string) string {
	span := timeStyle.Render(fmt.Sprintf("%s–%s",
		m.StartTime.Format(constants.TimeFormat), m.EndTime.Format(constants.TimeFormat)))
	line := fmt.Sprintf("  %s  %s (%d attendees)  [%s]", span, m.Title, m.AttendeeCount, m.ID)
	if tag != "" {
		line += "  " + doneStyle.Render(tag)
	}
	return line
}

func activityLabel(t models.ActivityType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}
