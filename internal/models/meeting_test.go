package models

import (
	"testing"
	"time"
)

func TestCalendarMeeting_IsRealMeeting(t *testing.T) {
	tests := []struct {
		name    string
		meeting CalendarMeeting
		want    bool
	}{
		{
			name:    "ordinary meeting",
			meeting: CalendarMeeting{Title: "Design review"},
			want:    true,
		},
		{
			name:    "all-day event",
			meeting: CalendarMeeting{Title: "Conference", IsAllDay: true},
			want:    false,
		},
		{
			name:    "out of office",
			meeting: CalendarMeeting{Title: "Vacation", IsOutOfOffice: true},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meeting.IsRealMeeting(); got != tt.want {
				t.Errorf("IsRealMeeting() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendarMeeting_DurationMinutes(t *testing.T) {
	m := CalendarMeeting{
		StartTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC),
	}
	if got := m.DurationMinutes(); got != 45 {
		t.Errorf("DurationMinutes() = %d, want 45", got)
	}
}

func TestActivityType_IsWalk(t *testing.T) {
	walks := []ActivityType{
		ActivityMicroWalk, ActivityShortWalk, ActivityStandardWalk,
		ActivityMorningWalk, ActivityLunchWalk, ActivityEveningWalk,
	}
	for _, at := range walks {
		if !at.IsWalk() {
			t.Errorf("IsWalk() for %s = false, want true", at)
		}
	}
	if ActivityWorkout.IsWalk() {
		t.Error("IsWalk() for workout = true, want false")
	}
}

func TestTimeOfDayForHour(t *testing.T) {
	tests := []struct {
		hour int
		want TimeOfDay
	}{
		{6, Morning},
		{11, Morning},
		{12, Afternoon},
		{16, Afternoon},
		{17, Evening},
		{21, Evening},
	}

	for _, tt := range tests {
		if got := TimeOfDayForHour(tt.hour); got != tt.want {
			t.Errorf("TimeOfDayForHour(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestMovementPlan_RemainingGap(t *testing.T) {
	tests := []struct {
		name string
		plan MovementPlan
		want int
	}{
		{"uncovered gap", MovementPlan{StepsNeeded: 5000, PlannedSteps: 3000}, 2000},
		{"meeting steps count toward coverage", MovementPlan{StepsNeeded: 5000, PlannedSteps: 3000, MeetingSteps: 1500}, 500},
		{"fully covered", MovementPlan{StepsNeeded: 3000, PlannedSteps: 3500}, 0},
		{"nothing needed", MovementPlan{StepsNeeded: 0, PlannedSteps: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.RemainingGap(); got != tt.want {
				t.Errorf("RemainingGap() = %d, want %d", got, tt.want)
			}
		})
	}
}
