package schedule

import (
	"testing"
	"time"

	"github.com/strideapp/stride/internal/interval"
	"github.com/strideapp/stride/internal/models"
)

// at builds an instant on a fixed test day.
func at(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func meeting(id string, start, end time.Time, attendees int) models.CalendarMeeting {
	return models.CalendarMeeting{
		ID:            id,
		Title:         "meeting " + id,
		StartTime:     start,
		EndTime:       end,
		AttendeeCount: attendees,
		Source:        models.MeetingSourceExternal,
	}
}

func TestFindFreeSlotsSweep(t *testing.T) {
	// Two meetings inside an 08:00-18:00 window leave three gaps.
	busy := BuildBusyIntervals([]models.CalendarMeeting{
		meeting("a", at(9, 0), at(9, 30), 5),
		meeting("b", at(10, 0), at(11, 0), 5),
	}, nil)

	slots := FindFreeSlots(busy, Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
	})

	want := []struct {
		start time.Time
		end   time.Time
		dur   int
	}{
		{at(8, 0), at(9, 0), 60},
		{at(9, 30), at(10, 0), 30},
		{at(11, 0), at(18, 0), 420},
	}

	if len(slots) != len(want) {
		t.Fatalf("FindFreeSlots() returned %d slots, want %d", len(slots), len(want))
	}
	for i, w := range want {
		if !slots[i].Start.Equal(w.start) || !slots[i].End.Equal(w.end) {
			t.Errorf("slot[%d] = [%v, %v), want [%v, %v)", i, slots[i].Start, slots[i].End, w.start, w.end)
		}
		if slots[i].DurationMin != w.dur {
			t.Errorf("slot[%d] duration = %d, want %d", i, slots[i].DurationMin, w.dur)
		}
	}
}

func TestFindFreeSlotsNoOverlapWithBusy(t *testing.T) {
	busy := BuildBusyIntervals([]models.CalendarMeeting{
		meeting("a", at(9, 0), at(10, 0), 3),
		meeting("b", at(9, 30), at(11, 0), 3), // overlaps the first
		meeting("c", at(14, 0), at(15, 0), 3),
	}, []models.PlannedActivity{
		{Type: models.ActivityStandardWalk, StartTime: at(12, 0), DurationMin: 30},
	})

	slots := FindFreeSlots(busy, Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 5,
	})

	for _, s := range slots {
		for _, b := range busy {
			if s.Overlaps(b.Interval) {
				t.Errorf("slot [%v, %v) overlaps busy [%v, %v)", s.Start, s.End, b.Start, b.End)
			}
		}
	}
}

func TestFindFreeSlotsEdges(t *testing.T) {
	tests := []struct {
		name      string
		busy      []BusyInterval
		cfg       Config
		wantCount int
	}{
		{
			name: "invalid window returns nothing",
			cfg: Config{
				Window: interval.New(at(18, 0), at(8, 0)),
			},
			wantCount: 0,
		},
		{
			name: "no busy intervals yields one full-window slot",
			cfg: Config{
				Window:         interval.New(at(8, 0), at(18, 0)),
				MinDurationMin: 15,
			},
			wantCount: 1,
		},
		{
			name: "busy covering whole window yields nothing",
			busy: BuildBusyIntervals([]models.CalendarMeeting{
				meeting("all", at(7, 0), at(19, 0), 2),
			}, nil),
			cfg: Config{
				Window:         interval.New(at(8, 0), at(18, 0)),
				MinDurationMin: 15,
			},
			wantCount: 0,
		},
		{
			name: "gap shorter than minimum dropped",
			busy: BuildBusyIntervals([]models.CalendarMeeting{
				meeting("a", at(8, 0), at(12, 0), 2),
				meeting("b", at(12, 10), at(18, 0), 2),
			}, nil),
			cfg: Config{
				Window:         interval.New(at(8, 0), at(18, 0)),
				MinDurationMin: 15,
			},
			wantCount: 0,
		},
		{
			name: "busy outside the window ignored",
			busy: BuildBusyIntervals([]models.CalendarMeeting{
				meeting("early", at(6, 0), at(7, 0), 2),
			}, nil),
			cfg: Config{
				Window:         interval.New(at(8, 0), at(18, 0)),
				MinDurationMin: 15,
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := FindFreeSlots(tt.busy, tt.cfg)
			if len(slots) != tt.wantCount {
				t.Errorf("FindFreeSlots() returned %d slots, want %d", len(slots), tt.wantCount)
			}
		})
	}
}

func TestFindFreeSlotsSkipsAllDayEvents(t *testing.T) {
	allDay := models.CalendarMeeting{
		ID:        "ooo",
		Title:     "Conference",
		StartTime: at(0, 0),
		EndTime:   at(23, 59),
		IsAllDay:  true,
	}
	busy := BuildBusyIntervals([]models.CalendarMeeting{allDay}, nil)
	slots := FindFreeSlots(busy, Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
	})
	if len(slots) != 1 {
		t.Fatalf("FindFreeSlots() returned %d slots, want 1 (all-day event must not block time)", len(slots))
	}
}

func TestSlotMealFlag(t *testing.T) {
	busy := BuildBusyIntervals([]models.CalendarMeeting{
		meeting("a", at(9, 0), at(12, 0), 4),
		meeting("b", at(13, 30), at(17, 0), 4),
	}, nil)

	slots := FindFreeSlots(busy, Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
		MealTimes:      []time.Time{at(12, 30)},
	})

	// Gaps: 08:00-09:00, 12:00-13:30, 17:00-18:00. The midday one crosses
	// lunch and must be flagged but still emitted.
	if len(slots) != 3 {
		t.Fatalf("FindFreeSlots() returned %d slots, want 3", len(slots))
	}
	if slots[0].IsDuringMeal {
		t.Error("morning slot flagged as meal time")
	}
	if !slots[1].IsDuringMeal {
		t.Error("midday slot not flagged as meal time")
	}
	if slots[2].IsDuringMeal {
		t.Error("evening slot flagged as meal time")
	}
}

func TestSlotPreferredFlag(t *testing.T) {
	busy := BuildBusyIntervals([]models.CalendarMeeting{
		meeting("a", at(11, 0), at(14, 0), 4),
	}, nil)

	slots := FindFreeSlots(busy, Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
		PreferredTime:  models.Morning,
	})

	if len(slots) != 2 {
		t.Fatalf("FindFreeSlots() returned %d slots, want 2", len(slots))
	}
	if !slots[0].IsPreferredTime {
		t.Error("morning slot not flagged preferred")
	}
	if slots[1].IsPreferredTime {
		t.Error("afternoon slot flagged preferred for a morning preference")
	}
}

func TestSplitAroundMeals(t *testing.T) {
	cfg := Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
		MealTimes:      []time.Time{at(12, 30)},
	}
	slots := FindFreeSlots(BuildBusyIntervals([]models.CalendarMeeting{
		meeting("a", at(9, 0), at(11, 0), 4),
	}, nil), cfg)

	// Gaps: 08:00-09:00 clean, 11:00-18:00 crosses lunch.
	got := SplitAroundMeals(slots, cfg)

	want := []struct {
		start time.Time
		end   time.Time
	}{
		{at(8, 0), at(9, 0)},
		{at(11, 0), at(12, 0)},
		{at(13, 0), at(18, 0)},
	}
	if len(got) != len(want) {
		t.Fatalf("SplitAroundMeals() returned %d slots, want %d", len(got), len(want))
	}
	for i, w := range want {
		if !got[i].Start.Equal(w.start) || !got[i].End.Equal(w.end) {
			t.Errorf("slot[%d] = [%v, %v), want [%v, %v)", i, got[i].Start, got[i].End, w.start, w.end)
		}
		if got[i].IsDuringMeal {
			t.Errorf("slot[%d] still flagged as meal time after carving", i)
		}
	}
	if got[2].Class != ClassExtended {
		t.Errorf("afternoon fragment class = %v, want extended", got[2].Class)
	}
}

func TestSplitAroundMealsMergesAdjacentMeals(t *testing.T) {
	cfg := Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
		MealTimes:      []time.Time{at(12, 30), at(13, 15)}, // buffers overlap
	}
	flagged := FreeSlot{
		Interval:     interval.New(at(11, 0), at(15, 0)),
		DurationMin:  240,
		Class:        ClassExtended,
		IsDuringMeal: true,
	}

	got := SplitAroundMeals([]FreeSlot{flagged}, cfg)

	if len(got) != 2 {
		t.Fatalf("SplitAroundMeals() returned %d slots, want 2", len(got))
	}
	if !got[0].End.Equal(at(12, 0)) {
		t.Errorf("first fragment ends %v, want 12:00", got[0].End)
	}
	if !got[1].Start.Equal(at(13, 45)) {
		t.Errorf("second fragment starts %v, want 13:45", got[1].Start)
	}
}

func TestSplitAroundMealsDropsShortFragments(t *testing.T) {
	cfg := Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
		MealTimes:      []time.Time{at(12, 30)},
	}
	flagged := FreeSlot{
		Interval:     interval.New(at(11, 45), at(13, 10)),
		DurationMin:  85,
		Class:        ClassExtended,
		IsDuringMeal: true,
	}

	got := SplitAroundMeals([]FreeSlot{flagged}, cfg)

	// 11:45-12:00 keeps the 15-minute minimum; 13:00-13:10 does not.
	if len(got) != 1 {
		t.Fatalf("SplitAroundMeals() returned %d slots, want 1", len(got))
	}
	if !got[0].Start.Equal(at(11, 45)) || !got[0].End.Equal(at(12, 0)) {
		t.Errorf("fragment = [%v, %v), want [11:45, 12:00)", got[0].Start, got[0].End)
	}
}

func TestSplitAroundMealsSlotInsideBufferVanishes(t *testing.T) {
	cfg := Config{
		MinDurationMin: 5,
		MealTimes:      []time.Time{at(12, 30)},
	}
	flagged := FreeSlot{
		Interval:     interval.New(at(12, 15), at(12, 45)),
		DurationMin:  30,
		Class:        ClassStandard,
		IsDuringMeal: true,
	}

	if got := SplitAroundMeals([]FreeSlot{flagged}, cfg); len(got) != 0 {
		t.Errorf("SplitAroundMeals() returned %d slots, want 0", len(got))
	}
}

func TestSplitAroundMealsNoMealsIsIdentity(t *testing.T) {
	slots := FindFreeSlots(nil, Config{
		Window:         interval.New(at(8, 0), at(18, 0)),
		MinDurationMin: 15,
	})
	got := SplitAroundMeals(slots, Config{MinDurationMin: 15})
	if len(got) != 1 || !got[0].Start.Equal(at(8, 0)) || !got[0].End.Equal(at(18, 0)) {
		t.Errorf("SplitAroundMeals() with no meals = %v, want the input unchanged", got)
	}
}

func TestClassForDuration(t *testing.T) {
	tests := []struct {
		min  int
		want SlotClass
	}{
		{5, ClassMicro},
		{10, ClassMicro},
		{11, ClassShort},
		{20, ClassShort},
		{21, ClassStandard},
		{40, ClassStandard},
		{41, ClassExtended},
		{420, ClassExtended},
	}

	for _, tt := range tests {
		if got := ClassForDuration(tt.min); got != tt.want {
			t.Errorf("ClassForDuration(%d) = %v, want %v", tt.min, got, tt.want)
		}
	}
}

func TestTotalBusyMinutes(t *testing.T) {
	busy := BuildBusyIntervals([]models.CalendarMeeting{
		meeting("a", at(9, 0), at(10, 0), 2),
		meeting("b", at(9, 30), at(10, 30), 2), // overlaps a
		meeting("c", at(14, 0), at(15, 0), 2),
	}, nil)

	if got := TotalBusyMinutes(busy); got != 150 {
		t.Errorf("TotalBusyMinutes() = %d, want 150", got)
	}
}
