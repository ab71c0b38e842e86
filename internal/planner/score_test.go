package planner

import (
	"math"
	"testing"

	"github.com/strideapp/stride/internal/models"
)

func TestScoreSlot(t *testing.T) {
	patterns := models.UserActivityPatterns{PeakActivityHours: []int{9, 17}}
	adherence := models.PlanAdherence{
		BestTimeSlots: map[models.TimeOfDay]float64{
			models.Morning: 0.8,
		},
	}

	t.Run("everything lines up", func(t *testing.T) {
		slot := makeSlot(9, 0, 40)
		slot.IsPreferredTime = true
		// peak 0.3 + preferred 0.25 + duration 0.2 + 0.15 + 0.3*0.8
		want := 0.3 + 0.25 + 0.2 + 0.15 + 0.24
		if got := ScoreSlot(slot, patterns, adherence); math.Abs(got-want) > 1e-9 {
			t.Errorf("ScoreSlot() = %v, want %v", got, want)
		}
	})

	t.Run("short off-peak slot scores only the neutral adherence term", func(t *testing.T) {
		slot := makeSlot(14, 0, 15)
		// no bucket recorded for afternoon: neutral prior 0.5
		want := 0.3 * 0.5
		if got := ScoreSlot(slot, patterns, adherence); math.Abs(got-want) > 1e-9 {
			t.Errorf("ScoreSlot() = %v, want %v", got, want)
		}
	})

	t.Run("twenty minutes earns the duration bonus but not the ample one", func(t *testing.T) {
		slot := makeSlot(14, 0, 20)
		want := 0.2 + 0.3*0.5
		if got := ScoreSlot(slot, patterns, adherence); math.Abs(got-want) > 1e-9 {
			t.Errorf("ScoreSlot() = %v, want %v", got, want)
		}
	})
}

func TestPreferenceScore(t *testing.T) {
	tests := []struct {
		name       string
		hour       int
		preference string
		want       int
	}{
		{"morning hour, morning preference", 9, "morning", 3},
		{"morning hour, evening preference", 9, "evening", 0},
		{"afternoon hour, morning preference", 13, "morning", 1},
		{"afternoon hour, afternoon preference", 13, "afternoon", 3},
		{"evening hour, evening preference", 18, "evening", 3},
		{"no preference is neutral", 13, models.PreferenceNone, 2},
		{"unknown preference counts as none", 9, "whenever", 2},
		{"boundary hour belongs to afternoon", 16, "afternoon", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreferenceScore(tt.hour, tt.preference); got != tt.want {
				t.Errorf("PreferenceScore(%d, %q) = %d, want %d", tt.hour, tt.preference, got, tt.want)
			}
		})
	}
}
