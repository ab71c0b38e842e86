package models

import (
	"reflect"
	"testing"

	"github.com/strideapp/stride/internal/constants"
)

func TestMapToSettings(t *testing.T) {
	data := map[string]string{
		constants.SettingWakeTime:           "06:30",
		constants.SettingSleepTime:          "21:30",
		constants.SettingDailyStepGoal:      "12000",
		constants.SettingPreferredTime:      "morning",
		constants.SettingMealTimes:          "12:00,18:00",
		constants.SettingMinSlotMin:         "10",
		constants.SettingTimezone:           "America/New_York",
		constants.SettingWorkoutDurationMin: "45",
		constants.SettingTrustLevel:         "full_auto",
		constants.SettingTargetWalksPerDay:  "4",
		constants.SettingWalkSpacingMin:     "50",
		constants.SettingAutopilotEnabled:   "true",
	}

	settings, err := MapToSettings(data)
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}

	if settings.WakeTime != "06:30" || settings.SleepTime != "21:30" {
		t.Errorf("MapToSettings() wake/sleep = %s/%s, want 06:30/21:30", settings.WakeTime, settings.SleepTime)
	}
	if settings.DailyStepGoal != 12000 {
		t.Errorf("MapToSettings() DailyStepGoal = %d, want 12000", settings.DailyStepGoal)
	}
	if !reflect.DeepEqual(settings.MealTimes, []string{"12:00", "18:00"}) {
		t.Errorf("MapToSettings() MealTimes = %v, want [12:00 18:00]", settings.MealTimes)
	}
	if settings.TrustLevel != TrustFullAuto {
		t.Errorf("MapToSettings() TrustLevel = %v, want full_auto", settings.TrustLevel)
	}
	if !settings.AutopilotEnabled {
		t.Error("MapToSettings() AutopilotEnabled = false, want true")
	}
	if settings.WorkoutDurationMin != 45 {
		t.Errorf("MapToSettings() WorkoutDurationMin = %d, want 45", settings.WorkoutDurationMin)
	}
}

func TestMapToSettingsInvalidNumber(t *testing.T) {
	_, err := MapToSettings(map[string]string{
		constants.SettingDailyStepGoal: "lots",
	})
	if err == nil {
		t.Error("MapToSettings() with non-numeric goal expected error, got nil")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	settings := Settings{}
	ApplyDefaultSettings(&settings)

	back, err := MapToSettings(SettingsToMap(settings))
	if err != nil {
		t.Fatalf("MapToSettings() error = %v", err)
	}
	if !reflect.DeepEqual(back, settings) {
		t.Errorf("round trip = %+v, want %+v", back, settings)
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	settings := Settings{WakeTime: "05:45"}
	ApplyDefaultSettings(&settings)

	if settings.WakeTime != "05:45" {
		t.Errorf("ApplyDefaultSettings() overwrote WakeTime = %s", settings.WakeTime)
	}
	if settings.SleepTime != constants.DefaultSleepTime {
		t.Errorf("ApplyDefaultSettings() SleepTime = %s, want %s", settings.SleepTime, constants.DefaultSleepTime)
	}
	if settings.DailyStepGoal != constants.DefaultDailyStepGoal {
		t.Errorf("ApplyDefaultSettings() DailyStepGoal = %d, want %d", settings.DailyStepGoal, constants.DefaultDailyStepGoal)
	}
	if settings.TrustLevel != TrustSuggestOnly {
		t.Errorf("ApplyDefaultSettings() TrustLevel = %v, want suggest_only", settings.TrustLevel)
	}
	if len(settings.MealTimes) != 2 {
		t.Errorf("ApplyDefaultSettings() MealTimes = %v, want two entries", settings.MealTimes)
	}
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if !settings.MicroWalksEnabled {
		t.Error("DefaultSettings() MicroWalksEnabled = false, want true")
	}
	if !settings.NotificationsEnabled {
		t.Error("DefaultSettings() NotificationsEnabled = false, want true")
	}
	if settings.AutopilotEnabled {
		t.Error("DefaultSettings() AutopilotEnabled = true, want false")
	}
	if settings.WakeTime != constants.DefaultWakeTime {
		t.Errorf("DefaultSettings() WakeTime = %s, want %s", settings.WakeTime, constants.DefaultWakeTime)
	}
}

func TestWalkSpacing(t *testing.T) {
	tests := []struct {
		name    string
		spacing int
		want    int
	}{
		{"within range", 45, 45},
		{"below minimum clamps up", 10, constants.MinWalkSpacingMin},
		{"above maximum clamps down", 120, constants.MaxWalkSpacingMin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{WalkSpacingMin: tt.spacing}
			if got := s.WalkSpacing(); got != tt.want {
				t.Errorf("WalkSpacing() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseTrustLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want TrustLevel
	}{
		{"full_auto", TrustFullAuto},
		{"confirm_first", TrustConfirmFirst},
		{"suggest_only", TrustSuggestOnly},
		{"", TrustSuggestOnly},
		{"yolo", TrustSuggestOnly},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseTrustLevel(tt.raw); got != tt.want {
				t.Errorf("ParseTrustLevel(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
