package settings

import (
	"testing"

	"github.com/strideapp/stride/internal/constants"
)

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"valid wake time", constants.SettingWakeTime, "06:30", false},
		{"malformed wake time", constants.SettingWakeTime, "6:30am", true},
		{"valid meal times", constants.SettingMealTimes, "12:00,18:30", false},
		{"meal times with spaces", constants.SettingMealTimes, "12:00, 18:30", false},
		{"bad meal time entry", constants.SettingMealTimes, "12:00,noonish", true},
		{"valid timezone", constants.SettingTimezone, "UTC", false},
		{"local timezone", constants.SettingTimezone, "Local", false},
		{"bogus timezone", constants.SettingTimezone, "Mars/Olympus", true},
		{"valid trust level", constants.SettingTrustLevel, "confirm_first", false},
		{"bogus trust level", constants.SettingTrustLevel, "yolo", true},
		{"valid preference", constants.SettingPreferredTime, "morning", false},
		{"no preference", constants.SettingPreferredTime, "no_preference", false},
		{"bogus preference", constants.SettingWorkoutTime, "midnight", true},
		{"valid boolean", constants.SettingMicroWalksEnabled, "true", false},
		{"bogus boolean", constants.SettingAutopilotEnabled, "yes", true},
		{"numeric keys pass through", constants.SettingDailyStepGoal, "12000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateValue(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateValue(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
