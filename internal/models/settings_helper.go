package models

import (
	"fmt"
	"strings"

	"github.com/strideapp/stride/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingWakeTime:
			settings.WakeTime = value
		case constants.SettingSleepTime:
			settings.SleepTime = value
		case constants.SettingDailyStepGoal:
			if _, err := fmt.Sscanf(value, "%d", &settings.DailyStepGoal); err != nil {
				return Settings{}, fmt.Errorf("parsing daily_step_goal: %w", err)
			}
		case constants.SettingPreferredTime:
			settings.PreferredTime = value
		case constants.SettingMealTimes:
			if value != "" {
				settings.MealTimes = strings.Split(value, ",")
			}
		case constants.SettingMinSlotMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.MinSlotMin); err != nil {
				return Settings{}, fmt.Errorf("parsing min_slot_min: %w", err)
			}
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingWorkoutDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.WorkoutDurationMin); err != nil {
				return Settings{}, fmt.Errorf("parsing workout_duration_min: %w", err)
			}
		case constants.SettingWorkoutTime:
			settings.WorkoutTime = value
		case constants.SettingAutopilotEnabled:
			settings.AutopilotEnabled = value == "true"
		case constants.SettingTrustLevel:
			settings.TrustLevel = ParseTrustLevel(value)
		case constants.SettingTargetWalksPerDay:
			if _, err := fmt.Sscanf(value, "%d", &settings.TargetWalksPerDay); err != nil {
				return Settings{}, fmt.Errorf("parsing target_walks_per_day: %w", err)
			}
		case constants.SettingMicroWalksEnabled:
			settings.MicroWalksEnabled = value == "true"
		case constants.SettingWalkSpacingMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.WalkSpacingMin); err != nil {
				return Settings{}, fmt.Errorf("parsing walk_spacing_min: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingWakeTime:             settings.WakeTime,
		constants.SettingSleepTime:            settings.SleepTime,
		constants.SettingDailyStepGoal:        fmt.Sprintf("%d", settings.DailyStepGoal),
		constants.SettingPreferredTime:        settings.PreferredTime,
		constants.SettingMealTimes:            strings.Join(settings.MealTimes, ","),
		constants.SettingMinSlotMin:           fmt.Sprintf("%d", settings.MinSlotMin),
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingWorkoutDurationMin:   fmt.Sprintf("%d", settings.WorkoutDurationMin),
		constants.SettingWorkoutTime:          settings.WorkoutTime,
		constants.SettingAutopilotEnabled:     fmt.Sprintf("%v", settings.AutopilotEnabled),
		constants.SettingTrustLevel:           string(settings.TrustLevel),
		constants.SettingTargetWalksPerDay:    fmt.Sprintf("%d", settings.TargetWalksPerDay),
		constants.SettingMicroWalksEnabled:    fmt.Sprintf("%v", settings.MicroWalksEnabled),
		constants.SettingWalkSpacingMin:       fmt.Sprintf("%d", settings.WalkSpacingMin),
	}
}

// DefaultSettings returns the settings a fresh install starts with. Unlike
// ApplyDefaultSettings it also covers the boolean settings, whose zero value
// is indistinguishable from an explicit false.
func DefaultSettings() Settings {
	settings := Settings{
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		AutopilotEnabled:     constants.DefaultAutopilotEnabled,
		MicroWalksEnabled:    constants.DefaultMicroWalksEnabled,
	}
	ApplyDefaultSettings(&settings)
	return settings
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.WakeTime == "" {
		settings.WakeTime = constants.DefaultWakeTime
	}
	if settings.SleepTime == "" {
		settings.SleepTime = constants.DefaultSleepTime
	}
	if settings.DailyStepGoal == 0 {
		settings.DailyStepGoal = constants.DefaultDailyStepGoal
	}
	if settings.PreferredTime == "" {
		settings.PreferredTime = constants.DefaultPreferredTime
	}
	if len(settings.MealTimes) == 0 {
		settings.MealTimes = strings.Split(constants.DefaultMealTimes, ",")
	}
	if settings.MinSlotMin == 0 {
		settings.MinSlotMin = constants.DefaultMinSlotMin
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.WorkoutDurationMin == 0 {
		settings.WorkoutDurationMin = constants.DefaultWorkoutDurationMin
	}
	if settings.WorkoutTime == "" {
		settings.WorkoutTime = constants.DefaultWorkoutTime
	}
	if settings.TrustLevel == "" {
		settings.TrustLevel = ParseTrustLevel(constants.DefaultTrustLevel)
	}
	if settings.TargetWalksPerDay == 0 {
		settings.TargetWalksPerDay = constants.DefaultTargetWalksPerDay
	}
	if settings.WalkSpacingMin == 0 {
		settings.WalkSpacingMin = constants.DefaultWalkSpacingMin
	}
}

// WalkSpacing returns the configured spacing clamped to the supported range.
func (s Settings) WalkSpacing() int {
	switch {
	case s.WalkSpacingMin < constants.MinWalkSpacingMin:
		return constants.MinWalkSpacingMin
	case s.WalkSpacingMin > constants.MaxWalkSpacingMin:
		return constants.MaxWalkSpacingMin
	default:
		return s.WalkSpacingMin
	}
}
