package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/strideapp/stride/internal/cli"
	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/utils"
)

type SettingsCmd struct {
	List SettingsListCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Update a setting."`
}

type SettingsListCmd struct{}

func (c *SettingsListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Schedule:")
	fmt.Printf("  Wake Time:             %s\n", settings.WakeTime)
	fmt.Printf("  Sleep Time:            %s\n", settings.SleepTime)
	fmt.Printf("  Meal Times:            %s\n", strings.Join(settings.MealTimes, ", "))
	fmt.Printf("  Timezone:              %s\n", settings.Timezone)
	fmt.Println("\nMovement Goals:")
	fmt.Printf("  Daily Step Goal:       %d\n", settings.DailyStepGoal)
	fmt.Printf("  Preferred Time:        %s\n", settings.PreferredTime)
	fmt.Printf("  Min Slot:              %d min\n", settings.MinSlotMin)
	fmt.Printf("  Workout Duration:      %d min\n", settings.WorkoutDurationMin)
	fmt.Printf("  Workout Time:          %s\n", settings.WorkoutTime)
	fmt.Println("\nAutopilot:")
	fmt.Printf("  Enabled:               %v\n", settings.AutopilotEnabled)
	fmt.Printf("  Trust Level:           %s\n", settings.TrustLevel)
	fmt.Printf("  Target Walks Per Day:  %d\n", settings.TargetWalksPerDay)
	fmt.Printf("  Micro Walks:           %v\n", settings.MicroWalksEnabled)
	fmt.Printf("  Walk Spacing:          %d min\n", settings.WalkSpacing())
	fmt.Println("\nNotifications:")
	fmt.Printf("  Enabled:               %v\n", settings.NotificationsEnabled)
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (snake_case, see 'settings list')."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	data := models.SettingsToMap(settings)
	if _, ok := data[c.Key]; !ok {
		return fmt.Errorf("unknown setting %q (valid keys: %s)", c.Key, strings.Join(settingKeys(data), ", "))
	}
	if err := validateValue(c.Key, c.Value); err != nil {
		return err
	}

	data[c.Key] = c.Value
	updated, err := models.MapToSettings(data)
	if err != nil {
		return err
	}
	models.ApplyDefaultSettings(&updated)

	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("Set %s = %s\n", c.Key, c.Value)
	if c.Key == constants.SettingWalkSpacingMin && updated.WalkSpacing() != updated.WalkSpacingMin {
		fmt.Printf("  Note: spacing is clamped to %d-%d min, effective value is %d.\n",
			constants.MinWalkSpacingMin, constants.MaxWalkSpacingMin, updated.WalkSpacing())
	}
	return nil
}

// validateValue rejects values MapToSettings would accept but the engine
// cannot use, before they reach the store.
func validateValue(key, value string) error {
	switch key {
	case constants.SettingWakeTime, constants.SettingSleepTime:
		if !utils.ValidateTimeFormat(value) {
			return fmt.Errorf("invalid time %q, use HH:MM", value)
		}
	case constants.SettingMealTimes:
		for _, t := range strings.Split(value, ",") {
			if !utils.ValidateTimeFormat(strings.TrimSpace(t)) {
				return fmt.Errorf("invalid meal time %q, use HH:MM[,HH:MM...]", t)
			}
		}
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("unknown timezone %q", value)
		}
	case constants.SettingTrustLevel:
		if models.ParseTrustLevel(value) != models.TrustLevel(value) {
			return fmt.Errorf("invalid trust level %q (use full_auto, confirm_first or suggest_only)", value)
		}
	case constants.SettingPreferredTime, constants.SettingWorkoutTime:
		switch value {
		case string(models.Morning), string(models.Afternoon), string(models.Evening), models.PreferenceNone:
		default:
			return fmt.Errorf("invalid time preference %q (use morning, afternoon, evening or no_preference)", value)
		}
	case constants.SettingNotificationsEnabled, constants.SettingAutopilotEnabled, constants.SettingMicroWalksEnabled:
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean %q (use true or false)", value)
		}
	}
	return nil
}

func settingKeys(data map[string]string) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
