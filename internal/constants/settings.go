package constants

const (
	// General Settings
	SettingWakeTime             = "wake_time"
	SettingSleepTime            = "sleep_time"
	SettingDailyStepGoal        = "daily_step_goal"
	SettingPreferredTime        = "preferred_time"
	SettingMealTimes            = "meal_times"
	SettingMinSlotMin           = "min_slot_min"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingTimezone             = "timezone"

	// Workout Settings
	SettingWorkoutDurationMin = "workout_duration_min"
	SettingWorkoutTime        = "workout_time"

	// Autopilot Settings
	SettingAutopilotEnabled  = "autopilot_enabled"
	SettingTrustLevel        = "trust_level"
	SettingTargetWalksPerDay = "target_walks_per_day"
	SettingMicroWalksEnabled = "micro_walks_enabled"
	SettingWalkSpacingMin    = "walk_spacing_min"

	// Default Settings Values
	DefaultWakeTime             = "07:00"
	DefaultSleepTime            = "22:00"
	DefaultDailyStepGoal        = 10000
	DefaultPreferredTime        = "no_preference"
	DefaultMealTimes            = "12:30,18:30"
	DefaultMinSlotMin           = 5
	DefaultNotificationsEnabled = true
	DefaultTimezone             = "Local" // Use system local timezone by default

	DefaultWorkoutDurationMin = 60
	DefaultWorkoutTime        = "no_preference"

	// Autopilot never touches the calendar until the user raises the trust
	// level themselves.
	DefaultAutopilotEnabled  = false
	DefaultTrustLevel        = "suggest_only"
	DefaultTargetWalksPerDay = 3
	DefaultMicroWalksEnabled = true

	// Walk spacing keeps autopilot walks from clustering. Values outside the
	// min/max are clamped on read.
	DefaultWalkSpacingMin = 45
	MinWalkSpacingMin     = 30
	MaxWalkSpacingMin     = 60

	// AutopilotRetentionDays is how long resolved autopilot walks are kept
	// before garbage collection.
	AutopilotRetentionDays = 7
)
