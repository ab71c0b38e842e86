package models

// Settings represents application-wide settings
type Settings struct {
	WakeTime             string     `json:"wake_time"`             // the time the user wakes, e.g. "07:00"
	SleepTime            string     `json:"sleep_time"`            // the time the user sleeps, e.g. "22:00"
	DailyStepGoal        int        `json:"daily_step_goal"`       // target steps per day
	PreferredTime        string     `json:"preferred_time"`        // morning, afternoon, evening, or no_preference
	MealTimes            []string   `json:"meal_times"`            // HH:MM meal anchors, e.g. ["12:30","18:30"]
	MinSlotMin           int        `json:"min_slot_min"`          // shortest free slot worth planning into, minutes
	NotificationsEnabled bool       `json:"notifications_enabled"` // whether notifications are enabled
	Timezone             string     `json:"timezone"`              // IANA timezone name, or "Local" for system timezone
	WorkoutDurationMin   int        `json:"workout_duration_min"`  // target workout length, minutes
	WorkoutTime          string     `json:"workout_time"`          // morning, afternoon, evening, or no_preference
	AutopilotEnabled     bool       `json:"autopilot_enabled"`     // whether the nightly autopilot run is active
	TrustLevel           TrustLevel `json:"trust_level"`           // autopilot commit policy
	TargetWalksPerDay    int        `json:"target_walks_per_day"`  // walks autopilot aims to schedule per day
	MicroWalksEnabled    bool       `json:"micro_walks_enabled"`   // whether 5-15 minute gaps may be used as fallback
	WalkSpacingMin       int        `json:"walk_spacing_min"`      // minimum minutes between autopilot walks
}
