package models

// Streak counts consecutive calendar days on which the step goal was met.
// CurrentStreak never exceeds LongestStreak after an update, and resets to
// zero when LastGoalDate falls behind yesterday.
type Streak struct {
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	LastGoalDate  string `json:"last_goal_date,omitempty"` // YYYY-MM-DD
}
