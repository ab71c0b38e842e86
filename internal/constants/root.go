package constants

import "time"

const (
	AppName            = "stride"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/stride/stride.db"
	Version            = "v0.4.1"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "stride-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.strideapp.stride"

	// CalendarCacheTTL bounds how stale a cached day of events may get before
	// the next read goes back to the upstream calendar.
	CalendarCacheTTL = 5 * time.Minute
)
