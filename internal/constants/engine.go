package constants

const (
	// DefaultStepsPerMinute is the walking pace assumed until enough history
	// exists to learn the user's own pace.
	DefaultStepsPerMinute = 100.0

	// Active window construction
	WakeBufferMin   = 60 // free time starts this long after wake
	SleepBufferMin  = 60 // free time ends this long before sleep
	HardDayEndHour  = 22 // window never extends past this hour
	MealBufferMin   = 30 // slots within this distance of a meal time are flagged
	MinSlotDuration = 5  // minutes; shorter gaps are not emitted as slots

	// Slot duration class boundaries in minutes (inclusive upper bounds)
	MicroSlotMax    = 10
	ShortSlotMax    = 20
	StandardSlotMax = 40

	// Allocation
	SlotTrimMin        = 5  // minutes shaved off a slot for transitions
	MaxWalkDurationMin = 45 // single walks are never planned longer than this
	MinWalkDurationMin = 5

	// Autopilot walk sizing
	AutopilotWalkDurationMin = 30 // category picks are sized to this, slot permitting
	MicroWalkMaxMin          = 15 // longest gap the micro fallback will use

	// CriticalGapShare and RecommendedGapShare are the fractions of the
	// remaining step gap an activity must cover to earn its priority tier.
	CriticalGapShare    = 0.40
	RecommendedGapShare = 0.20

	// Confidence weighting
	ConfidenceCoverageWeight = 0.6
	ConfidenceHistoryWeight  = 0.4
	ConfidenceCap            = 0.95
)
