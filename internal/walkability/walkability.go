package walkability

import (
	"fmt"
	"strings"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// walkFriendlyKeywords mark meetings that tend to work while walking.
var walkFriendlyKeywords = []string{"1:1", "sync", "catch up", "check in", "chat", "coffee"}

// deskBoundKeywords mark meetings that need a screen or a room.
var deskBoundKeywords = []string{"presentation", "demo", "workshop", "training", "all hands", "standup", "review", "interview"}

// Walkable duration bounds in minutes. Shorter meetings are not worth the
// transition, longer ones are too tiring to hold while walking.
const (
	minWalkableDuration = 20
	maxWalkableDuration = 120
)

// oneOnOneThreshold is the minimum score for a walking 1:1 recommendation.
const oneOnOneThreshold = 0.5

// Assessment is the walkability verdict for one meeting.
type Assessment struct {
	IsWalkable bool    `json:"is_walkable"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}

// Score rates a meeting's walk-suitability in [0,1]. The notes name each
// contribution and feed the human-readable reason.
func Score(m models.CalendarMeeting) (float64, []string) {
	var score float64
	var notes []string
	dur := m.DurationMinutes()

	switch {
	case m.AttendeeCount <= 2:
		score += 0.4
		notes = append(notes, "one-on-one")
	case m.AttendeeCount <= 3:
		score += 0.2
		notes = append(notes, "small group")
	}

	switch {
	case dur >= 30 && dur <= 60:
		score += 0.3
		notes = append(notes, "ideal length")
	case dur >= minWalkableDuration && dur < 90:
		score += 0.2
		notes = append(notes, "workable length")
	}

	title := strings.ToLower(m.Title)
	for _, kw := range walkFriendlyKeywords {
		if strings.Contains(title, kw) {
			score += 0.3
			notes = append(notes, fmt.Sprintf("title mentions %q", kw))
			break
		}
	}
	for _, kw := range deskBoundKeywords {
		if strings.Contains(title, kw) {
			score -= 0.5
			notes = append(notes, fmt.Sprintf("title mentions desk-bound %q", kw))
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, notes
}

// Classify scores a meeting and decides whether to recommend it as a walking
// 1:1. Identical input always yields an identical assessment.
func Classify(m models.CalendarMeeting) Assessment {
	score, notes := Score(m)
	walkable := isWalkingOneOnOne(m, score)
	return Assessment{
		IsWalkable: walkable,
		Score:      score,
		Reason:     reasonFor(m, walkable, score, notes),
	}
}

// IsWalkingOneOnOne reports whether the meeting is a good walking 1:1: a
// real meeting of walkable length with at most two people and a score at or
// above the recommendation threshold. This is the smart-planner predicate;
// large meetings use IsBackgroundListenable instead.
func IsWalkingOneOnOne(m models.CalendarMeeting) bool {
	score, _ := Score(m)
	return isWalkingOneOnOne(m, score)
}

func isWalkingOneOnOne(m models.CalendarMeeting, score float64) bool {
	if !m.IsRealMeeting() {
		return false
	}
	dur := m.DurationMinutes()
	if dur < minWalkableDuration || dur > maxWalkableDuration {
		return false
	}
	return m.AttendeeCount <= 2 && score >= oneOnOneThreshold
}

// IsBackgroundListenable reports whether a meeting can be attended while
// walking without participating much: a real meeting of walkable length
// with enough attendees (four or more) that one walker goes unnoticed. Used
// for passive step-gap filling, not for 1:1 recommendations.
func IsBackgroundListenable(m models.CalendarMeeting) bool {
	if !m.IsRealMeeting() {
		return false
	}
	dur := m.DurationMinutes()
	if dur < minWalkableDuration || dur > maxWalkableDuration {
		return false
	}
	return m.AttendeeCount >= 4
}

// EstimatedSteps converts walking minutes to steps at the given pace,
// falling back to the default pace when the learned pace is unusable.
func EstimatedSteps(durationMin int, stepsPerMinute float64) int {
	if stepsPerMinute <= 0 {
		stepsPerMinute = constants.DefaultStepsPerMinute
	}
	return int(float64(durationMin) * stepsPerMinute)
}

func reasonFor(m models.CalendarMeeting, walkable bool, score float64, notes []string) string {
	dur := m.DurationMinutes()
	switch {
	case !m.IsRealMeeting():
		return "all-day or out-of-office events are not walkable"
	case walkable:
		return fmt.Sprintf("good walking 1:1 candidate: %s", strings.Join(notes, ", "))
	case dur < minWalkableDuration || dur > maxWalkableDuration:
		return fmt.Sprintf("duration %dm is outside the walkable range", dur)
	case m.AttendeeCount > 2:
		return fmt.Sprintf("too many attendees (%d) for a walking 1:1", m.AttendeeCount)
	default:
		return fmt.Sprintf("score %.2f is below the walking 1:1 threshold", score)
	}
}
