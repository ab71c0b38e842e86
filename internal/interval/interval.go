package interval

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// New returns the interval [start, end).
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// IsValid reports whether the interval has positive length.
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// DurationMinutes returns the interval length in whole minutes.
func (iv Interval) DurationMinutes() int {
	return int(iv.Duration().Minutes())
}

// Contains reports whether t lies within [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Overlaps reports whether the two intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Intersect returns the overlap of two intervals. The second return value is
// false when they do not overlap.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	if !start.Before(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// ClampTo trims the interval to the given window. The second return value is
// false when nothing remains inside the window.
func (iv Interval) ClampTo(window Interval) (Interval, bool) {
	return iv.Intersect(window)
}

// GapTo returns the gap between the end of iv and the start of next. The
// second return value is false when the intervals touch or overlap.
func (iv Interval) GapTo(next Interval) (Interval, bool) {
	if !iv.End.Before(next.Start) {
		return Interval{}, false
	}
	return Interval{Start: iv.End, End: next.Start}, true
}

// SortByStart orders intervals by start time, earliest first. Ties are broken
// by end time so the order is total and stable across runs.
func SortByStart(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if !ivs[i].Start.Equal(ivs[j].Start) {
			return ivs[i].Start.Before(ivs[j].Start)
		}
		return ivs[i].End.Before(ivs[j].End)
	})
}

// Merge coalesces overlapping and touching intervals into a minimal sorted
// set. Invalid (zero or negative length) inputs are dropped. The input slice
// is not modified.
func Merge(ivs []Interval) []Interval {
	valid := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.IsValid() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	SortByStart(valid)

	merged := []Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
