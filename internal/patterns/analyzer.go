package patterns

import (
	"fmt"
	"sort"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

// Analyzer aggregates historical step and workout data into activity
// patterns. It is pure computation over the maps it is given; fetching the
// history is the caller's job.
type Analyzer struct {
	// StepGoal is the daily goal used for the goal-achievement rate.
	StepGoal int
	// Pace carries a previously learned walking pace forward; zero or
	// negative falls back to the default.
	Pace float64
}

// UpdateFromHistory rebuilds the rolling statistics from per-day step totals,
// optional per-day hourly step breakdowns, and per-day workout flags. All
// maps are keyed by YYYY-MM-DD. Days outside the lookback window should not
// be passed in; the maps bound the window.
func (a Analyzer) UpdateFromHistory(dailySteps map[string]int, hourlySteps map[string]map[int]int, dailyWorkouts map[string]bool) models.UserActivityPatterns {
	p := DefaultPatterns()
	if a.Pace > 0 {
		p.StepsPerMinute = a.Pace
	}
	if len(dailySteps) == 0 {
		return p
	}

	dates := make([]string, 0, len(dailySteps))
	for d := range dailySteps {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var total, weekdayTotal, weekendTotal int
	var weekdayCount, weekendCount, goalDays int
	perWeekday := map[time.Weekday][]int{}

	for _, d := range dates {
		steps := dailySteps[d]
		total += steps

		day, err := time.Parse(constants.DateFormat, d)
		if err != nil {
			continue
		}
		wd := day.Weekday()
		perWeekday[wd] = append(perWeekday[wd], steps)
		if wd == time.Saturday || wd == time.Sunday {
			weekendTotal += steps
			weekendCount++
		} else {
			weekdayTotal += steps
			weekdayCount++
		}
		if a.StepGoal > 0 && steps >= a.StepGoal {
			goalDays++
		}
	}

	n := len(dates)
	p.AverageDailySteps = float64(total) / float64(n)
	if weekdayCount > 0 {
		p.WeekdayAverageSteps = float64(weekdayTotal) / float64(weekdayCount)
	}
	if weekendCount > 0 {
		p.WeekendAverageSteps = float64(weekendTotal) / float64(weekendCount)
	}
	if a.StepGoal > 0 {
		p.GoalAchievementRate = float64(goalDays) / float64(n)
	}
	p.BestPerformingDays = bestPerformingDays(perWeekday)
	p.PeakActivityHours = PeakHours(hourlySteps)
	p.ConsistentWalkTimes = consistentWalkTimes(hourlySteps)
	p.SampleDays = n

	workoutDays := 0
	for _, did := range dailyWorkouts {
		if did {
			workoutDays++
		}
	}
	p.WorkoutDaysPerWeek = float64(workoutDays) / float64(n) * 7

	return p
}

// bestPerformingDays ranks weekdays by mean steps, best first, keeping the
// top three. Ties are broken by weekday order so the result is stable.
func bestPerformingDays(perWeekday map[time.Weekday][]int) []time.Weekday {
	type dayMean struct {
		day  time.Weekday
		mean float64
	}
	means := make([]dayMean, 0, len(perWeekday))
	for wd, samples := range perWeekday {
		total := 0
		for _, s := range samples {
			total += s
		}
		means = append(means, dayMean{day: wd, mean: float64(total) / float64(len(samples))})
	}
	sort.Slice(means, func(i, j int) bool {
		if means[i].mean != means[j].mean {
			return means[i].mean > means[j].mean
		}
		return means[i].day < means[j].day
	})
	if len(means) > 3 {
		means = means[:3]
	}
	days := make([]time.Weekday, len(means))
	for i, m := range means {
		days[i] = m.day
	}
	return days
}

// PeakHours finds hours of day whose mean steps reach the peak multiplier
// times the overall hourly mean. Hours are returned ascending. Days without
// hourly data contribute nothing; no hourly data at all means no peaks.
func PeakHours(hourlySteps map[string]map[int]int) []int {
	hourTotals := map[int]int{}
	hourDays := map[int]int{}
	var grandTotal, grandSamples int

	dates := make([]string, 0, len(hourlySteps))
	for d := range hourlySteps {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		for hour, steps := range hourlySteps[d] {
			if hour < 0 || hour > 23 {
				continue
			}
			hourTotals[hour] += steps
			hourDays[hour]++
			grandTotal += steps
			grandSamples++
		}
	}
	if grandSamples == 0 {
		return nil
	}

	overallMean := float64(grandTotal) / float64(grandSamples)
	threshold := overallMean * constants.PeakHourMultiplier

	var peaks []int
	for hour := 0; hour < 24; hour++ {
		if hourDays[hour] == 0 {
			continue
		}
		mean := float64(hourTotals[hour]) / float64(hourDays[hour])
		if mean >= threshold {
			peaks = append(peaks, hour)
		}
	}
	return peaks
}

// consistentWalkTimes finds the two most frequent daily-peak hours, rendered
// as HH:00 strings. A day's peak hour is its highest-step hour.
func consistentWalkTimes(hourlySteps map[string]map[int]int) []string {
	peakCounts := map[int]int{}

	dates := make([]string, 0, len(hourlySteps))
	for d := range hourlySteps {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		bestHour, bestSteps := -1, 0
		for hour := 0; hour < 24; hour++ {
			if steps, ok := hourlySteps[d][hour]; ok && steps > bestSteps {
				bestHour, bestSteps = hour, steps
			}
		}
		if bestHour >= 0 {
			peakCounts[bestHour]++
		}
	}
	if len(peakCounts) == 0 {
		return nil
	}

	type hourCount struct {
		hour  int
		count int
	}
	counts := make([]hourCount, 0, len(peakCounts))
	for h, c := range peakCounts {
		counts = append(counts, hourCount{hour: h, count: c})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].hour < counts[j].hour
	})
	if len(counts) > 2 {
		counts = counts[:2]
	}

	times := make([]string, len(counts))
	for i, c := range counts {
		times[i] = fmt.Sprintf("%02d:00", c.hour)
	}
	return times
}

// DefaultPatterns returns the documented fallback used when no history is
// available or the persisted copy is unreadable.
func DefaultPatterns() models.UserActivityPatterns {
	return models.UserActivityPatterns{
		StepsPerMinute: constants.DefaultStepsPerMinute,
	}
}
