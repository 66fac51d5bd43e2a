package types

import (
	"math"
	"time"
)

// OneDay is the fixed day length used for day counts derived from durations
const OneDay = 24 * time.Hour

// StartOfDay returns 00:00:00.000 of the given instant's day in UTC
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 of the given instant's day in UTC
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// AddClampedMonths adds months to t keeping the time of day. When the day of month
// does not exist in the target month (ex Jan 31 + 1 month) it is clamped to the
// last valid day of that month instead of rolling over into the next one.
func AddClampedMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	// day 1 never overflows, so time.Date normalises the year and month for us
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())

	// day 0 of the following month is the last day of the target month
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}

	return time.Date(target.Year(), target.Month(), d, h, min, sec, t.Nanosecond(), t.Location())
}

// AddCalendarDays adds whole calendar days keeping the time of day
func AddCalendarDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// CeilDays returns the number of started days in d. Negative durations count as zero.
func CeilDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(OneDay)))
}

// RoundDays returns d expressed in days rounded half away from zero
func RoundDays(d time.Duration) int {
	return int(math.Round(float64(d) / float64(OneDay)))
}
