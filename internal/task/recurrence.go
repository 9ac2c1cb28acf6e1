package task

import (
	"errors"
	"time"
)

// MaxInstances bounds how many instances one recurring submission may create.
const MaxInstances = 1000

// ErrTooManyInstances is returned when a series would exceed MaxInstances.
var ErrTooManyInstances = errors.New("recurring series exceeds the instance limit")

// ErrNotRecurring is returned when Expand is given a template without recurrence.
var ErrNotRecurring = errors.New("template is not recurring")

// IDFunc returns a fresh unique task identifier.
type IDFunc func() string

// Expand materializes a recurring template into its dated instances, from the
// template's scheduled date through the end date inclusive.
//
// Monthly steps are taken from the original start and clamped to the last day
// of the target month, so a series starting on Jan 31 yields Feb 29 (or 28),
// Mar 31, Apr 30 and so on. Every instance keeps the template alarm's clock
// time on its own date. A start after the end date yields no instances.
func Expand(tpl Template, seriesID string, newID IDFunc) ([]Task, error) {
	if tpl.Recurring == nil {
		return nil, ErrNotRecurring
	}

	start := tpl.ScheduledAt
	end := DateOf(tpl.Recurring.EndDate)
	rec := *tpl.Recurring
	rec.EndDate = end

	var out []Task
	for k := 0; ; k++ {
		at := Step(start, rec.Frequency, k)
		if DateOf(at).After(end) {
			break
		}
		if len(out) == MaxInstances {
			return nil, ErrTooManyInstances
		}

		r := rec
		out = append(out, Task{
			ID:          newID(),
			Name:        tpl.Name,
			ScheduledAt: at,
			AlarmAt:     atClock(at, tpl.AlarmAt),
			AlarmSound:  tpl.AlarmSound,
			CustomSound: copyCustomSound(tpl.CustomSound),
			Completed:   false,
			Recurring:   &r,
			Series:      &Series{Kind: SeriesRecurring, ID: seriesID},
		})
	}
	return out, nil
}

// Step advances start by k steps of freq.
func Step(start time.Time, freq Frequency, k int) time.Time {
	switch freq {
	case FrequencyWeekly:
		return start.AddDate(0, 0, 7*k)
	case FrequencyMonthly:
		return addMonthsClamped(start, k)
	default:
		return start.AddDate(0, 0, k)
	}
}

// addMonthsClamped adds n calendar months, clamping the day to the end of the
// target month instead of overflowing into the next one.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// atClock returns day's date at the clock time of clock.
func atClock(day, clock time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
