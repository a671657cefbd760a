// Package schedule computes the recurring weekly session dates for a lab batch.
package schedule

import "time"

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// GenerateDates walks every calendar day in [start, end] and collects, in
// ascending order, the days whose weekday matches dayOfWeek (matched by name,
// e.g. "Monday"). An unrecognized weekday name or an end date before the start
// date yields an empty sequence. The result is never nil so it always stores
// as an empty array rather than NULL. Time-of-day components are ignored.
func GenerateDates(start, end time.Time, dayOfWeek string) []time.Time {
	dates := []time.Time{}

	target, ok := weekdayNames[dayOfWeek]
	if !ok {
		return dates
	}

	current := truncate(start)
	last := truncate(end)

	for !current.After(last) {
		if current.Weekday() == target {
			dates = append(dates, current)
		}
		current = current.AddDate(0, 0, 1)
	}
	return dates
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
