package zreport

import "time"

// CalendarDay marks whether any report exists on a date.
type CalendarDay struct {
	Date    time.Time
	Entered bool
}

// MonthBounds returns the first and last day of t's month.
func MonthBounds(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// EntryCalendar lists every day of month's month, flagging days found in
// entered.
func EntryCalendar(month time.Time, entered []time.Time) []CalendarDay {
	first, last := MonthBounds(month)

	seen := make(map[time.Time]bool, len(entered))
	for _, d := range entered {
		seen[Day(d)] = true
	}

	days := make([]CalendarDay, 0, 31)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, CalendarDay{Date: d, Entered: seen[d]})
	}
	return days
}

// ListingRange resolves an optional date range. Missing bounds default to
// the last days days ending today.
func ListingRange(start, end *time.Time, today time.Time, days int) (time.Time, time.Time) {
	if days < 1 {
		days = 1
	}
	to := Day(today)
	from := to.AddDate(0, 0, -(days - 1))
	if start != nil {
		from = Day(*start)
	}
	if end != nil {
		to = Day(*end)
	}
	return from, to
}
