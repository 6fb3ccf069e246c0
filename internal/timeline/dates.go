package timeline

import "time"

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// wholeDaysBetween returns the number of whole days elapsed from start to end,
// rounded down. start must not be after end.
func wholeDaysBetween(start, end time.Time) int {
	return int((end.UnixMilli() - start.UnixMilli()) / millisPerDay)
}

// firstOfMonth returns midnight of the first day of t's month.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// lastOfMonth returns midnight of the last day of t's month.
func lastOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// shortMonthName returns the three-letter month label, e.g. "Oct".
func shortMonthName(m time.Month) string {
	return m.String()[:3]
}
