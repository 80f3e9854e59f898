package analytics

import "time"

const dateLayout = "2006-01-02"

// dayKey formats the calendar date of t as seen in loc.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// daysBack returns midnight n calendar days before the date of t, in t's location.
// Built from the date fields so DST transitions never skip or repeat a day.
func daysBack(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-n, 0, 0, 0, 0, t.Location())
}

// dayKeys returns the keys of the n days ending at now, oldest first.
func dayKeys(now time.Time, n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = daysBack(now, n-1-i).Format(dateLayout)
	}
	return keys
}
