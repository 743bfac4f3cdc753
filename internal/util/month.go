package util

import "time"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthRange returns the first and last day of the given month
func MonthRange(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}

// CurrentMonth returns the current year and month in UTC
func CurrentMonth() (int, int) {
	now := time.Now().UTC()
	return now.Year(), int(now.Month())
}
