package services

import (
	"time"
)

// dayBounds expands an optional YYYY-MM-DD date into the closed interval
// covering that whole day in server-local time. An empty date means today.
func dayBounds(date string) (time.Time, time.Time, error) {
	var day time.Time
	if date == "" {
		day = time.Now()
	} else {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidDate
		}
		day = parsed
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	// Next calendar midnight, not start+24h: DST-transition days are not
	// 24 hours long.
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, time.Local).Add(-time.Nanosecond)
	return start, end, nil
}
