package Scheduling

import (
	"errors"
	"time"
)

var (
	ErrWeekendStart   = errors.New("start date falls on a weekend")
	ErrInvalidCadence = errors.New("sessions per week must be between 1 and 5")
	ErrNegativeCount  = errors.New("session count cannot be negative")
)

func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// TotalSessionCount derives the package length from its duration and weekly
// cadence, one month counted as four weeks. Integer multiplication floors
// the residual fraction of a week.
func TotalSessionCount(durationMonths, perWeek int) int {
	return durationMonths * 4 * perWeek
}

// GenerateSessionDates walks forward day by day from start, placing sessions
// on weekdays only and capping placements at perWeek per calendar week. The
// time of day of start is carried onto every generated date. Weekend days
// are skipped, never back-filled: the weekly cadence stays fixed even at the
// tail of the series.
func GenerateSessionDates(start time.Time, count int, perWeek int) ([]time.Time, error) {
	if perWeek < 1 || perWeek > 5 {
		return nil, ErrInvalidCadence
	}
	if IsWeekend(start) {
		return nil, ErrWeekendStart
	}
	if count < 0 {
		return nil, ErrNegativeCount
	}

	dates := make([]time.Time, 0, count)
	cursor := start
	year, week := cursor.ISOWeek()
	placed := 0

	for len(dates) < count {
		if y, w := cursor.ISOWeek(); y != year || w != week {
			year, week = y, w
			placed = 0
		}
		if !IsWeekend(cursor) && placed < perWeek {
			dates = append(dates, cursor)
			placed++
		}
		cursor = cursor.AddDate(0, 0, 1)
	}

	return dates, nil
}
