package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/daystreak/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDate parses a YYYY-MM-DD string as midnight in the local civil calendar.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", dateStr, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DateForDay returns the calendar date of a 1-based challenge day. The
// arithmetic is done on year/month/day so DST transitions cannot shift it.
func DateForDay(start time.Time, day int) time.Time {
	return time.Date(start.Year(), start.Month(), start.Day()+day-1, 0, 0, 0, 0, start.Location())
}

// WeekdayOfDay returns the weekday (Sunday=0) of a challenge day.
func WeekdayOfDay(start time.Time, day int) time.Weekday {
	return DateForDay(start, day).Weekday()
}

// CurrentDayNumber returns the challenge day that contains today, clamped to
// [1, duration]. Days before the start map to 1, days after the end to duration.
func CurrentDayNumber(start time.Time, duration int, today time.Time) int {
	day := CivilDaysBetween(start, today) + 1
	if day > duration {
		day = duration
	}
	if day < 1 {
		day = 1
	}
	return day
}

// CivilDaysBetween counts whole calendar days from a to b, ignoring the clock
// time and the UTC offset of either value.
func CivilDaysBetween(a, b time.Time) int {
	return int(civilDay(b) - civilDay(a))
}

func civilDay(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}
