package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MikeBiancalana/datefield/internal/adapter"
)

// ResolveShortcut expands relative shortcuts against the adapter's today.
// Supports:
// - "t" or "today", "tm" or "tomorrow", "y" or "yesterday"
// - "mon" ... "sun" - next occurrence of the weekday
// - "+3d", "-2w", "+1m", "+1y" - offsets from today
//
// It reports false for anything else so the text can go to the parser.
func ResolveShortcut[D any](a adapter.DateAdapter[D], input string) (D, bool) {
	input = strings.TrimSpace(strings.ToLower(input))
	today := a.Today()

	switch input {
	case "t", "today":
		return today, true
	case "tm", "tomorrow":
		return a.AddCalendarDays(today, 1), true
	case "y", "yesterday":
		return a.AddCalendarDays(today, -1), true
	}

	if wd, ok := shortWeekdays[input]; ok {
		days := int(wd - a.DayOfWeek(today))
		// If target is today or earlier this week, go to next week
		if days <= 0 {
			days += 7
		}
		return a.AddCalendarDays(today, days), true
	}

	if len(input) >= 3 && (input[0] == '+' || input[0] == '-') {
		n, err := strconv.Atoi(input[1 : len(input)-1])
		if err != nil || n <= 0 {
			var zero D
			return zero, false
		}
		if input[0] == '-' {
			n = -n
		}
		switch input[len(input)-1] {
		case 'd':
			return a.AddCalendarDays(today, n), true
		case 'w':
			return a.AddCalendarDays(today, 7*n), true
		case 'm':
			return a.AddCalendarMonths(today, n), true
		case 'y':
			return a.AddCalendarYears(today, n), true
		}
	}

	var zero D
	return zero, false
}

var shortWeekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// daysFromToday counts calendar days between the adapter's today and value
func daysFromToday[D any](a adapter.DateAdapter[D], value D) int {
	today := a.Today()
	from := time.Date(a.Year(today), a.Month(today), a.Day(today), 0, 0, 0, 0, time.UTC)
	to := time.Date(a.Year(value), a.Month(value), a.Day(value), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Describe returns a human-readable description of value relative to the
// adapter's today (e.g. "today", "tomorrow", "Friday", "in 2 weeks"). Dates
// four or more weeks away are rendered with pattern.
func Describe[D any](a adapter.DateAdapter[D], value D, pattern string) string {
	if !a.IsValid(value) {
		return ""
	}
	days := daysFromToday(a, value)
	loc := a.Locale()

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1 && days < 7:
		return loc.Weekdays[a.DayOfWeek(value)]
	case days >= 7 && days < 28:
		weeks := days / 7
		if weeks == 1 {
			return "in 1 week"
		}
		return fmt.Sprintf("in %d weeks", weeks)
	case days < -1 && days > -7:
		return fmt.Sprintf("%d days ago", -days)
	case days <= -7 && days > -28:
		weeks := -days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
	return a.Format(value, pattern)
}
