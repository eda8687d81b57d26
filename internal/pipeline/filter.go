package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/MikeBiancalana/datefield/internal/adapter"
)

// Rules is a declarative date filter read from configuration. A date is
// allowed when no rule excludes it.
type Rules struct {
	ExcludeWeekdays    []string `yaml:"exclude_weekdays,omitempty"`
	ExcludeDaysOfMonth []int    `yaml:"exclude_days_of_month,omitempty"`
	ExcludeDates       []string `yaml:"exclude_dates,omitempty"`
}

// IsZero reports whether no rule is set
func (r Rules) IsZero() bool {
	return len(r.ExcludeWeekdays) == 0 && len(r.ExcludeDaysOfMonth) == 0 && len(r.ExcludeDates) == 0
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// CompileRules builds a filter predicate from rules using the adapter's
// accessors. It returns a nil predicate when no rule is set.
func CompileRules[D any](a adapter.DateAdapter[D], r Rules) (func(D) bool, error) {
	if r.IsZero() {
		return nil, nil
	}

	weekdays := make(map[time.Weekday]bool)
	for _, name := range r.ExcludeWeekdays {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		weekdays[wd] = true
	}

	days := make(map[int]bool)
	for _, d := range r.ExcludeDaysOfMonth {
		if d < 1 || d > 31 {
			return nil, fmt.Errorf("day of month %d out of range", d)
		}
		days[d] = true
	}

	dates := make([]D, 0, len(r.ExcludeDates))
	for _, s := range r.ExcludeDates {
		d, ok := a.Deserialize(s)
		if !ok {
			return nil, fmt.Errorf("invalid excluded date %q", s)
		}
		dates = append(dates, d)
	}

	return func(v D) bool {
		if weekdays[a.DayOfWeek(v)] || days[a.Day(v)] {
			return false
		}
		for _, d := range dates {
			if a.SameDate(v, d) {
				return false
			}
		}
		return true
	}, nil
}

// ParseBound deserializes an ISO date used as a min or max bound. An empty
// string means no bound.
func ParseBound[D any](a adapter.DateAdapter[D], s string) (*D, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, ok := a.Deserialize(s)
	if !ok {
		return nil, fmt.Errorf("invalid bound %q", s)
	}
	return &d, nil
}
