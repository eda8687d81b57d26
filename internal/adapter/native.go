package adapter

import (
	"fmt"
	"time"

	"github.com/MikeBiancalana/datefield/internal/locale"
	"github.com/jinzhu/now"
)

// TimeAdapter adapts time.Time. Values are midnight in the adapter's
// location; the zero time is the invalid value.
type TimeAdapter struct {
	loc      *locale.Locale
	location *time.Location
	clock    func() time.Time
}

var _ DateAdapter[time.Time] = (*TimeAdapter)(nil)

// NewTimeAdapter creates an adapter for the given locale tag
func NewTimeAdapter(localeTag string, opts ...Option) (*TimeAdapter, error) {
	o := buildOptions(opts)
	loc, err := resolveLocale(localeTag, o)
	if err != nil {
		return nil, err
	}
	return &TimeAdapter{loc: loc, location: o.location, clock: o.clock}, nil
}

func (a *TimeAdapter) toCivil(t time.Time) civil {
	t = t.In(a.location)
	return civil{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (a *TimeAdapter) fromCivil(c civil) time.Time {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, a.location)
}

// representable reports whether c maps to an instant other than the zero
// time, which is reserved for Invalid. Only 0001-01-01 in UTC collides.
func (a *TimeAdapter) representable(c civil) bool {
	return !a.fromCivil(c).IsZero()
}

func (a *TimeAdapter) Parse(text string, formats []string) (time.Time, bool) {
	c, ok := parseWith(text, formats, a.loc, a.Today().Year())
	if !ok || !a.representable(c) {
		return time.Time{}, false
	}
	return a.fromCivil(c), true
}

func (a *TimeAdapter) Format(value time.Time, pattern string) string {
	if !a.IsValid(value) {
		return InvalidDateText
	}
	tokens, err := compilePattern(pattern, a.loc)
	if err != nil {
		return InvalidDateText
	}
	return formatCivil(a.toCivil(value), tokens, a.loc)
}

func (a *TimeAdapter) ValidatePattern(pattern string) error {
	_, err := compilePattern(pattern, a.loc)
	return err
}

func (a *TimeAdapter) CompareDate(x, y time.Time) int {
	return compareCivil(a.toCivil(x), a.toCivil(y))
}

// SameDate compares calendar dates. Two invalid values are the same.
func (a *TimeAdapter) SameDate(x, y time.Time) bool {
	xv, yv := a.IsValid(x), a.IsValid(y)
	if xv && yv {
		return a.CompareDate(x, y) == 0
	}
	return xv == yv
}

func (a *TimeAdapter) IsValid(value time.Time) bool {
	return !value.IsZero()
}

func (a *TimeAdapter) Invalid() time.Time {
	return time.Time{}
}

func (a *TimeAdapter) Today() time.Time {
	return now.With(a.clock().In(a.location)).BeginningOfDay()
}

func (a *TimeAdapter) CreateDate(year int, month time.Month, day int) (time.Time, error) {
	c := civil{year: year, month: month, day: day}
	if !validCivil(c) {
		return time.Time{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, int(month), day)
	}
	if !a.representable(c) {
		return time.Time{}, fmt.Errorf("date %s is out of range", isoString(c))
	}
	return a.fromCivil(c), nil
}

func (a *TimeAdapter) AddCalendarYears(value time.Time, years int) time.Time {
	return a.AddCalendarMonths(value, years*12)
}

func (a *TimeAdapter) AddCalendarMonths(value time.Time, months int) time.Time {
	if !a.IsValid(value) {
		return value
	}
	return a.fromCivil(addMonths(a.toCivil(value), months))
}

func (a *TimeAdapter) AddCalendarDays(value time.Time, days int) time.Time {
	if !a.IsValid(value) {
		return value
	}
	return a.fromCivil(addDays(a.toCivil(value), days))
}

func (a *TimeAdapter) Year(value time.Time) int {
	return value.In(a.location).Year()
}

func (a *TimeAdapter) Month(value time.Time) time.Month {
	return value.In(a.location).Month()
}

func (a *TimeAdapter) Day(value time.Time) int {
	return value.In(a.location).Day()
}

func (a *TimeAdapter) DayOfWeek(value time.Time) time.Weekday {
	return value.In(a.location).Weekday()
}

func (a *TimeAdapter) DaysInMonth(value time.Time) int {
	return now.With(value.In(a.location)).EndOfMonth().Day()
}

func (a *TimeAdapter) Deserialize(s string) (time.Time, bool) {
	c, ok := deserializeIn(s, a.location)
	if !ok || !a.representable(c) {
		return time.Time{}, false
	}
	return a.fromCivil(c), true
}

func (a *TimeAdapter) ToISO(value time.Time) string {
	if !a.IsValid(value) {
		return ""
	}
	return isoString(a.toCivil(value))
}

func (a *TimeAdapter) Locale() *locale.Locale {
	return a.loc
}
