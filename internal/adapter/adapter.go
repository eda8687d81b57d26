// Package adapter defines the DateAdapter contract and its implementations.
//
// An adapter wraps one concrete date representation (time.Time for
// TimeAdapter, Day for CalendarAdapter) and provides comparison, calendar
// arithmetic, and locale-aware formatting and strict parsing with
// moment-style patterns:
//
//	YYYY YY        year (4 digits, 2 digits with a 1969-2068 window)
//	M MM MMM MMMM  month (number, padded number, short name, long name)
//	D DD Do        day of month (number, padded number, ordinal)
//	ddd dddd       weekday (short, long); checked against the date when parsed
//	l L ll LL      locale presets
//	[text]         literal text
package adapter

import (
	"fmt"
	"time"

	"github.com/MikeBiancalana/datefield/internal/locale"
)

// DateAdapter is the contract a date-input pipeline depends on. D is the
// concrete date value; values are immutable.
type DateAdapter[D any] interface {
	// Parse tries formats in order and returns the first structurally
	// valid calendar date. Impossible dates (31 April) never clamp.
	Parse(text string, formats []string) (D, bool)
	Format(value D, pattern string) string
	ValidatePattern(pattern string) error

	CompareDate(a, b D) int
	SameDate(a, b D) bool
	IsValid(value D) bool
	Invalid() D

	Today() D
	CreateDate(year int, month time.Month, day int) (D, error)
	AddCalendarYears(value D, years int) D
	AddCalendarMonths(value D, months int) D
	AddCalendarDays(value D, days int) D

	Year(value D) int
	Month(value D) time.Month
	Day(value D) int
	DayOfWeek(value D) time.Weekday
	DaysInMonth(value D) int

	// Deserialize reads ISO 8601 dates and RFC 3339 timestamps, such as
	// values kept in configuration or storage.
	Deserialize(s string) (D, bool)
	ToISO(value D) string

	Locale() *locale.Locale
}

// InvalidDateText is what Format renders for a value that is not valid
const InvalidDateText = "Invalid date"

const isoLayout = "2006-01-02"

// Option configures an adapter
type Option func(*options)

type options struct {
	location *time.Location
	clock    func() time.Time
	registry *locale.Registry
}

// WithLocation sets the time zone used for Today and for time.Time values
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithRegistry resolves locales against r instead of locale.Default
func WithRegistry(r *locale.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		location: time.Local,
		clock:    time.Now,
		registry: locale.Default,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func resolveLocale(tag string, o options) (*locale.Locale, error) {
	loc, err := o.registry.Lookup(tag)
	if err != nil {
		return nil, &ConfigurationError{Provider: "DateAdapter", Detail: fmt.Sprintf("locale %q", tag), Err: err}
	}
	return loc, nil
}

// parseWith runs the ordered format fallback shared by both adapters
func parseWith(text string, formats []string, loc *locale.Locale, defaultYear int) (civil, bool) {
	for _, f := range formats {
		tokens, err := compilePattern(f, loc)
		if err != nil {
			continue
		}
		if c, ok := parseCivil(text, tokens, loc, defaultYear); ok {
			return c, true
		}
	}
	return civil{}, false
}

func compareCivil(a, b civil) int {
	switch {
	case a.year != b.year:
		return sign(a.year - b.year)
	case a.month != b.month:
		return sign(int(a.month) - int(b.month))
	default:
		return sign(a.day - b.day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// addMonths moves by whole months and clamps the day to the target
// month's length (31 January + 1 month = 28/29 February).
func addMonths(c civil, months int) civil {
	total := c.year*12 + int(c.month-1) + months
	year := floorDiv(total, 12)
	month := time.Month(total-year*12) + 1
	day := c.day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return civil{year: year, month: month, day: day}
}

func addDays(c civil, days int) civil {
	t := time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return civil{year: t.Year(), month: t.Month(), day: t.Day()}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
