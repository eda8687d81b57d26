package adapter

import (
	"fmt"
	"time"

	"github.com/MikeBiancalana/datefield/internal/locale"
)

// Day is a civil calendar date with no time of day or zone. The zero Day
// is invalid, as is any Day built from an impossible date.
type Day struct {
	year  int
	month time.Month
	day   int
	valid bool
}

// NewDay returns the date, or an invalid Day when the fields do not name a
// real calendar date. It never normalizes (NewDay(2017, 4, 31) is invalid).
func NewDay(year int, month time.Month, day int) Day {
	c := civil{year: year, month: month, day: day}
	if !validCivil(c) {
		return Day{}
	}
	return dayOf(c)
}

// DayOf returns the calendar date of t in t's location
func DayOf(t time.Time) Day {
	return dayOf(civil{year: t.Year(), month: t.Month(), day: t.Day()})
}

func dayOf(c civil) Day {
	return Day{year: c.year, month: c.month, day: c.day, valid: true}
}

func (d Day) civil() civil {
	return civil{year: d.year, month: d.month, day: d.day}
}

func (d Day) Year() int { return d.year }
func (d Day) Month() time.Month { return d.month }
func (d Day) Day() int { return d.day }
func (d Day) IsValid() bool { return d.valid }
func (d Day) Weekday() time.Weekday { return weekdayOf(d.civil()) }

// In returns midnight of d in loc
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// String returns the ISO 8601 form, or InvalidDateText
func (d Day) String() string {
	if !d.valid {
		return InvalidDateText
	}
	return isoString(d.civil())
}

// CalendarAdapter adapts Day values
type CalendarAdapter struct {
	loc      *locale.Locale
	location *time.Location
	clock    func() time.Time
}

var _ DateAdapter[Day] = (*CalendarAdapter)(nil)

// NewCalendarAdapter creates an adapter for the given locale tag. The
// location only matters for Today and for deserializing timestamps.
func NewCalendarAdapter(localeTag string, opts ...Option) (*CalendarAdapter, error) {
	o := buildOptions(opts)
	loc, err := resolveLocale(localeTag, o)
	if err != nil {
		return nil, err
	}
	return &CalendarAdapter{loc: loc, location: o.location, clock: o.clock}, nil
}

func (a *CalendarAdapter) Parse(text string, formats []string) (Day, bool) {
	c, ok := parseWith(text, formats, a.loc, a.Today().year)
	if !ok {
		return Day{}, false
	}
	return dayOf(c), true
}

func (a *CalendarAdapter) Format(value Day, pattern string) string {
	if !value.valid {
		return InvalidDateText
	}
	tokens, err := compilePattern(pattern, a.loc)
	if err != nil {
		return InvalidDateText
	}
	return formatCivil(value.civil(), tokens, a.loc)
}

func (a *CalendarAdapter) ValidatePattern(pattern string) error {
	_, err := compilePattern(pattern, a.loc)
	return err
}

func (a *CalendarAdapter) CompareDate(x, y Day) int {
	return compareCivil(x.civil(), y.civil())
}

func (a *CalendarAdapter) SameDate(x, y Day) bool {
	if x.valid && y.valid {
		return a.CompareDate(x, y) == 0
	}
	return x.valid == y.valid
}

func (a *CalendarAdapter) IsValid(value Day) bool { return value.valid }
func (a *CalendarAdapter) Invalid() Day { return Day{} }

func (a *CalendarAdapter) Today() Day {
	return DayOf(a.clock().In(a.location))
}

func (a *CalendarAdapter) CreateDate(year int, month time.Month, day int) (Day, error) {
	d := NewDay(year, month, day)
	if !d.valid {
		return Day{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, int(month), day)
	}
	return d, nil
}

func (a *CalendarAdapter) AddCalendarYears(value Day, years int) Day {
	return a.AddCalendarMonths(value, years*12)
}

func (a *CalendarAdapter) AddCalendarMonths(value Day, months int) Day {
	if !value.valid {
		return value
	}
	return dayOf(addMonths(value.civil(), months))
}

func (a *CalendarAdapter) AddCalendarDays(value Day, days int) Day {
	if !value.valid {
		return value
	}
	return dayOf(addDays(value.civil(), days))
}

func (a *CalendarAdapter) Year(value Day) int { return value.year }
func (a *CalendarAdapter) Month(value Day) time.Month { return value.month }
func (a *CalendarAdapter) Day(value Day) int { return value.day }
func (a *CalendarAdapter) DayOfWeek(value Day) time.Weekday { return value.Weekday() }
func (a *CalendarAdapter) DaysInMonth(value Day) int { return daysIn(value.year, value.month) }

func (a *CalendarAdapter) Deserialize(s string) (Day, bool) {
	c, ok := deserializeIn(s, a.location)
	if !ok {
		return Day{}, false
	}
	return dayOf(c), true
}

func (a *CalendarAdapter) ToISO(value Day) string {
	if !value.valid {
		return ""
	}
	return isoString(value.civil())
}

func (a *CalendarAdapter) Locale() *locale.Locale {
	return a.loc
}
