package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDay_Strict(t *testing.T) {
	assert.True(t, NewDay(2017, time.April, 30).IsValid())
	assert.False(t, NewDay(2017, time.April, 31).IsValid())
	assert.False(t, NewDay(2017, time.February, 29).IsValid())
	assert.True(t, NewDay(2016, time.February, 29).IsValid())
	assert.False(t, NewDay(2017, 0, 1).IsValid())
	assert.False(t, Day{}.IsValid())

	assert.Equal(t, "2017-04-30", NewDay(2017, time.April, 30).String())
	assert.Equal(t, InvalidDateText, Day{}.String())
}

func TestCalendarAdapter_ParseScenarios(t *testing.T) {
	a := newTestCalendarAdapter(t, "en-US")
	jan1 := NewDay(2017, time.January, 1)

	got, ok := a.Parse("1/1/2017", []string{"M/D/YYYY"})
	require.True(t, ok)
	assert.Equal(t, jan1, got)

	got, ok = a.Parse("January 1, 2017", []string{"M/D/YYYY", "MMMM D, YYYY"})
	require.True(t, ok)
	assert.Equal(t, jan1, got)

	got, ok = a.Parse("Jan 1, 2017", []string{"M/D/YYYY"})
	assert.False(t, ok)
	assert.False(t, a.IsValid(got))

	_, ok = a.Parse("2017-1-1", []string{"M/D/YYYY", "MMMM D, YYYY"})
	assert.False(t, ok)
}

func TestCalendarAdapter_Arithmetic(t *testing.T) {
	a := newTestCalendarAdapter(t, "en-US")
	d := NewDay(2017, time.January, 31)

	assert.Equal(t, NewDay(2017, time.February, 28), a.AddCalendarMonths(d, 1))
	assert.Equal(t, NewDay(2018, time.January, 31), a.AddCalendarYears(d, 1))
	assert.Equal(t, NewDay(2016, time.December, 31), a.AddCalendarDays(d, -31))
	assert.Equal(t, Day{}, a.AddCalendarDays(Day{}, 3))
	assert.Equal(t, 31, a.DaysInMonth(d))
	assert.Equal(t, time.Tuesday, a.DayOfWeek(d))
}

func TestCalendarAdapter_Today(t *testing.T) {
	a := newTestCalendarAdapter(t, "en-US")
	assert.Equal(t, NewDay(2025, time.January, 12), a.Today())

	// 23:30 UTC is already the next day in Tokyo
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2025, time.January, 12, 23, 30, 0, 0, time.UTC)
	b, err := NewCalendarAdapter("en-US", WithLocation(tokyo), WithClock(func() time.Time { return late }))
	require.NoError(t, err)
	assert.Equal(t, NewDay(2025, time.January, 13), b.Today())
}

func TestCalendarAdapter_CompareAndSame(t *testing.T) {
	a := newTestCalendarAdapter(t, "en-US")
	x := NewDay(2017, time.March, 1)
	y := NewDay(2017, time.March, 2)

	assert.Equal(t, -1, a.CompareDate(x, y))
	assert.Equal(t, 1, a.CompareDate(y, x))
	assert.Equal(t, 0, a.CompareDate(x, NewDay(2017, time.March, 1)))
	assert.True(t, a.SameDate(Day{}, NewDay(2017, time.April, 31)))
	assert.False(t, a.SameDate(x, Day{}))
}

func TestCalendarAdapter_Deserialize(t *testing.T) {
	a := newTestCalendarAdapter(t, "en-US")

	d, ok := a.Deserialize("2017-12-31")
	require.True(t, ok)
	assert.Equal(t, NewDay(2017, time.December, 31), d)
	assert.Equal(t, "2017-12-31", a.ToISO(d))

	_, ok = a.Deserialize("12/31/2017")
	assert.False(t, ok)
	assert.Equal(t, "", a.ToISO(Day{}))
}

func TestDay_In(t *testing.T) {
	d := NewDay(2017, time.July, 4)
	assert.Equal(t, time.Date(2017, time.July, 4, 0, 0, 0, 0, time.UTC), d.In(time.UTC))
	assert.Equal(t, d, DayOf(d.In(time.UTC)))
}
