package components

import (
	"testing"
	"time"

	"github.com/MikeBiancalana/datefield/internal/adapter"
)

func TestResolveShortcut(t *testing.T) {
	a := newTestAdapter(t)
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"t", day(time.January, 12), true},
		{" Today ", day(time.January, 12), true},
		{"tm", day(time.January, 13), true},
		{"yesterday", day(time.January, 11), true},
		{"mon", day(time.January, 13), true},
		{"sun", day(time.January, 19), true},
		{"+3d", day(time.January, 15), true},
		{"-2w", time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC), true},
		{"+1m", day(time.February, 12), true},
		{"+1y", time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC), true},
		{"+0d", time.Time{}, false},
		{"+xd", time.Time{}, false},
		{"+3q", time.Time{}, false},
		{"1/1/2017", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ResolveShortcut[time.Time](a, tt.input)
			if ok != tt.ok {
				t.Fatalf("ResolveShortcut(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ResolveShortcut(%q) = %s, want %s", tt.input, got.Format(time.DateOnly), tt.want.Format(time.DateOnly))
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	a := newTestAdapter(t)
	today := a.Today()

	tests := []struct {
		name string
		days int
		want string
	}{
		{"today", 0, "today"},
		{"tomorrow", 1, "tomorrow"},
		{"yesterday", -1, "yesterday"},
		{"weekday", 5, "Friday"},
		{"one week", 7, "in 1 week"},
		{"two weeks", 15, "in 2 weeks"},
		{"days ago", -3, "3 days ago"},
		{"weeks ago", -14, "2 weeks ago"},
		{"far future", 40, "Feb 21, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe[time.Time](a, a.AddCalendarDays(today, tt.days), "ll")
			if got != tt.want {
				t.Errorf("Describe(+%d) = %q, want %q", tt.days, got, tt.want)
			}
		})
	}

	if got := Describe[time.Time](a, time.Time{}, "ll"); got != "" {
		t.Errorf("Describe(invalid) = %q, want empty", got)
	}
}

func TestDescribe_CalendarAdapter(t *testing.T) {
	a, err := adapter.NewCalendarAdapter("de-DE", adapter.WithLocation(time.UTC), adapter.WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}

	got := Describe[adapter.Day](a, adapter.NewDay(2025, time.January, 15), "LL")
	if got != "Mittwoch" {
		t.Errorf("expected German weekday, got %q", got)
	}
}
