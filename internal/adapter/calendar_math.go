package adapter

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

// isoPrefix guards Deserialize so only ISO 8601 style input reaches the
// lenient dateparse reader; "1/2/2017" must not be read as a stored value.
var isoPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:$|[T ])`)

func daysIn(year int, month time.Month) int {
	return now.With(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)).EndOfMonth().Day()
}

// deserializeIn reads an ISO 8601 date or RFC 3339 timestamp. Timestamps
// are converted to loc before the calendar date is taken, so an instant
// keeps meaning the same local day it was serialized from.
func deserializeIn(s string, loc *time.Location) (civil, bool) {
	s = strings.TrimSpace(s)
	if !isoPrefix.MatchString(s) {
		return civil{}, false
	}
	if len(s) == len(isoLayout) {
		t, err := time.Parse(isoLayout, s)
		if err != nil {
			return civil{}, false
		}
		return civil{year: t.Year(), month: t.Month(), day: t.Day()}, true
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return civil{}, false
	}
	t = now.With(t.In(loc)).BeginningOfDay()
	return civil{year: t.Year(), month: t.Month(), day: t.Day()}, true
}

func isoString(c civil) string {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC).Format(isoLayout)
}
