package adapter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/MikeBiancalana/datefield/internal/locale"
)

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear4
	tokYear2
	tokMonth
	tokMonth2
	tokMonthShort
	tokMonthLong
	tokDay
	tokDay2
	tokDayOrdinal
	tokWeekdayShort
	tokWeekdayLong
)

type token struct {
	kind tokenKind
	text string
}

// civil is a year/month/day triple as read from or written to text
type civil struct {
	year  int
	month time.Month
	day   int
}

// compilePattern splits a moment-style pattern into tokens, expanding the
// locale presets (l, L, ll, LL). Unsupported letter runs are an error.
func compilePattern(pattern string, loc *locale.Locale) ([]token, error) {
	return compile(pattern, loc, true)
}

func compile(pattern string, loc *locale.Locale, expandPresets bool) ([]token, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	var tokens []token
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '[' {
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("unterminated literal in pattern %q", pattern)
			}
			tokens = appendLiteral(tokens, string(runes[i+1:end]))
			i = end + 1
			continue
		}

		if !unicode.IsLetter(r) {
			tokens = appendLiteral(tokens, string(r))
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}

		switch {
		case r == 'Y' && n == 4:
			tokens = append(tokens, token{kind: tokYear4})
		case r == 'Y' && n == 2:
			tokens = append(tokens, token{kind: tokYear2})
		case r == 'M' && n == 1:
			tokens = append(tokens, token{kind: tokMonth})
		case r == 'M' && n == 2:
			tokens = append(tokens, token{kind: tokMonth2})
		case r == 'M' && n == 3:
			tokens = append(tokens, token{kind: tokMonthShort})
		case r == 'M' && n == 4:
			tokens = append(tokens, token{kind: tokMonthLong})
		case r == 'D' && n == 1 && i+1 < len(runes) && runes[i+1] == 'o':
			tokens = append(tokens, token{kind: tokDayOrdinal})
			n = 2
		case r == 'D' && n == 1:
			tokens = append(tokens, token{kind: tokDay})
		case r == 'D' && n == 2:
			tokens = append(tokens, token{kind: tokDay2})
		case r == 'd' && n == 3:
			tokens = append(tokens, token{kind: tokWeekdayShort})
		case r == 'd' && n == 4:
			tokens = append(tokens, token{kind: tokWeekdayLong})
		case (r == 'l' || r == 'L') && n <= 2 && expandPresets:
			preset, ok := loc.Preset(string(runes[i : i+n]))
			if !ok {
				return nil, fmt.Errorf("locale %s has no preset %q", loc.Tag, string(runes[i:i+n]))
			}
			expanded, err := compile(preset, loc, false)
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", string(runes[i:i+n]), err)
			}
			tokens = append(tokens, expanded...)
		default:
			return nil, fmt.Errorf("unsupported token %q in pattern %q", string(runes[i:i+n]), pattern)
		}
		i += n
	}
	return tokens, nil
}

func appendLiteral(tokens []token, text string) []token {
	if n := len(tokens); n > 0 && tokens[n-1].kind == tokLiteral {
		tokens[n-1].text += text
		return tokens
	}
	return append(tokens, token{kind: tokLiteral, text: text})
}

// formatCivil renders a valid date with compiled tokens
func formatCivil(c civil, tokens []token, loc *locale.Locale) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokYear4:
			fmt.Fprintf(&b, "%04d", c.year)
		case tokYear2:
			fmt.Fprintf(&b, "%02d", ((c.year%100)+100)%100)
		case tokMonth:
			b.WriteString(strconv.Itoa(int(c.month)))
		case tokMonth2:
			fmt.Fprintf(&b, "%02d", int(c.month))
		case tokMonthShort:
			b.WriteString(loc.MonthShortName(c.month))
		case tokMonthLong:
			b.WriteString(loc.MonthName(c.month))
		case tokDay:
			b.WriteString(strconv.Itoa(c.day))
		case tokDay2:
			fmt.Fprintf(&b, "%02d", c.day)
		case tokDayOrdinal:
			b.WriteString(strconv.Itoa(c.day))
			b.WriteString(loc.OrdinalSuffix(c.day))
		case tokWeekdayShort:
			b.WriteString(loc.WeekdaysShort[weekdayOf(c)])
		case tokWeekdayLong:
			b.WriteString(loc.Weekdays[weekdayOf(c)])
		}
	}
	return b.String()
}

// parseCivil reads text strictly against compiled tokens. The whole input
// must be consumed and the result must be a real calendar date. Fields
// missing from the pattern fall back to defaults (year from defaultYear,
// month and day to 1).
func parseCivil(text string, tokens []token, loc *locale.Locale, defaultYear int) (civil, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return civil{}, false
	}

	result := civil{year: defaultYear, month: time.January, day: 1}
	weekday := -1
	pos := 0

	for _, tok := range tokens {
		var ok bool
		switch tok.kind {
		case tokLiteral:
			pos, ok = matchLiteral(s, pos, tok.text)
		case tokYear4:
			result.year, pos, ok = readDigits(s, pos, 4, 4)
		case tokYear2:
			var yy int
			yy, pos, ok = readDigits(s, pos, 2, 2)
			if yy > 68 {
				result.year = 1900 + yy
			} else {
				result.year = 2000 + yy
			}
		case tokMonth:
			var m int
			m, pos, ok = readDigits(s, pos, 1, 2)
			result.month = time.Month(m)
		case tokMonth2:
			var m int
			m, pos, ok = readDigits(s, pos, 2, 2)
			result.month = time.Month(m)
		case tokMonthShort:
			var idx int
			idx, pos, ok = matchName(s, pos, loc.MonthsShort[:])
			result.month = time.Month(idx + 1)
		case tokMonthLong:
			var idx int
			idx, pos, ok = matchName(s, pos, loc.Months[:])
			result.month = time.Month(idx + 1)
		case tokDay:
			result.day, pos, ok = readDigits(s, pos, 1, 2)
		case tokDay2:
			result.day, pos, ok = readDigits(s, pos, 2, 2)
		case tokDayOrdinal:
			result.day, pos, ok = readDigits(s, pos, 1, 2)
			if ok {
				pos, ok = matchFold(s, pos, loc.OrdinalSuffix(result.day))
			}
		case tokWeekdayShort:
			weekday, pos, ok = matchName(s, pos, loc.WeekdaysShort[:])
		case tokWeekdayLong:
			weekday, pos, ok = matchName(s, pos, loc.Weekdays[:])
		}
		if !ok {
			return civil{}, false
		}
	}

	if pos != len(s) {
		return civil{}, false
	}
	if !validCivil(result) {
		return civil{}, false
	}
	if weekday >= 0 && time.Weekday(weekday) != weekdayOf(result) {
		return civil{}, false
	}
	return result, true
}

func validCivil(c civil) bool {
	if c.month < time.January || c.month > time.December {
		return false
	}
	return c.day >= 1 && c.day <= daysIn(c.year, c.month)
}

func weekdayOf(c civil) time.Weekday {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC).Weekday()
}

func readDigits(s string, pos, minDigits, maxDigits int) (int, int, bool) {
	end := pos
	for end < len(s) && end-pos < maxDigits && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end-pos < minDigits {
		return 0, pos, false
	}
	n, err := strconv.Atoi(s[pos:end])
	if err != nil {
		return 0, pos, false
	}
	return n, end, true
}

// matchLiteral matches a literal separator. A whitespace run in the
// pattern matches one or more whitespace characters in the input.
func matchLiteral(s string, pos int, lit string) (int, bool) {
	prevSpace := false
	for _, r := range lit {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			start := pos
			for pos < len(s) {
				c, size := utf8.DecodeRuneInString(s[pos:])
				if !unicode.IsSpace(c) {
					break
				}
				pos += size
			}
			if pos == start {
				return pos, false
			}
			continue
		}
		prevSpace = false
		c, size := utf8.DecodeRuneInString(s[pos:])
		if size == 0 || c != r {
			return pos, false
		}
		pos += size
	}
	return pos, true
}

// matchName finds the longest case-insensitive match among names
func matchName(s string, pos int, names []string) (int, int, bool) {
	best, bestEnd := -1, pos
	for i, name := range names {
		if name == "" {
			continue
		}
		if end, ok := matchFold(s, pos, name); ok && end > bestEnd {
			best, bestEnd = i, end
		}
	}
	if best < 0 {
		return -1, pos, false
	}
	return best, bestEnd, true
}

func matchFold(s string, pos int, want string) (int, bool) {
	end := pos
	for _, w := range want {
		if end >= len(s) {
			return pos, false
		}
		c, size := utf8.DecodeRuneInString(s[end:])
		if c != w && unicode.ToLower(c) != unicode.ToLower(w) {
			return pos, false
		}
		end += size
	}
	return end, true
}
