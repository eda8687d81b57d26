package locale

import "time"

// Locale holds the calendar names and preset patterns used to format and
// parse dates for a single language/region.
type Locale struct {
	Tag            string
	Months         [12]string
	MonthsShort    [12]string
	Weekdays       [7]string // indexed by time.Weekday
	WeekdaysShort  [7]string
	FirstDayOfWeek time.Weekday

	// Presets maps the long-date tokens (l, L, ll, LL) to concrete patterns.
	Presets map[string]string

	// Ordinal renders the suffix used by the Do token.
	Ordinal func(day int) string
}

// MonthName returns the long month name
func (l *Locale) MonthName(m time.Month) string {
	return l.Months[m-1]
}

// MonthShortName returns the abbreviated month name
func (l *Locale) MonthShortName(m time.Month) string {
	return l.MonthsShort[m-1]
}

// Preset returns the pattern registered for a preset token such as "LL"
func (l *Locale) Preset(token string) (string, bool) {
	p, ok := l.Presets[token]
	return p, ok
}

// OrdinalSuffix returns the suffix for day, or "" when the locale has none
func (l *Locale) OrdinalSuffix(day int) string {
	if l.Ordinal == nil {
		return ""
	}
	return l.Ordinal(day)
}

func englishOrdinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

var enMonths = [12]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}
var enMonthsShort = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
var enWeekdays = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
var enWeekdaysShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// EnglishUS is the default locale
var EnglishUS = &Locale{
	Tag:            "en-US",
	Months:         enMonths,
	MonthsShort:    enMonthsShort,
	Weekdays:       enWeekdays,
	WeekdaysShort:  enWeekdaysShort,
	FirstDayOfWeek: time.Sunday,
	Presets: map[string]string{
		"l":  "M/D/YYYY",
		"L":  "MM/DD/YYYY",
		"ll": "MMM D, YYYY",
		"LL": "MMMM D, YYYY",
	},
	Ordinal: englishOrdinal,
}

var EnglishGB = &Locale{
	Tag:            "en-GB",
	Months:         enMonths,
	MonthsShort:    enMonthsShort,
	Weekdays:       enWeekdays,
	WeekdaysShort:  enWeekdaysShort,
	FirstDayOfWeek: time.Monday,
	Presets: map[string]string{
		"l":  "D/M/YYYY",
		"L":  "DD/MM/YYYY",
		"ll": "D MMM YYYY",
		"LL": "D MMMM YYYY",
	},
	Ordinal: englishOrdinal,
}

var GermanDE = &Locale{
	Tag: "de-DE",
	Months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
	MonthsShort: [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun",
		"Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
	Weekdays:       [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	WeekdaysShort:  [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	FirstDayOfWeek: time.Monday,
	Presets: map[string]string{
		"l":  "D.M.YYYY",
		"L":  "DD.MM.YYYY",
		"ll": "D. MMM YYYY",
		"LL": "D. MMMM YYYY",
	},
	Ordinal: func(int) string { return "." },
}

var FrenchFR = &Locale{
	Tag: "fr-FR",
	Months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	MonthsShort: [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc."},
	Weekdays:       [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	WeekdaysShort:  [7]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."},
	FirstDayOfWeek: time.Monday,
	Presets: map[string]string{
		"l":  "D/M/YYYY",
		"L":  "DD/MM/YYYY",
		"ll": "D MMM YYYY",
		"LL": "D MMMM YYYY",
	},
	Ordinal: func(day int) string {
		if day == 1 {
			return "er"
		}
		return ""
	},
}

var SpanishES = &Locale{
	Tag: "es-ES",
	Months: [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	MonthsShort: [12]string{"ene.", "feb.", "mar.", "abr.", "may.", "jun.",
		"jul.", "ago.", "sept.", "oct.", "nov.", "dic."},
	Weekdays:       [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
	WeekdaysShort:  [7]string{"dom.", "lun.", "mar.", "mié.", "jue.", "vie.", "sáb."},
	FirstDayOfWeek: time.Monday,
	Presets: map[string]string{
		"l":  "D/M/YYYY",
		"L":  "DD/MM/YYYY",
		"ll": "D MMM YYYY",
		"LL": "D [de] MMMM [de] YYYY",
	},
	Ordinal: func(int) string { return "º" },
}

// String implements fmt.Stringer
func (l *Locale) String() string {
	if l == nil {
		return "<nil>"
	}
	return l.Tag
}
