package booking

import (
	"strings"
	"time"
)

// DayFormat is the wire form of a calendar day.
const DayFormat = "2006-01-02"

// ValidateDay checks the YYYY-MM-DD shape, that the string names a real
// calendar date at UTC midnight, and that the date falls on a weekday.
// It returns the canonical day string.
func ValidateDay(raw string) (string, error) {
	t, err := parseDay(raw)
	if err != nil {
		return "", err
	}
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return "", newError(KindWeekend, "day", "bookings are limited to Monday through Friday")
	}
	return raw, nil
}

// parseDay applies the shape and calendar checks shared by every
// day-accepting operation. The weekday rule is creation-only: reads may
// name a weekend day and simply find nothing.
func parseDay(raw string) (time.Time, error) {
	if !dayPatternOK(raw) {
		return time.Time{}, newError(KindInvalidFormat, "day", "day must be in YYYY-MM-DD format")
	}
	t, err := time.ParseInLocation(DayFormat, raw, time.UTC)
	if err != nil || t.Format(DayFormat) != raw {
		return time.Time{}, newError(KindInvalidDate, "day", "day is not a valid calendar date")
	}
	return t, nil
}

func dayPatternOK(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, c := range s {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidateName requires a provided, non-blank string and returns it trimmed.
func ValidateName(raw OptionalString) (string, error) {
	if !raw.Set || raw.Null {
		return "", newError(KindRequired, "name", "name is required")
	}
	name := strings.TrimSpace(raw.Value)
	if name == "" {
		return "", newError(KindRequired, "name", "name must not be blank")
	}
	return name, nil
}

// NormalizeContact maps an optional phone/notes field to its stored form:
// absent and explicit null both come back nil, a string is trimmed, and a
// blank string collapses to nil.
func NormalizeContact(raw OptionalString) *string {
	if !raw.Set || raw.Null {
		return nil
	}
	v := strings.TrimSpace(raw.Value)
	if v == "" {
		return nil
	}
	return &v
}

// MonthRange returns the half-open UTC range [year-month-01, next-month-01).
// December wraps into January of the following year.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// YearRange returns the half-open UTC range covering the whole calendar year.
func YearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
