package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDay is returned when a string cannot be parsed as a calendar day.
var ErrInvalidDay = errors.New("invalid day")

// isoLayout is the layout used for every Day written to storage.
const isoLayout = "2006-01-02"

// dayLayouts are tried in order by ParseDay. Non-ISO layouts are day-first.
var dayLayouts = []string{
	isoLayout,
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
}

// Day is a calendar date with no time-of-day.
// The zero Day is invalid and reports IsZero.
type Day struct {
	t time.Time // always midnight UTC
}

// NewDay returns the Day for the given year, month and day of month.
// Out-of-range values are normalized the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar day of now in now's location.
func Today(now time.Time) Day {
	y, m, d := now.Date()
	return NewDay(y, m, d)
}

// ParseDay parses ISO (2006-01-02) or day-first (02-01-2006, 02/01/2006,
// 02.01.2006) dates. Surrounding whitespace is ignored.
func ParseDay(s string) (Day, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Day{}, fmt.Errorf("%w: empty", ErrInvalidDay)
	}
	for _, layout := range dayLayouts {
		t, err := time.Parse(layout, trimmed)
		if err == nil {
			return Today(t), nil
		}
	}
	return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// MustParseDay is like ParseDay but panics on error. Intended for tests
// and constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the ISO form (2006-01-02), or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(isoLayout)
}

// Format formats the day with a time layout.
func (d Day) Format(layout string) string {
	return d.t.Format(layout)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns d shifted by n calendar days (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// Equal reports whether d and other are the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// Compare returns -1, 0 or +1 as d is before, equal to or after other.
func (d Day) Compare(other Day) int {
	return d.t.Compare(other.t)
}

// DaysUntil returns the number of calendar days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// MarshalText implements encoding.TextMarshaler using the ISO form.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via ParseDay.
func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
