// Package tariff holds the time-of-day price table.
// Lookups are first-match in declaration order; gaps are free.
package tariff

import (
	"fmt"
	"strings"
	"time"

	apperrors "toll-tracker/internal/errors"
)

// TimeOfDay is the offset since local midnight
type TimeOfDay time.Duration

// Clock builds a TimeOfDay from hours, minutes and seconds
func Clock(hour, min, sec int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute + time.Duration(sec)*time.Second)
}

// TimeOfDayOf returns the wall-clock time of t in its own location
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return Clock(h, m, s) + TimeOfDay(t.Nanosecond())
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, apperrors.Newf(apperrors.TypeParsing, "invalid time of day %q (want HH:MM or HH:MM:SS)", s)
}

// String renders HH:MM, or HH:MM:SS when seconds are set
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// MarshalText implements encoding.TextMarshaler
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Interval charges Price for crossings in [Start, End], both ends inclusive
type Interval struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Price int       `json:"price"`
}

// Contains reports whether tod falls inside the interval
func (i Interval) Contains(tod TimeOfDay) bool {
	return i.Start <= tod && tod <= i.End
}

// Table is an ordered, read-only list of price intervals
type Table struct {
	intervals []Interval
}

// NewTable validates and copies the intervals, preserving their order
func NewTable(intervals []Interval) (*Table, error) {
	if len(intervals) == 0 {
		return nil, apperrors.Config("price table has no intervals")
	}

	for i, iv := range intervals {
		if iv.Price < 0 {
			return nil, apperrors.Newf(apperrors.TypeConfig, "price interval %d (%s-%s) has negative price %d",
				i, iv.Start, iv.End, iv.Price)
		}
		if iv.Start > iv.End {
			return nil, apperrors.Newf(apperrors.TypeConfig, "price interval %d starts after it ends (%s-%s)",
				i, iv.Start, iv.End)
		}
	}

	return &Table{intervals: append([]Interval(nil), intervals...)}, nil
}

// MustTable is NewTable for fixed tables known to be valid
func MustTable(intervals []Interval) *Table {
	t, err := NewTable(intervals)
	if err != nil {
		panic(err)
	}
	return t
}

// FeeFor returns the price of the first interval containing tod, or 0
func (t *Table) FeeFor(tod TimeOfDay) int {
	for _, iv := range t.intervals {
		if iv.Contains(tod) {
			return iv.Price
		}
	}
	return 0
}

// FeeAt returns the fee for a crossing at ts
func (t *Table) FeeAt(ts time.Time) int {
	return t.FeeFor(TimeOfDayOf(ts))
}

// Intervals returns a copy of the table in lookup order
func (t *Table) Intervals() []Interval {
	return append([]Interval(nil), t.intervals...)
}

// Len returns the number of intervals
func (t *Table) Len() int {
	return len(t.intervals)
}
