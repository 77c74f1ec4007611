// Package holiday decides whether a calendar date is toll free.
package holiday

import (
	"context"
	"strings"
	"time"
)

// QueryLayout formats a date as the registry key, e.g. "2024/06/19"
const QueryLayout = "2006/01/02"

// Query returns the registry key for date
func Query(date time.Time) string {
	return date.Format(QueryLayout)
}

// Oracle looks up what the public holiday registry knows about a date.
//
// Implementations return a nil *Info with a nil error when the registry
// answered but had nothing to say; the resolver treats that as a failure.
type Oracle interface {
	Lookup(ctx context.Context, date time.Time) (*Info, error)
}

// OracleFunc adapts a function to Oracle
type OracleFunc func(ctx context.Context, date time.Time) (*Info, error)

// Lookup calls f
func (f OracleFunc) Lookup(ctx context.Context, date time.Time) (*Info, error) {
	return f(ctx, date)
}

// Info is the registry's answer for a date range (sholiday.faboul.se dagar/v2.1)
type Info struct {
	CacheTime string `json:"cachetid,omitempty"`
	Version   string `json:"version,omitempty"`
	URI       string `json:"uri,omitempty"`
	StartDate string `json:"startdatum,omitempty"`
	EndDate   string `json:"slutdatum,omitempty"`
	Days      []Day  `json:"dagar"`
}

// Day describes one date in the registry
type Day struct {
	Date                       string   `json:"datum"`
	Weekday                    string   `json:"veckodag,omitempty"`
	NonWorkingDay              string   `json:"arbetsfri dag,omitempty"`
	RedDay                     string   `json:"röd dag"`
	Week                       string   `json:"vecka,omitempty"`
	DayOfWeek                  string   `json:"dag i vecka,omitempty"`
	DayBeforeNonWorkingHoliday string   `json:"dag före arbetsfri helgdag,omitempty"`
	Holiday                    string   `json:"helgdag,omitempty"`
	NameDays                   []string `json:"namnsdag,omitempty"`
	FlagDay                    string   `json:"flaggdag,omitempty"`
}

// Affirmative markers
const (
	Yes = "Ja"
	No  = "Nej"
)

// IsRedDay reports whether the day is a public holiday
func (d Day) IsRedDay() bool {
	return isAffirmative(d.RedDay)
}

// IsRedDay reports whether the first listed day is a public holiday.
// No days means no holiday.
func (i *Info) IsRedDay() bool {
	if i == nil || len(i.Days) == 0 {
		return false
	}
	return i.Days[0].IsRedDay()
}

func isAffirmative(marker string) bool {
	switch strings.ToLower(strings.TrimSpace(marker)) {
	case "ja", "yes":
		return true
	}
	return false
}

// IsWeekend reports whether date falls on a Saturday or Sunday
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
