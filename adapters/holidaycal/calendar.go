// Package holidaycal is an offline holiday oracle backed by a fixed
// calendar of Swedish public holidays (röda dagar).
package holidaycal

import (
	"context"
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/se"

	"toll-tracker/core/holiday"
)

// RedDays are the Swedish red days. Eves (midsommarafton, julafton,
// nyårsafton) are customary days off but not red days, so they are absent.
var RedDays = []*cal.Holiday{
	se.Nyarsdagen,
	se.TrettondedagJul,
	se.Langfredagen,
	se.Paskdagen,
	se.AnnandagPask,
	se.ForstaMaj,
	se.KristiHimmelsfardsdag,
	se.Pingstdagen,
	se.Nationaldagen,
	se.Midsommardagen,
	se.AllaHelgonsDag,
	se.Juldagen,
	se.AnnandagJul,
}

var swedishWeekdays = [...]string{"Söndag", "Måndag", "Tisdag", "Onsdag", "Torsdag", "Fredag", "Lördag"}

// Calendar answers holiday lookups without a network call
type Calendar struct {
	calendar *cal.BusinessCalendar
}

// New builds a calendar with the Swedish red days
func New() *Calendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(RedDays...)
	return &Calendar{calendar: c}
}

// Lookup implements holiday.Oracle
func (c *Calendar) Lookup(ctx context.Context, date time.Time) (*holiday.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Holidays are calculated at local midnight; compare on the date alone.
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)

	red := holiday.No
	name := ""
	if actual, _, h := c.calendar.IsHoliday(midnight); actual {
		red = holiday.Yes
		name = h.Name
	}
	// Sundays are red days in the registry as well.
	if date.Weekday() == time.Sunday {
		red = holiday.Yes
	}

	ymd := date.Format("2006-01-02")
	_, week := date.ISOWeek()
	return &holiday.Info{
		Version:   "calendar",
		StartDate: ymd,
		EndDate:   ymd,
		Days: []holiday.Day{{
			Date:    ymd,
			Weekday: swedishWeekdays[date.Weekday()],
			RedDay:  red,
			Week:    fmt.Sprintf("%02d", week),
			Holiday: name,
		}},
	}, nil
}

var _ holiday.Oracle = (*Calendar)(nil)
