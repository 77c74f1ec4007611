// Package fee aggregates a vehicle's crossings for one day into a toll fee.
//
// A vehicle is charged at most once per window. A window opens at the first
// crossing after a gap of more than one hour from the previous window's
// opening crossing; its charge is the highest fee of any crossing inside it.
// The day's total is capped at DailyCap.
package fee

import (
	"sort"
	"time"

	"toll-tracker/core/tariff"
)

const (
	// DailyCap is the most a vehicle pays in one day
	DailyCap = 60

	// WindowLength is how long one charge covers, measured from the window's first crossing
	WindowLength = time.Hour
)

// PriceTable is the lookup the aggregator charges against
type PriceTable interface {
	FeeAt(ts time.Time) int
}

// Window is one charging window of a day
type Window struct {
	// Anchor is the crossing that opened the window
	Anchor time.Time `json:"anchor"`

	// Crossings is how many crossings fell inside the window
	Crossings int `json:"crossings"`

	// Charge is the highest fee seen in the window
	Charge int `json:"charge"`
}

// Breakdown explains a daily fee
type Breakdown struct {
	Windows []Window `json:"windows"`

	// Subtotal is the sum of window charges before the cap
	Subtotal int `json:"subtotal"`

	// Total is the fee owed, min(Subtotal, DailyCap)
	Total int `json:"total"`
}

// Capped reports whether the daily cap reduced the fee
func (b Breakdown) Capped() bool {
	return b.Subtotal > b.Total
}

// Aggregator computes daily fees against a price table.
// It holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	table PriceTable
}

// NewAggregator creates an aggregator
func NewAggregator(table PriceTable) *Aggregator {
	return &Aggregator{table: table}
}

// DailyFee returns the capped fee for one vehicle's crossings on one day.
// The input need not be sorted and is not modified.
func (a *Aggregator) DailyFee(timestamps []time.Time) int {
	return a.Breakdown(timestamps).Total
}

// Breakdown returns the daily fee along with its charging windows
func (a *Aggregator) Breakdown(timestamps []time.Time) Breakdown {
	if len(timestamps) == 0 {
		return Breakdown{}
	}

	sorted := append([]time.Time(nil), timestamps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var (
		windows []Window
		current *Window
	)
	for _, ts := range sorted {
		fee := a.table.FeeAt(ts)

		// Exactly WindowLength after the anchor still belongs to the window.
		if current == nil || ts.Sub(current.Anchor) > WindowLength {
			windows = append(windows, Window{Anchor: ts, Crossings: 1, Charge: fee})
			current = &windows[len(windows)-1]
			continue
		}

		current.Crossings++
		if fee > current.Charge {
			current.Charge = fee
		}
	}

	subtotal := 0
	for _, w := range windows {
		subtotal += w.Charge
	}

	return Breakdown{
		Windows:  windows,
		Subtotal: subtotal,
		Total:    min(subtotal, DailyCap),
	}
}

// Compile-time check that the tariff table satisfies PriceTable
var _ PriceTable = (*tariff.Table)(nil)
