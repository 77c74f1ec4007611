package toll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"toll-tracker/core/fee"
	"toll-tracker/core/types"
)

// DateLayout is the calendar date form used by reports
const DateLayout = "2006-01-02"

// ReasonVehicleExempt marks a line whose vehicle type pays nothing
const ReasonVehicleExempt = "vehicle type exempt"

// Report is the toll owed by every vehicle that crossed on one date
type Report struct {
	Date     string         `json:"date"`
	Currency types.Currency `json:"currency"`

	// DateExempt is set when the whole date is toll free; Lines is then empty
	DateExempt bool `json:"date_exempt"`

	// NoRecords is set when no vehicle crossed on a chargeable date
	NoRecords bool `json:"no_records"`

	Lines []Line      `json:"lines,omitempty"`
	Total types.Money `json:"total"`
}

// Line is one vehicle's part of a report
type Line struct {
	Vehicle   types.Vehicle  `json:"vehicle"`
	Crossings int            `json:"crossings"`
	Fee       types.Money    `json:"fee"`
	Exempt    string         `json:"exempt_reason,omitempty"`
	Breakdown *fee.Breakdown `json:"breakdown,omitempty"`
}

// DailyReport computes what each passage owes on date. Date exemption is
// resolved first and a lookup failure aborts the report. Passages with no
// crossings on date are left out.
func (s *Service) DailyReport(ctx context.Context, date time.Time, passages []types.Passage) (*Report, error) {
	report := &Report{
		Date:     date.Format(DateLayout),
		Currency: s.currency,
		Total:    types.NewMoney(0, s.currency),
	}

	exempt, err := s.IsDateExempt(ctx, date)
	if err != nil {
		return nil, err
	}
	if exempt {
		report.DateExempt = true
		s.logger.Info("date is toll free", zap.String("date", report.Date))
		return report, nil
	}

	for _, p := range passages {
		crossings := p.OnDate(date)
		if len(crossings) == 0 {
			continue
		}

		line := Line{
			Vehicle:   p.Vehicle,
			Crossings: len(crossings),
		}
		if s.IsVehicleExempt(p.Vehicle.Type) {
			line.Fee = types.NewMoney(0, s.currency)
			line.Exempt = ReasonVehicleExempt
		} else {
			breakdown := s.CalculateFeeBreakdown(p.Vehicle.RegistrationNumber, crossings)
			line.Fee = types.NewMoney(breakdown.Total, s.currency)
			line.Breakdown = &breakdown
		}

		report.Lines = append(report.Lines, line)
		report.Total = report.Total.Add(line.Fee)
	}

	report.NoRecords = len(report.Lines) == 0
	s.logger.Info("daily report",
		zap.String("date", report.Date),
		zap.Int("vehicles", len(report.Lines)),
		zap.String("total", report.Total.String()),
	)
	return report, nil
}
