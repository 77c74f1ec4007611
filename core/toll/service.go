// Package toll is the engine's public entry point: date exemption,
// vehicle exemption and daily fee calculation, plus the daily report
// that sequences the three.
package toll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"toll-tracker/core/fee"
	"toll-tracker/core/types"
	apperrors "toll-tracker/internal/errors"
	"toll-tracker/internal/logging"
)

// DateResolver decides whether a date is toll free
type DateResolver interface {
	IsExempt(ctx context.Context, date time.Time) (bool, error)
}

// Service answers toll questions against one price table
type Service struct {
	resolver   DateResolver
	aggregator *fee.Aggregator
	currency   types.Currency
	logger     *zap.Logger
}

// NewService creates a service. An empty currency means SEK.
func NewService(resolver DateResolver, table fee.PriceTable, currency types.Currency, logger *zap.Logger) *Service {
	if currency == "" {
		currency = types.CurrencySEK
	}
	return &Service{
		resolver:   resolver,
		aggregator: fee.NewAggregator(table),
		currency:   currency,
		logger:     logging.OrGlobal(logger).Named("toll"),
	}
}

// Currency is the currency fees are charged in
func (s *Service) Currency() types.Currency {
	return s.currency
}

// IsDateExempt reports whether no toll is charged on date
func (s *Service) IsDateExempt(ctx context.Context, date time.Time) (bool, error) {
	return s.resolver.IsExempt(ctx, date)
}

// IsVehicleExempt reports whether the vehicle type never pays toll
func (s *Service) IsVehicleExempt(vehicleType types.VehicleType) bool {
	return vehicleType.IsTollExempt()
}

// CalculateFee returns the day's fee for one vehicle's crossings.
// It does not check date or vehicle exemption; callers do that first.
func (s *Service) CalculateFee(registration string, timestamps []time.Time) int {
	return s.CalculateFeeBreakdown(registration, timestamps).Total
}

// CalculateFeeBreakdown is CalculateFee with the charging windows
func (s *Service) CalculateFeeBreakdown(registration string, timestamps []time.Time) fee.Breakdown {
	breakdown := s.aggregator.Breakdown(timestamps)
	s.logger.Debug("calculated fee",
		zap.String("registration", registration),
		zap.Int("crossings", len(timestamps)),
		zap.Int("windows", len(breakdown.Windows)),
		zap.Int("fee", breakdown.Total),
	)
	return breakdown
}

// SingleDay returns an INPUT_ERROR unless all timestamps fall on one
// calendar day. Fees are only defined per day.
func SingleDay(timestamps []time.Time) error {
	if len(timestamps) == 0 {
		return nil
	}
	first := timestamps[0].Format(DateLayout)
	for _, ts := range timestamps[1:] {
		if d := ts.Format(DateLayout); d != first {
			return apperrors.Newf(apperrors.TypeInput,
				"crossings span more than one date (%s and %s)", first, d)
		}
	}
	return nil
}
