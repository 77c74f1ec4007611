package holiday

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "toll-tracker/internal/errors"
	"toll-tracker/internal/logging"
)

// MsgEmptyResult is logged and returned when the registry yields no usable object
const MsgEmptyResult = "holiday lookup returned an empty result"

// Resolver determines whether a date is exempt from toll.
// It never caches; wrap the Oracle for that.
type Resolver struct {
	oracle Oracle
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger uses the global one.
func NewResolver(oracle Oracle, logger *zap.Logger) *Resolver {
	return &Resolver{
		oracle: oracle,
		logger: logging.OrGlobal(logger).Named("holiday"),
	}
}

// IsExempt reports whether no toll is charged on date: weekends always,
// weekdays when the registry marks them as red days.
//
// Lookup failures are logged at error level and returned as *errors.Error
// of type TRANSPORT_FAILURE, MALFORMED_RESPONSE or EMPTY_RESULT.
func (r *Resolver) IsExempt(ctx context.Context, date time.Time) (bool, error) {
	if IsWeekend(date) {
		return true, nil
	}

	query := Query(date)
	info, err := r.oracle.Lookup(ctx, date)
	if err != nil {
		if !apperrors.IsLookup(err) {
			err = apperrors.Transport("holiday lookup failed", err)
		}
		r.logger.Error(messageFor(err),
			zap.String("date", query),
			zap.String("error_type", string(apperrors.TypeOf(err))),
			zap.Error(err),
		)
		return false, err
	}

	if info == nil {
		err := apperrors.Empty(MsgEmptyResult).WithContext("date", query)
		r.logger.Error(MsgEmptyResult,
			zap.String("date", query),
			zap.String("error_type", string(apperrors.TypeEmptyResult)),
		)
		return false, err
	}

	red := info.IsRedDay()
	r.logger.Debug("holiday lookup", zap.String("date", query), zap.Bool("red_day", red))
	return red, nil
}

func messageFor(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.TypeMalformedResponse:
		return "failed to decode holiday lookup response"
	case apperrors.TypeEmptyResult:
		return MsgEmptyResult
	default:
		return "holiday lookup request failed"
	}
}
