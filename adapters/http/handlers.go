package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"toll-tracker/adapters/dataset"
	"toll-tracker/core/fee"
	"toll-tracker/core/toll"
	"toll-tracker/core/types"
	apperrors "toll-tracker/internal/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
}

type dateExemptResponse struct {
	Date   string `json:"date"`
	Exempt bool   `json:"exempt"`
}

type vehicleExemptResponse struct {
	VehicleType types.VehicleType `json:"vehicle_type"`
	Exempt      bool              `json:"exempt"`
}

type feeRequest struct {
	RegistrationNumber string   `json:"registration_number"`
	Timestamps         []string `json:"timestamps"`
}

type feeResponse struct {
	RegistrationNumber string         `json:"registration_number"`
	Fee                int            `json:"fee"`
	Currency           types.Currency `json:"currency"`
	Amount             string         `json:"amount"`
	Subtotal           int            `json:"subtotal"`
	Capped             bool           `json:"capped"`
	Windows            []fee.Window   `json:"windows"`
}

type reportRequest struct {
	Date string `json:"date" binding:"required"`
}

func (a *Adapter) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (a *Adapter) handleDateExempt(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	exempt, err := a.service.IsDateExempt(c.Request.Context(), date)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dateExemptResponse{Date: date.Format(toll.DateLayout), Exempt: exempt})
}

func (a *Adapter) handleVehicleExempt(c *gin.Context) {
	vehicleType, err := types.ParseVehicleType(c.Param("type"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicleExemptResponse{
		VehicleType: vehicleType,
		Exempt:      a.service.IsVehicleExempt(vehicleType),
	})
}

func (a *Adapter) handleFee(c *gin.Context) {
	var req feeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, apperrors.Wrap(apperrors.TypeInput, "invalid request body", err))
		return
	}

	timestamps := make([]time.Time, 0, len(req.Timestamps))
	for _, raw := range req.Timestamps {
		ts, err := dataset.ParseTimestamp(raw, time.Local)
		if err != nil {
			a.writeError(c, err)
			return
		}
		timestamps = append(timestamps, ts)
	}

	if err := toll.SingleDay(timestamps); err != nil {
		a.writeError(c, err)
		return
	}

	breakdown := a.service.CalculateFeeBreakdown(req.RegistrationNumber, timestamps)
	total := breakdown.Total
	windows := breakdown.Windows
	if windows == nil {
		windows = []fee.Window{}
	}

	c.JSON(http.StatusOK, feeResponse{
		RegistrationNumber: req.RegistrationNumber,
		Fee:                total,
		Currency:           a.service.Currency(),
		Amount:             types.NewMoney(total, a.service.Currency()).String(),
		Subtotal:           breakdown.Subtotal,
		Capped:             breakdown.Capped(),
		Windows:            windows,
	})
}

func (a *Adapter) handleReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, apperrors.Wrap(apperrors.TypeInput, "invalid request body", err))
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		a.writeError(c, err)
		return
	}

	report, err := a.service.DailyReport(c.Request.Context(), date, a.passages)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(toll.DateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, apperrors.Newf(apperrors.TypeInput, "invalid date %q (want YYYY-MM-DD)", raw)
	}
	return date, nil
}

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	switch {
	case apperrors.IsType(err, apperrors.TypeInput), apperrors.IsType(err, apperrors.TypeParsing):
		return http.StatusBadRequest
	case apperrors.IsLookup(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *Adapter) writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	errType := apperrors.TypeOf(err)
	if errType == "" {
		errType = apperrors.TypeInternal
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{
		Error:     msg,
		Type:      string(errType),
		RequestID: c.GetString(requestIDKey),
	})
}
