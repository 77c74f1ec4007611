package http

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"toll-tracker/core/holiday"
	"toll-tracker/core/tariff"
	"toll-tracker/core/toll"
	"toll-tracker/core/types"
	apperrors "toll-tracker/internal/errors"
)

func gothenburg() *tariff.Table {
	return tariff.MustTable([]tariff.Interval{
		{Start: tariff.Clock(6, 0, 0), End: tariff.Clock(6, 29, 0), Price: 8},
		{Start: tariff.Clock(6, 30, 0), End: tariff.Clock(6, 59, 0), Price: 13},
		{Start: tariff.Clock(7, 0, 0), End: tariff.Clock(7, 59, 0), Price: 18},
		{Start: tariff.Clock(8, 0, 0), End: tariff.Clock(8, 29, 0), Price: 13},
		{Start: tariff.Clock(8, 30, 0), End: tariff.Clock(14, 59, 0), Price: 8},
		{Start: tariff.Clock(15, 0, 0), End: tariff.Clock(15, 29, 0), Price: 13},
		{Start: tariff.Clock(15, 30, 0), End: tariff.Clock(16, 59, 0), Price: 18},
		{Start: tariff.Clock(17, 0, 0), End: tariff.Clock(17, 59, 0), Price: 13},
		{Start: tariff.Clock(18, 0, 0), End: tariff.Clock(18, 29, 0), Price: 8},
	})
}

// registry answers lookups from a fixed set of red days
func registry(red ...string) holiday.Oracle {
	return holiday.OracleFunc(func(_ context.Context, date time.Time) (*holiday.Info, error) {
		marker := holiday.No
		for _, r := range red {
			if date.Format(toll.DateLayout) == r {
				marker = holiday.Yes
			}
		}
		return &holiday.Info{Days: []holiday.Day{{Date: date.Format(toll.DateLayout), RedDay: marker}}}, nil
	})
}

func local(t *testing.T, raw string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
	require.NoError(t, err)
	return ts
}

func newTestAdapter(t *testing.T, oracle holiday.Oracle, logger *zap.Logger) *Adapter {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := toll.NewService(holiday.NewResolver(oracle, zap.NewNop()), gothenburg(), types.CurrencySEK, zap.NewNop())
	passages := []types.Passage{
		{
			Vehicle: types.Vehicle{RegistrationNumber: "CAR001", Type: types.VehicleCar},
			Timestamps: []time.Time{
				local(t, "2024-06-17T07:00:00"),
				local(t, "2024-06-17T15:45:00"),
			},
		},
		{
			Vehicle:    types.Vehicle{RegistrationNumber: "MIL001", Type: types.VehicleMilitary},
			Timestamps: []time.Time{local(t, "2024-06-17T07:00:00")},
		},
	}
	return New(svc, passages, nil, logger)
}

func doRequest(a *Adapter, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	w := doRequest(a, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UP", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestDateExempt(t *testing.T) {
	a := newTestAdapter(t, registry("2024-06-06"), zap.NewNop())

	tests := []struct {
		date       string
		wantStatus int
		wantExempt bool
	}{
		{date: "2024-06-06", wantStatus: http.StatusOK, wantExempt: true},
		{date: "2024-06-15", wantStatus: http.StatusOK, wantExempt: true},
		{date: "2024-06-17", wantStatus: http.StatusOK, wantExempt: false},
		{date: "17-06-2024", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			w := doRequest(a, http.MethodGet, "/api/v1/dates/"+tt.date+"/exempt", nil)
			require.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.date, body["date"])
				assert.Equal(t, tt.wantExempt, body["exempt"])
			} else {
				assert.Equal(t, string(apperrors.TypeInput), body["type"])
			}
		})
	}
}

func TestDateExemptLookupFailure(t *testing.T) {
	failing := holiday.OracleFunc(func(context.Context, time.Time) (*holiday.Info, error) {
		return nil, stderrors.New("connection refused")
	})
	a := newTestAdapter(t, failing, zap.NewNop())

	w := doRequest(a, http.MethodGet, "/api/v1/dates/2024-06-17/exempt", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, string(apperrors.TypeTransport), decode(t, w)["type"])
}

func TestVehicleExempt(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	w := doRequest(a, http.MethodGet, "/api/v1/vehicles/diplomat/exempt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Diplomat", body["vehicle_type"])
	assert.Equal(t, true, body["exempt"])

	w = doRequest(a, http.MethodGet, "/api/v1/vehicles/Car/exempt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["exempt"])

	w = doRequest(a, http.MethodGet, "/api/v1/vehicles/hovercraft/exempt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFee(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	w := doRequest(a, http.MethodPost, "/api/v1/fees", map[string]interface{}{
		"registration_number": "ABC123",
		"timestamps":          []string{"2024-06-17T08:29:00"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(13), body["fee"])
	assert.Equal(t, "SEK", body["currency"])
	assert.Equal(t, "13.00 SEK", body["amount"])
	assert.Equal(t, false, body["capped"])
	assert.Len(t, body["windows"], 1)
}

func TestFeeEmpty(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	w := doRequest(a, http.MethodPost, "/api/v1/fees", map[string]interface{}{
		"registration_number": "ABC123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(0), body["fee"])
	assert.Empty(t, body["windows"])
}

func TestFeeBadTimestamp(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	w := doRequest(a, http.MethodPost, "/api/v1/fees", map[string]interface{}{
		"registration_number": "ABC123",
		"timestamps":          []string{"yesterday"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.TypeParsing), decode(t, w)["type"])
}

func TestFeeRejectsCrossingsOnSeveralDates(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	w := doRequest(a, http.MethodPost, "/api/v1/fees", map[string]interface{}{
		"registration_number": "ABC123",
		"timestamps":          []string{"2024-06-17T07:00:00", "2024-06-18T07:00:00"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(apperrors.TypeInput), decode(t, w)["type"])
}

func TestFeeBadBody(t *testing.T) {
	a := newTestAdapter(t, registry(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fees", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReport(t *testing.T) {
	a := newTestAdapter(t, registry("2024-06-06"), zap.NewNop())

	w := doRequest(a, http.MethodPost, "/api/v1/reports", map[string]string{"date": "2024-06-17"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "2024-06-17", body["date"])
	assert.Equal(t, false, body["date_exempt"])
	assert.Len(t, body["lines"], 2)

	w = doRequest(a, http.MethodPost, "/api/v1/reports", map[string]string{"date": "2024-06-06"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["date_exempt"])

	w = doRequest(a, http.MethodPost, "/api/v1/reports", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := newTestAdapter(t, registry(), zap.New(core))

	doRequest(a, http.MethodGet, "/health", nil)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(RequestID(), Recovery(logger))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.Input("bad")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(apperrors.Empty("empty")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(apperrors.Malformed("bad json", nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(stderrors.New("boom")))
}
