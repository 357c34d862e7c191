package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTPRequest(t *testing.T) {
	m := New()

	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/invoices", 201, 30*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/invoices", 201, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/invoices", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.httpRequestDuration))
}

func TestStockAdjusted(t *testing.T) {
	m := New()

	m.StockAdjusted("consume", ResultOK, -3)
	m.StockAdjusted("consume", ResultOK, -2)
	m.StockAdjusted("consume", ResultInsufficient, -9)
	m.StockAdjusted("supply", ResultOK, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stockAdjustments.WithLabelValues("consume", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stockAdjustments.WithLabelValues("consume", ResultInsufficient)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.stockUnits.WithLabelValues("consume")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.stockUnits.WithLabelValues("supply")))
}

func TestDocumentAndBookingCounters(t *testing.T) {
	m := New()

	m.DocumentIssued("INV")
	m.DocumentIssued("INV")
	m.NumberRetried("INV")
	m.BookingOutcome("accepted")
	m.BookingOutcome("rate_limited")
	m.EventHandled("record.changed", "duplicate")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documentsIssued.WithLabelValues("INV")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.numberRetries.WithLabelValues("INV")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsHandled.WithLabelValues("record.changed", "duplicate")))
}

func TestHandlerExposesClinicMetrics(t *testing.T) {
	m := New()
	m.DocumentIssued("PO")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `clinic_documents_issued_total{series="PO"} 1`))
	assert.Contains(t, body, "go_goroutines")

	families, err := m.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestRegisterDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(7)

	m := New()
	require.NoError(t, m.RegisterDBStats(db, "postgres"))
	assert.Error(t, m.RegisterDBStats(db, "postgres"), "a second collector for the same pool")

	families, err := m.Gather()
	require.NoError(t, err)
	var maxOpen float64
	for _, f := range families {
		if f.GetName() == "go_sql_max_open_connections" {
			maxOpen = f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	assert.Equal(t, 7.0, maxOpen)
}
