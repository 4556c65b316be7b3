package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mailroom/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(metrics.PrometheusMiddleware())
	e.GET("/mailrooms/:mailroomId/packages", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	before := counterValue(t, metrics.HTTPRequestTotal.WithLabelValues(
		http.MethodGet, "/mailrooms/:mailroomId/packages", "204",
	))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mailrooms/abc/packages", nil)
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	after := counterValue(t, metrics.HTTPRequestTotal.WithLabelValues(
		http.MethodGet, "/mailrooms/:mailroomId/packages", "204",
	))
	assert.InDelta(t, 1, after-before, 0.0001)
}

func TestPrometheusMiddleware_RecordsHandlerErrors(t *testing.T) {
	e := echo.New()
	e.Use(metrics.PrometheusMiddleware())
	e.GET("/boom", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "full")
	})

	before := counterValue(t, metrics.HTTPRequestTotal.WithLabelValues(http.MethodGet, "/boom", "409"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	after := counterValue(t, metrics.HTTPRequestTotal.WithLabelValues(http.MethodGet, "/boom", "409"))
	assert.InDelta(t, 1, after-before, 0.0001)
}

func TestRecordHelpers(t *testing.T) {
	before := counterValue(t, metrics.NumberOperationsTotal.WithLabelValues("memory", "acquire", metrics.ResultOK))
	metrics.RecordNumberOperation("memory", "acquire", metrics.ResultOK)
	after := counterValue(t, metrics.NumberOperationsTotal.WithLabelValues("memory", "acquire", metrics.ResultOK))
	assert.InDelta(t, 1, after-before, 0.0001)

	reconciled := counterValue(t, metrics.ReconciledNumbersTotal)
	metrics.RecordReconciled(3)
	assert.InDelta(t, reconciled+3, counterValue(t, metrics.ReconciledNumbersTotal), 0.0001)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
