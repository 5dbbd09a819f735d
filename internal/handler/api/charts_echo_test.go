package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FlowPulse/internal/services/analytics"
	"FlowPulse/internal/usecase"
	"FlowPulse/pkg/cache"
	xlogger "FlowPulse/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	limits := analytics.NewLimitsEngine(nil)
	detector := analytics.NewSignalDetector(limits, nil)
	aggregator := analytics.NewThroughputAggregator(nil)
	advisor := analytics.NewBaselineAdvisor(limits, detector, nil)

	charts := usecase.NewChartAnalyzer(limits, detector, nil)
	throughput := usecase.NewThroughputAnalyzer(aggregator, charts, nil)
	baseline := usecase.NewBaselineAdviser(advisor, nil)

	h := NewChartsEchoHandler(logger, charts, throughput, baseline, limits, nil)
	h = h.WithCache(cache.NewMemoryCache(), time.Minute)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func chartRequestBody(values []float64) string {
	points := make([]string, len(values))
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = fmt.Sprintf(`{"timestamp":%q,"value":%g}`,
			start.AddDate(0, 0, i).Format(time.RFC3339), v)
	}
	return fmt.Sprintf(`{"data":[%s],"baselinePeriod":6}`, strings.Join(points, ","))
}

func TestCalculatePBCEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/calculate-pbc", chartRequestBody([]float64{1, 2, 3, 4, 5, 6}))
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			XChart struct {
				Average    float64 `json:"average"`
				UpperLimit float64 `json:"upperLimit"`
			} `json:"xChart"`
			BaselinePeriod int `json:"baselinePeriod"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.Status)
	assert.InDelta(t, 3.5, envelope.Data.XChart.Average, 1e-9)
	assert.InDelta(t, 6.16, envelope.Data.XChart.UpperLimit, 1e-9)
	assert.Equal(t, 6, envelope.Data.BaselinePeriod)
}

func TestCalculatePBCCachedResponseMatches(t *testing.T) {
	e := newTestServer(t)
	body := chartRequestBody([]float64{1, 2, 3, 4, 5, 6})

	first := doJSON(e, http.MethodPost, "/api/calculate-pbc", body)
	second := doJSON(e, http.MethodPost, "/api/calculate-pbc", body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestCalculatePBCNoVariationReturns400(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/calculate-pbc", chartRequestBody([]float64{5, 5, 5, 5, 5, 5}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), analytics.CodeNoVariation)
}

func TestCalculatePBCValidation(t *testing.T) {
	e := newTestServer(t)

	// empty data set rejected before any analysis runs
	rec := doJSON(e, http.MethodPost, "/api/calculate-pbc", `{"data":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_MIN")

	// baseline outside the accepted range
	rec = doJSON(e, http.MethodPost, "/api/calculate-pbc",
		`{"data":[{"timestamp":"2025-05-01T00:00:00Z","value":1}],"baselinePeriod":100}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_LTE")
}

func TestThroughputEndpoint(t *testing.T) {
	e := newTestServer(t)

	var points []string
	start := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)
	counts := []int{3, 5, 2, 6, 4, 3, 5}
	for day, n := range counts {
		for i := 0; i < n; i++ {
			ts := start.AddDate(0, 0, day).Add(time.Duration(i) * time.Minute)
			points = append(points, fmt.Sprintf(`{"timestamp":%q,"value":1}`, ts.Format(time.RFC3339)))
		}
	}
	body := fmt.Sprintf(`{"data":[%s],"period":"daily"}`, strings.Join(points, ","))

	rec := doJSON(e, http.MethodPost, "/api/throughput", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			ThroughputAnalysis struct {
				TotalPeriods        int `json:"totalPeriods"`
				TotalItemsCompleted int `json:"totalItemsCompleted"`
			} `json:"throughputAnalysis"`
			Recommendations []string `json:"recommendations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 7, envelope.Data.ThroughputAnalysis.TotalPeriods)
	assert.Equal(t, 28, envelope.Data.ThroughputAnalysis.TotalItemsCompleted)
	assert.NotEmpty(t, envelope.Data.Recommendations)
}

func TestDynamicBaselineEndpoint(t *testing.T) {
	e := newTestServer(t)

	var points []string
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		v := 10.0
		if i%2 == 0 {
			v = 9.8
		}
		points = append(points, fmt.Sprintf(`{"timestamp":%q,"value":%g}`,
			start.AddDate(0, 0, i).Format(time.RFC3339), v))
	}
	body := fmt.Sprintf(`{"data":[%s],"currentBaselinePeriod":10}`, strings.Join(points, ","))

	rec := doJSON(e, http.MethodPost, "/api/dynamic-baseline", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Analysis struct {
				Recommendation struct {
					RecommendedPeriod int `json:"recommendedPeriod"`
					CurrentPeriod     int `json:"currentPeriod"`
				} `json:"recommendation"`
			} `json:"analysis"`
			HistoricalPerformance map[string]float64 `json:"historicalPerformance"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 10, envelope.Data.Analysis.Recommendation.CurrentPeriod)
	assert.GreaterOrEqual(t, envelope.Data.Analysis.Recommendation.RecommendedPeriod, 6)
	assert.Contains(t, envelope.Data.HistoricalPerformance, "period_6")
}

func TestDetectionRulesEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/detection-rules", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"defaultRules":["rule1","rule4"]`)
	assert.Contains(t, rec.Body.String(), "rule3")
}

func TestRecommendBaselinePeriodEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/recommend-baseline-period?dataLength=30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendedPeriod":20`)

	rec = doJSON(e, http.MethodGet, "/api/recommend-baseline-period", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}
