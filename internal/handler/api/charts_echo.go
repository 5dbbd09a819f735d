package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	models "FlowPulse/internal/domain/models"
	domsvc "FlowPulse/internal/domain/service"
	"FlowPulse/internal/services/analytics"
	"FlowPulse/internal/usecase"
	"FlowPulse/pkg/cache"
	xhttp "FlowPulse/pkg/http"
	xlogger "FlowPulse/pkg/logger"
	"FlowPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// ChartsEchoHandler exposes the behaviour chart analytics over HTTP.
// Every endpoint is stateless; the optional cache only memoizes identical
// requests because all analyses are pure functions of their input.
type ChartsEchoHandler struct {
	logger     *xlogger.Logger
	charts     *usecase.ChartAnalyzer
	throughput *usecase.ThroughputAnalyzer
	baseline   *usecase.BaselineAdviser
	limits     domsvc.LimitsEngine
	metrics    domsvc.Metrics
	cache      cache.Service
	cacheTTL   time.Duration
}

func NewChartsEchoHandler(
	logger *xlogger.Logger,
	charts *usecase.ChartAnalyzer,
	throughput *usecase.ThroughputAnalyzer,
	baseline *usecase.BaselineAdviser,
	limits domsvc.LimitsEngine,
	metrics domsvc.Metrics,
) *ChartsEchoHandler {
	return &ChartsEchoHandler{
		logger:     logger,
		charts:     charts,
		throughput: throughput,
		baseline:   baseline,
		limits:     limits,
		metrics:    metrics,
	}
}

// WithCache enables response memoization with the given TTL.
func (h *ChartsEchoHandler) WithCache(c cache.Service, ttl time.Duration) *ChartsEchoHandler {
	h.cache = c
	h.cacheTTL = ttl
	return h
}

func (h *ChartsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/calculate-pbc", h.CalculatePBC)
	g.POST("/throughput", h.Throughput)
	g.POST("/dynamic-baseline", h.DynamicBaseline)
	g.GET("/detection-rules", h.DetectionRules)
	g.GET("/recommend-baseline-period", h.RecommendBaselinePeriod)
	g.GET("/health", h.Health)
}

func (h *ChartsEchoHandler) CalculatePBC(c echo.Context) error {
	defer h.observeLatency("calculate-pbc", time.Now())

	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var cached models.ChartResponse
	key, hit := h.lookup(c, "pbc", req, &cached)
	if hit {
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.charts.ComputeLimitsAndSignals(req.Data, req.BaselinePeriod, req.DetectionRules)
	if err != nil {
		return h.analysisError(c, "calculate-pbc", err)
	}

	h.recordSuccess("calculate-pbc", len(res.Signals))
	h.store(c, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsEchoHandler) Throughput(c echo.Context) error {
	defer h.observeLatency("throughput", time.Now())

	req := &models.ThroughputRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var cached models.ThroughputResponse
	key, hit := h.lookup(c, "throughput", req, &cached)
	if hit {
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.throughput.ComputeThroughput(req.Data, req.Period, req.BaselinePeriod, req.DetectionRules)
	if err != nil {
		return h.analysisError(c, "throughput", err)
	}

	h.recordSuccess("throughput", len(res.Signals))
	h.store(c, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsEchoHandler) DynamicBaseline(c echo.Context) error {
	defer h.observeLatency("dynamic-baseline", time.Now())

	req := &models.DynamicBaselineRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var cached models.DynamicBaselineResponse
	key, hit := h.lookup(c, "baseline", req, &cached)
	if hit {
		return xhttp.SuccessResponse(c, cached)
	}

	res, err := h.baseline.RecommendBaseline(req.Data, req.CurrentBaselinePeriod, req.MetricType, req.MinimumPeriod, req.MaximumPeriod)
	if err != nil {
		return h.analysisError(c, "dynamic-baseline", err)
	}

	h.recordSuccess("dynamic-baseline", 0)
	h.store(c, key, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsEchoHandler) DetectionRules(c echo.Context) error {
	return xhttp.SuccessResponse(c, usecase.DetectionRuleCatalog())
}

// RecommendBaselinePeriod exposes the static length-based heuristic so the
// dashboard can prefill its baseline selector.
func (h *ChartsEchoHandler) RecommendBaselinePeriod(c echo.Context) error {
	n := util.ParseIntDefault(c.QueryParam("dataLength"), 0)
	if n <= 0 {
		return xhttp.BadRequestResponse(c, []xhttp.ValidationError{{
			Code:    "ERR_REQUIRED",
			Field:   "dataLength",
			Message: "dataLength must be a positive integer",
		}})
	}
	return xhttp.SuccessResponse(c, map[string]int{
		"dataLength":        n,
		"recommendedPeriod": h.limits.RecommendBaselinePeriod(n),
	})
}

// Health runs a self-test calculation over a known series.
func (h *ChartsEchoHandler) Health(c echo.Context) error {
	limits, _, err := h.limits.CalculateNaturalProcessLimits([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		h.logger.Error("health self-test failed", xlogger.Error(err))
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"message": err.Error(),
		})
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":      "healthy",
		"testAverage": limits.Average,
	})
}

// analysisError maps the typed analytics failures onto 400s with stable
// codes so the client can render different guidance per failure kind.
func (h *ChartsEchoHandler) analysisError(c echo.Context, endpoint string, err error) error {
	var ae *analytics.Error
	if errors.As(err, &ae) {
		if h.metrics != nil {
			h.metrics.RecordError(ae.Code)
		}
		h.logger.Warn("analysis rejected",
			xlogger.String("endpoint", endpoint),
			xlogger.String("code", ae.Code),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(ae.Code, "", ae.Message, http.StatusBadRequest))
	}

	if h.metrics != nil {
		h.metrics.RecordError("internal")
	}
	h.logger.Error("analysis failed", xlogger.String("endpoint", endpoint), xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func (h *ChartsEchoHandler) recordSuccess(endpoint string, signalCount int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordAnalysis(endpoint)
	h.metrics.RecordSignals(endpoint, signalCount)
}

func (h *ChartsEchoHandler) observeLatency(endpoint string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordLatency(endpoint, time.Since(start).Seconds())
	}
}

// lookup returns the cache key for a request and fills dest on a hit.
func (h *ChartsEchoHandler) lookup(c echo.Context, prefix string, req interface{}, dest interface{}) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	key := cache.GenerateKey(prefix, cache.HashKey(string(body)))
	if err := h.cache.Get(c.Request().Context(), key, dest); err == nil {
		return key, true
	}
	return key, false
}

func (h *ChartsEchoHandler) store(c echo.Context, key string, value interface{}) {
	if h.cache == nil || key == "" {
		return
	}
	if err := h.cache.Set(c.Request().Context(), key, value, h.cacheTTL); err != nil {
		h.logger.Warn("response cache set failed", xlogger.Error(err))
	}
}
