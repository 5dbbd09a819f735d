package di

import (
	"fmt"

	domsvc "FlowPulse/internal/domain/service"
	"FlowPulse/internal/handler/api"
	"FlowPulse/internal/services/analytics"
	"FlowPulse/internal/usecase"
	"FlowPulse/pkg/cache"
	"FlowPulse/pkg/config"
	xhttp "FlowPulse/pkg/http"
	applogger "FlowPulse/pkg/logger"
	"FlowPulse/pkg/metrics"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domsvc.Metrics {
	return metrics.New()
}

// ProvideLimitsEngine creates the process limits calculator.
func ProvideLimitsEngine(l *applogger.Logger) *analytics.LimitsEngine {
	return analytics.NewLimitsEngine(l)
}

// ProvideSignalDetector creates the run-rule detector.
func ProvideSignalDetector(le *analytics.LimitsEngine, l *applogger.Logger) *analytics.SignalDetector {
	return analytics.NewSignalDetector(le, l)
}

// ProvideThroughputAggregator creates the throughput bucketer.
func ProvideThroughputAggregator(l *applogger.Logger) *analytics.ThroughputAggregator {
	return analytics.NewThroughputAggregator(l)
}

// ProvideBaselineAdvisor creates the dynamic baseline advisor.
func ProvideBaselineAdvisor(le *analytics.LimitsEngine, sd *analytics.SignalDetector, l *applogger.Logger) *analytics.BaselineAdvisor {
	return analytics.NewBaselineAdvisor(le, sd, l)
}

// ProvideChartAnalyzer creates the chart analysis use case.
func ProvideChartAnalyzer(le domsvc.LimitsEngine, sd domsvc.SignalDetector, l *applogger.Logger) *usecase.ChartAnalyzer {
	return usecase.NewChartAnalyzer(le, sd, l)
}

// ProvideThroughputAnalyzer creates the throughput analysis use case.
func ProvideThroughputAnalyzer(ta domsvc.ThroughputAggregator, charts *usecase.ChartAnalyzer, l *applogger.Logger) *usecase.ThroughputAnalyzer {
	return usecase.NewThroughputAnalyzer(ta, charts, l)
}

// ProvideBaselineAdviser creates the baseline recommendation use case.
func ProvideBaselineAdviser(ba domsvc.BaselineAdvisor, l *applogger.Logger) *usecase.BaselineAdviser {
	return usecase.NewBaselineAdviser(ba, l)
}

// ProvideCache creates the response cache from config. Returns nil when
// caching is disabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	l.Info("response cache enabled", applogger.String("backend", cfg.Cache.Backend))

	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxSize)), nil
	case "redis":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	case "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc, cache.WithLayeredMemorySize(cfg.Cache.Memory.MaxSize)), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

// ProvideHandler creates the analytics HTTP handler.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	charts *usecase.ChartAnalyzer,
	throughput *usecase.ThroughputAnalyzer,
	baseline *usecase.BaselineAdviser,
	limits domsvc.LimitsEngine,
	m domsvc.Metrics,
	cacheService cache.Service,
) xhttp.Handler {
	h := api.NewChartsEchoHandler(l, charts, throughput, baseline, limits, m)
	if cacheService != nil {
		h = h.WithCache(cacheService, cfg.Cache.TTL)
	}
	return h
}
