//go:build wireinject
// +build wireinject

package di

import (
	domsvc "FlowPulse/internal/domain/service"
	"FlowPulse/internal/services/analytics"
	"FlowPulse/pkg/config"
	"FlowPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Analytics engines
		ProvideLimitsEngine,
		ProvideSignalDetector,
		ProvideThroughputAggregator,
		ProvideBaselineAdvisor,
		wire.Bind(new(domsvc.LimitsEngine), new(*analytics.LimitsEngine)),
		wire.Bind(new(domsvc.SignalDetector), new(*analytics.SignalDetector)),
		wire.Bind(new(domsvc.ThroughputAggregator), new(*analytics.ThroughputAggregator)),
		wire.Bind(new(domsvc.BaselineAdvisor), new(*analytics.BaselineAdvisor)),

		// Use cases
		ProvideChartAnalyzer,
		ProvideThroughputAnalyzer,
		ProvideBaselineAdviser,

		// HTTP handler and application server
		ProvideHandler,
		server.New,
	)
	return &server.App{}, nil
}
