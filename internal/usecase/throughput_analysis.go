package usecase

import (
	"FlowPulse/internal/domain/models"
	domsvc "FlowPulse/internal/domain/service"
	xlogger "FlowPulse/pkg/logger"
)

// ThroughputAnalyzer turns raw completion events into periodic throughput
// counts and then runs the behaviour chart analysis over those counts.
type ThroughputAnalyzer struct {
	aggregator domsvc.ThroughputAggregator
	charts     *ChartAnalyzer
	logger     *xlogger.Logger
}

func NewThroughputAnalyzer(aggregator domsvc.ThroughputAggregator, charts *ChartAnalyzer, logger *xlogger.Logger) *ThroughputAnalyzer {
	return &ThroughputAnalyzer{aggregator: aggregator, charts: charts, logger: logger}
}

// ComputeThroughput aggregates events, bridges the bucket counts into the
// chart analyzer, and attaches threshold-based recommendations.
func (t *ThroughputAnalyzer) ComputeThroughput(events []models.Observation, period models.ThroughputPeriod, baselinePeriod int, rules []models.RuleType) (models.ThroughputResponse, error) {
	analysis, err := t.aggregator.CalculateThroughputAnalysis(events, period)
	if err != nil {
		return models.ThroughputResponse{}, err
	}

	pbcData := t.aggregator.CreateThroughputPBCData(analysis)
	chart, err := t.charts.ComputeLimitsAndSignals(pbcData, baselinePeriod, rules)
	if err != nil {
		return models.ThroughputResponse{}, err
	}

	recommendations := t.aggregator.GenerateThroughputRecommendations(analysis, chart.Signals)

	if t.logger != nil {
		t.logger.Info("throughput analysis completed",
			xlogger.Int("events", len(events)),
			xlogger.Int("periods", analysis.TotalPeriods),
			xlogger.Int("signals", len(chart.Signals)),
		)
	}

	return models.ThroughputResponse{
		ThroughputAnalysis: analysis,
		XChart:             chart.XChart,
		MRChart:            chart.MRChart,
		Signals:            chart.Signals,
		Limits:             chart.Limits,
		BaselinePeriod:     chart.BaselinePeriod,
		Recommendations:    recommendations,
		Diagnostics:        chart.Diagnostics,
	}, nil
}
