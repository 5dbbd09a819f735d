package service

import (
	"FlowPulse/internal/domain/models"
)

// LimitsEngine computes natural process limits from a baseline value slice.
// Diagnostics returned alongside the limits carry non-fatal warnings.
type LimitsEngine interface {
	CalculateMovingRanges(values []float64) []float64
	CalculateNaturalProcessLimits(values []float64) (models.ProcessLimits, []string, error)
	CalculateSigmaLines(limits models.ProcessLimits) models.SigmaLines
	RecommendBaselinePeriod(dataLength int) int
}

// SignalDetector scans a value series against fixed limits for run-rule
// violations.
type SignalDetector interface {
	DetectAllSignals(values []float64, limits models.ProcessLimits) []models.Signal
	FilterByRules(signals []models.Signal, rules []models.RuleType) []models.Signal
}

// ThroughputAggregator buckets completion events into periodic counts and
// bridges them back into chart analysis.
type ThroughputAggregator interface {
	CalculateThroughputAnalysis(events []models.Observation, period models.ThroughputPeriod) (models.ThroughputAnalysis, error)
	CreateThroughputPBCData(analysis models.ThroughputAnalysis) []models.Observation
	GenerateThroughputRecommendations(analysis models.ThroughputAnalysis, signals []models.Signal) []string
}

// BaselineAdvisor recommends baseline windows and compares candidates.
type BaselineAdvisor interface {
	AnalyzeDynamicBaseline(observations []models.Observation, currentPeriod int, metricType string) (models.DynamicBaselineAnalysis, error)
	EvaluateAlternativeBaselines(observations []models.Observation, candidatePeriods []int) map[int]models.BaselinePerformance
}

// Metrics records operational counters for the analytics endpoints.
type Metrics interface {
	RecordAnalysis(endpoint string)
	RecordError(kind string)
	RecordSignals(endpoint string, count int)
	RecordLatency(op string, seconds float64)
}
