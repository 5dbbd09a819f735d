package usecase

import (
	"fmt"

	"FlowPulse/internal/domain/models"
	domsvc "FlowPulse/internal/domain/service"
	xlogger "FlowPulse/pkg/logger"
)

// BaselineAdviser runs the dynamic baseline analysis and compares a range of
// candidate windows so the dashboard can show the trade-offs.
type BaselineAdviser struct {
	advisor domsvc.BaselineAdvisor
	logger  *xlogger.Logger
}

func NewBaselineAdviser(advisor domsvc.BaselineAdvisor, logger *xlogger.Logger) *BaselineAdviser {
	return &BaselineAdviser{advisor: advisor, logger: logger}
}

// RecommendBaseline analyzes the series and evaluates every candidate period
// in [minPeriod, maxPeriod]. Candidate failures only drop that candidate.
func (b *BaselineAdviser) RecommendBaseline(observations []models.Observation, currentPeriod int, metricType string, minPeriod, maxPeriod int) (models.DynamicBaselineResponse, error) {
	analysis, err := b.advisor.AnalyzeDynamicBaseline(observations, currentPeriod, metricType)
	if err != nil {
		return models.DynamicBaselineResponse{}, err
	}

	var candidates []int
	for p := minPeriod; p <= maxPeriod; p++ {
		candidates = append(candidates, p)
	}
	alternatives := b.advisor.EvaluateAlternativeBaselines(observations, candidates)

	historical := make(map[string]float64, len(alternatives))
	for period, perf := range alternatives {
		historical[fmt.Sprintf("period_%d", period)] = perf.SignalDensity
	}

	if b.logger != nil {
		b.logger.Info("baseline recommendation produced",
			xlogger.Int("points", len(observations)),
			xlogger.Int("recommended", analysis.Recommendation.RecommendedPeriod),
			xlogger.Int("candidates", len(alternatives)),
		)
	}

	return models.DynamicBaselineResponse{
		Analysis:              analysis,
		AlternativeBaselines:  alternatives,
		HistoricalPerformance: historical,
	}, nil
}
