package usecase

import (
	"errors"
	"testing"
	"time"

	"FlowPulse/internal/domain/models"
	"FlowPulse/internal/services/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChartAnalyzer() *ChartAnalyzer {
	limits := analytics.NewLimitsEngine(nil)
	detector := analytics.NewSignalDetector(limits, nil)
	return NewChartAnalyzer(limits, detector, nil)
}

func observationsFrom(values []float64) []models.Observation {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Observation, len(values))
	for i, v := range values {
		out[i] = models.Observation{Timestamp: start.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestComputeLimitsAndSignals(t *testing.T) {
	a := newTestChartAnalyzer()
	obs := observationsFrom([]float64{1, 2, 3, 4, 5, 6})

	res, err := a.ComputeLimitsAndSignals(obs, 6, nil)
	require.NoError(t, err)

	assert.InDelta(t, 3.5, res.Limits.Average, 1e-9)
	assert.InDelta(t, 6.16, res.Limits.UpperLimit, 1e-9)
	assert.Equal(t, 6, res.BaselinePeriod)
	assert.Empty(t, res.Diagnostics)

	assert.Len(t, res.XChart.Timestamps, 6)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, res.XChart.Values)
	assert.Equal(t, res.Limits.Average, res.XChart.Average)

	// moving range chart drops the first timestamp
	assert.Len(t, res.MRChart.Timestamps, 5)
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, res.MRChart.Values)
	assert.InDelta(t, 3.27, res.MRChart.UpperLimit, 1e-9)
}

func TestComputeLimitsAndSignalsClampsBaseline(t *testing.T) {
	a := newTestChartAnalyzer()
	obs := observationsFrom([]float64{2, 4, 3, 5})

	res, err := a.ComputeLimitsAndSignals(obs, 20, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, res.BaselinePeriod)
	require.NotEmpty(t, res.Diagnostics)
	assert.Contains(t, res.Diagnostics[0], "baseline period adjusted from 20 to 4")
}

func TestComputeLimitsAndSignalsPropagatesHardErrors(t *testing.T) {
	a := newTestChartAnalyzer()
	obs := observationsFrom([]float64{5, 5, 5, 5, 5, 5})

	_, err := a.ComputeLimitsAndSignals(obs, 6, nil)
	require.Error(t, err)
	var ae *analytics.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, analytics.CodeNoVariation, ae.Code)
}

func TestComputeLimitsAndSignalsFiltersByRequestedRules(t *testing.T) {
	a := newTestChartAnalyzer()
	// index 6 breaks above the limits computed from the leading baseline
	obs := observationsFrom([]float64{10, 11, 10, 11, 10, 11, 30})

	res, err := a.ComputeLimitsAndSignals(obs, 6, []models.RuleType{models.Rule1})
	require.NoError(t, err)
	require.NotEmpty(t, res.Signals)
	for _, s := range res.Signals {
		assert.Equal(t, models.Rule1, s.Type)
	}

	res, err = a.ComputeLimitsAndSignals(obs, 6, []models.RuleType{models.Rule4})
	require.NoError(t, err)
	assert.Empty(t, res.Signals)
}

type panickingDetector struct{}

func (panickingDetector) DetectAllSignals([]float64, models.ProcessLimits) []models.Signal {
	panic("detector defect")
}

func (panickingDetector) FilterByRules(signals []models.Signal, _ []models.RuleType) []models.Signal {
	return signals
}

func TestComputeLimitsAndSignalsDegradesOnDetectorPanic(t *testing.T) {
	a := NewChartAnalyzer(analytics.NewLimitsEngine(nil), panickingDetector{}, nil)
	obs := observationsFrom([]float64{1, 2, 3, 4, 5, 6})

	res, err := a.ComputeLimitsAndSignals(obs, 6, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Signals)
	assert.InDelta(t, 3.5, res.Limits.Average, 1e-9)
}

func TestDetectionRuleCatalog(t *testing.T) {
	cat := DetectionRuleCatalog()

	assert.Equal(t, []models.RuleType{models.Rule1, models.Rule4}, cat.DefaultRules)
	require.Len(t, cat.Catalog, 4)
	assert.Equal(t, models.Rule1, cat.Catalog[0].Type)
	assert.Equal(t, models.SeverityHigh, cat.Catalog[0].Severity)
	assert.Equal(t, models.SeverityLow, cat.Catalog[3].Severity)
}
