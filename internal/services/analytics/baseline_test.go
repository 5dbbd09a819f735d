package analytics

import (
	"errors"
	"testing"
	"time"

	"FlowPulse/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdvisor() *BaselineAdvisor {
	limits := NewLimitsEngine(nil)
	detector := NewSignalDetector(limits, nil)
	return NewBaselineAdvisor(limits, detector, nil)
}

// dailySeries builds observations one day apart from the given values.
func dailySeries(values []float64) []models.Observation {
	start := time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)
	out := make([]models.Observation, len(values))
	for i, v := range values {
		out[i] = models.Observation{
			Timestamp: start.AddDate(0, 0, i),
			Value:     v,
		}
	}
	return out
}

// tightSeries alternates closely around 10 so the process reads as stable.
func tightSeries(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		if i%2 == 0 {
			values[i] = 9.9
		} else {
			values[i] = 10.1
		}
	}
	return values
}

func TestAnalyzeDynamicBaselineInsufficientData(t *testing.T) {
	a := newTestAdvisor()

	_, err := a.AnalyzeDynamicBaseline(dailySeries([]float64{1, 2, 3, 4, 5}), 20, "cycle_time")
	require.Error(t, err)
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, CodeInsufficientData, ae.Code)
}

func TestAnalyzeDynamicBaselineStableProcess(t *testing.T) {
	a := newTestAdvisor()

	analysis, err := a.AnalyzeDynamicBaseline(dailySeries(tightSeries(20)), 10, "cycle_time")
	require.NoError(t, err)

	assert.Greater(t, analysis.DataStabilityScore, 0.8)
	assert.Empty(t, analysis.ProcessChangePoints)
	assert.Equal(t, models.StabilityStable, analysis.Recommendation.Stability)
	assert.Equal(t, 20, analysis.Recommendation.RecommendedPeriod)
	assert.True(t, analysis.Recommendation.ShouldRecalculate)
	require.NotEmpty(t, analysis.Recommendation.Reasoning)
	assert.Contains(t, analysis.Recommendation.Reasoning[0], "High process stability")
}

func TestAnalyzeDynamicBaselineDetectsProcessChange(t *testing.T) {
	a := newTestAdvisor()

	// level shift from ~10 to ~30 halfway through
	values := append(tightSeries(12), make([]float64, 12)...)
	for i := 12; i < 24; i++ {
		values[i] = 30 + values[i-12] - 10
	}

	analysis, err := a.AnalyzeDynamicBaseline(dailySeries(values), 20, "throughput")
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ProcessChangePoints)
	assert.GreaterOrEqual(t, analysis.Recommendation.RecommendedPeriod, 6)
	assert.LessOrEqual(t, analysis.Recommendation.RecommendedPeriod, 20)
}

func TestAnalyzeDynamicBaselineRecommendationClamped(t *testing.T) {
	a := newTestAdvisor()

	analysis, err := a.AnalyzeDynamicBaseline(dailySeries(tightSeries(8)), 6, "cycle_time")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, analysis.Recommendation.RecommendedPeriod, 6)
	assert.LessOrEqual(t, analysis.Recommendation.RecommendedPeriod, 20)
}

func TestAnalyzeDynamicBaselineVariationTrend(t *testing.T) {
	a := newTestAdvisor()

	// noise amplitude grows linearly, so rolling stdev trends upward
	values := make([]float64, 20)
	for i := range values {
		amp := 0.1 * float64(i+1)
		if i%2 == 0 {
			amp = -amp
		}
		values[i] = 10 + amp
	}

	analysis, err := a.AnalyzeDynamicBaseline(dailySeries(values), 12, "cycle_time")
	require.NoError(t, err)
	assert.Equal(t, models.VariationIncreasing, analysis.VariationTrend)
}

func TestSignalDensitySoftFailsOnDegenerateBaseline(t *testing.T) {
	a := newTestAdvisor()

	// first 12 points identical: the density baseline has no variation,
	// but the overall analysis must still succeed
	values := make([]float64, 18)
	for i := 0; i < 12; i++ {
		values[i] = 5
	}
	for i := 12; i < 18; i++ {
		values[i] = 5 + float64(i-11)
	}

	analysis, err := a.AnalyzeDynamicBaseline(dailySeries(values), 12, "cycle_time")
	require.NoError(t, err)
	assert.Equal(t, 0.0, analysis.SignalDensity)
}

func TestEvaluateAlternativeBaselines(t *testing.T) {
	a := newTestAdvisor()
	obs := dailySeries(tightSeries(15))

	results := a.EvaluateAlternativeBaselines(obs, []int{4, 6, 10, 25})

	// 4 is below the minimum window, 25 exceeds the series length
	assert.NotContains(t, results, 4)
	assert.NotContains(t, results, 25)
	require.Contains(t, results, 6)
	require.Contains(t, results, 10)

	perf := results[10]
	assert.InDelta(t, 10.0, perf.Average, 0.2)
	assert.Greater(t, perf.UpperLimit, perf.Average)
	assert.Greater(t, perf.BaselineStability, 0.9)
	assert.GreaterOrEqual(t, perf.SignalDensity, 0.0)
}

func TestEvaluateAlternativeBaselinesSkipsFailingCandidate(t *testing.T) {
	a := newTestAdvisor()

	// candidate 6 slices a flat prefix (no variation) and must be skipped
	values := []float64{5, 5, 5, 5, 5, 5, 7, 9, 6, 8}
	results := a.EvaluateAlternativeBaselines(dailySeries(values), []int{6, 10})

	assert.NotContains(t, results, 6)
	assert.Contains(t, results, 10)
}

func TestBaselineStabilityScore(t *testing.T) {
	a := newTestAdvisor()

	assert.Equal(t, 0.0, a.baselineStability([]float64{1, 2}))
	assert.Greater(t, a.baselineStability([]float64{10, 10.1, 9.9, 10}), 0.9)
	// wild swings push CV past 1 and the score floors at zero
	assert.Equal(t, 0.0, a.baselineStability([]float64{1, 100, 1, 100, 1, 100}))
}
