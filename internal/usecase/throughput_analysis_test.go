package usecase

import (
	"strings"
	"testing"
	"time"

	"FlowPulse/internal/domain/models"
	"FlowPulse/internal/services/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestThroughputAnalyzer() *ThroughputAnalyzer {
	aggregator := analytics.NewThroughputAggregator(nil)
	return NewThroughputAnalyzer(aggregator, newTestChartAnalyzer(), nil)
}

func completionEvents(perDay []int) []models.Observation {
	start := time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC) // Monday
	var out []models.Observation
	for day, n := range perDay {
		for i := 0; i < n; i++ {
			out = append(out, models.Observation{
				Timestamp: start.AddDate(0, 0, day).Add(time.Duration(i) * time.Minute),
			})
		}
	}
	return out
}

func TestComputeThroughputBridgesIntoChart(t *testing.T) {
	a := newTestThroughputAnalyzer()
	events := completionEvents([]int{3, 5, 2, 6, 4, 3, 5})

	res, err := a.ComputeThroughput(events, models.PeriodDaily, 20, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, res.ThroughputAnalysis.TotalPeriods)
	assert.Equal(t, 28, res.ThroughputAnalysis.TotalItemsCompleted)

	// the chart runs over the bucket counts, clamped to 7 periods
	assert.Equal(t, 7, res.BaselinePeriod)
	assert.Equal(t, []float64{3, 5, 2, 6, 4, 3, 5}, res.XChart.Values)
	assert.InDelta(t, 4.0, res.Limits.Average, 1e-9)
	require.NotEmpty(t, res.Diagnostics)
	assert.Contains(t, res.Diagnostics[0], "baseline period adjusted from 20 to 7")

	// 7 periods is below the forecasting threshold
	require.NotEmpty(t, res.Recommendations)
	assert.Contains(t, strings.Join(res.Recommendations, " "), "Consider collecting more throughput data")
}

func TestComputeThroughputPropagatesAggregationErrors(t *testing.T) {
	a := newTestThroughputAnalyzer()

	_, err := a.ComputeThroughput(completionEvents([]int{1, 1}), models.PeriodDaily, 20, nil)
	require.Error(t, err)
}

func TestComputeThroughputPropagatesChartErrors(t *testing.T) {
	a := newTestThroughputAnalyzer()

	// identical daily counts: aggregation succeeds but limits cannot be computed
	_, err := a.ComputeThroughput(completionEvents([]int{4, 4, 4, 4}), models.PeriodDaily, 20, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, analytics.ErrNoVariation(""))
}
