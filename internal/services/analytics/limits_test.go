package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMovingRanges(t *testing.T) {
	e := NewLimitsEngine(nil)

	assert.Equal(t, []float64{2, 1}, e.CalculateMovingRanges([]float64{1, 3, 2}))
	assert.Equal(t, []float64{4, 4}, e.CalculateMovingRanges([]float64{5, 1, 5}))
	assert.Nil(t, e.CalculateMovingRanges([]float64{7}))
	assert.Nil(t, e.CalculateMovingRanges(nil))
}

func TestNaturalProcessLimitsKnownSeries(t *testing.T) {
	e := NewLimitsEngine(nil)

	limits, diags, err := e.CalculateNaturalProcessLimits([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.InDelta(t, 3.5, limits.Average, 1e-9)
	assert.InDelta(t, 1.0, limits.AverageMovingRange, 1e-9)
	assert.InDelta(t, 6.16, limits.UpperLimit, 1e-9)
	assert.InDelta(t, 0.84, limits.LowerLimit, 1e-9)
	assert.InDelta(t, 3.27, limits.UpperRangeLimit, 1e-9)
}

func TestNaturalProcessLimitsLowerFloor(t *testing.T) {
	e := NewLimitsEngine(nil)

	// average 2.6, avgMR 4: raw lower limit would be far below zero
	limits, _, err := e.CalculateNaturalProcessLimits([]float64{1, 5, 1, 5, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, limits.LowerLimit)
	assert.Greater(t, limits.UpperLimit, limits.Average)
}

func TestNaturalProcessLimitsShortBaselineDiagnostic(t *testing.T) {
	e := NewLimitsEngine(nil)

	limits, diags, err := e.CalculateNaturalProcessLimits([]float64{2, 4, 6})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "fewer than 6 baseline points")
	assert.InDelta(t, 4.0, limits.Average, 1e-9)
}

func TestNaturalProcessLimitsErrors(t *testing.T) {
	e := NewLimitsEngine(nil)

	_, _, err := e.CalculateNaturalProcessLimits([]float64{1, 2})
	require.Error(t, err)
	var ae *Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, CodeInsufficientData, ae.Code)

	_, _, err = e.CalculateNaturalProcessLimits([]float64{5, 5, 5, 5, 5, 5})
	require.Error(t, err)
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, CodeNoVariation, ae.Code)
}

func TestCalculateSigmaLines(t *testing.T) {
	e := NewLimitsEngine(nil)

	limits, _, err := e.CalculateNaturalProcessLimits([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	sigma := e.CalculateSigmaLines(limits)
	s := 2.66 / 3
	assert.InDelta(t, 3.5+s, sigma.OneSigmaUpper, 1e-9)
	assert.InDelta(t, 3.5-s, sigma.OneSigmaLower, 1e-9)
	assert.InDelta(t, 3.5+2*s, sigma.TwoSigmaUpper, 1e-9)
	assert.InDelta(t, 3.5-2*s, sigma.TwoSigmaLower, 1e-9)
}

func TestCalculateSigmaLinesFloorsAtZero(t *testing.T) {
	e := NewLimitsEngine(nil)

	limits, _, err := e.CalculateNaturalProcessLimits([]float64{1, 4, 1, 4, 1, 4})
	require.NoError(t, err)

	sigma := e.CalculateSigmaLines(limits)
	assert.GreaterOrEqual(t, sigma.OneSigmaLower, 0.0)
	assert.Equal(t, 0.0, sigma.TwoSigmaLower)
}

func TestRecommendBaselinePeriod(t *testing.T) {
	e := NewLimitsEngine(nil)

	assert.Equal(t, 3, e.RecommendBaselinePeriod(2))
	assert.Equal(t, 4, e.RecommendBaselinePeriod(4))
	assert.Equal(t, 15, e.RecommendBaselinePeriod(15))
	assert.Equal(t, 20, e.RecommendBaselinePeriod(20))
	assert.Equal(t, 20, e.RecommendBaselinePeriod(30))
}
