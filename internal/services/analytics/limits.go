package analytics

import (
	"FlowPulse/internal/domain/models"
	xlogger "FlowPulse/pkg/logger"
)

// Shewhart XmR chart constants. These are domain-standard and must not change:
// 2.66 converts the average moving range to 3-sigma-equivalent X chart limits,
// 3.27 bounds the moving range chart itself.
const (
	xChartFactor  = 2.66
	mrChartFactor = 3.27
)

// Baseline window bounds used across the engines.
const (
	minBaselinePoints     = 3
	reliableBaseline      = 6
	optimalBaselinePeriod = 12
	maxBaselinePeriod     = 20
)

// LimitsEngine computes natural process limits from a baseline slice of values.
type LimitsEngine struct {
	logger *xlogger.Logger
}

// NewLimitsEngine creates a limits engine. The logger may be nil.
func NewLimitsEngine(logger *xlogger.Logger) *LimitsEngine {
	return &LimitsEngine{logger: logger}
}

// CalculateMovingRanges returns |values[i]-values[i-1]| for i=1..n-1.
// Fewer than two points yields an empty slice; callers that need limits
// escalate that to an error in CalculateNaturalProcessLimits.
func (e *LimitsEngine) CalculateMovingRanges(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		mr := values[i] - values[i-1]
		if mr < 0 {
			mr = -mr
		}
		out = append(out, mr)
	}
	return out
}

// CalculateNaturalProcessLimits computes XmR limits over a baseline slice.
// Diagnostics carry non-fatal warnings (e.g. fewer than 6 points) so callers
// can surface them without the engine holding state.
func (e *LimitsEngine) CalculateNaturalProcessLimits(values []float64) (models.ProcessLimits, []string, error) {
	var diags []string

	if len(values) < minBaselinePoints {
		return models.ProcessLimits{}, nil, ErrInsufficientData("minimum %d data points required for any calculation, got %d", minBaselinePoints, len(values))
	}
	if len(values) < reliableBaseline {
		diags = append(diags, "fewer than 6 baseline points: limits are computed but weakly justified")
		if e.logger != nil {
			e.logger.Warn("baseline below recommended minimum", xlogger.Int("points", len(values)))
		}
	}

	average := mean(values)
	movingRanges := e.CalculateMovingRanges(values)
	if len(movingRanges) == 0 {
		return models.ProcessLimits{}, diags, ErrInsufficientData("unable to calculate moving ranges: insufficient data")
	}

	allZero := true
	for _, mr := range movingRanges {
		if mr != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return models.ProcessLimits{}, diags, ErrNoVariation("all moving ranges are zero: no variation detected in data")
	}

	avgMR := mean(movingRanges)
	if avgMR == 0 {
		// Unreachable on raw input once the all-zero case is rejected, but a
		// transformation upstream can still hand us a degenerate series.
		return models.ProcessLimits{}, diags, ErrZeroMovingRange("average moving range is zero: cannot calculate limits")
	}

	upper := average + xChartFactor*avgMR
	lower := average - xChartFactor*avgMR
	if lower < 0 {
		// Durations and counts cannot go negative, so the lower limit is floored.
		lower = 0
	}

	limits := models.ProcessLimits{
		Average:            average,
		UpperLimit:         upper,
		LowerLimit:         lower,
		AverageMovingRange: avgMR,
		UpperRangeLimit:    mrChartFactor * avgMR,
	}
	if e.logger != nil {
		e.logger.Debug("natural process limits computed",
			xlogger.Int("points", len(values)),
			xlogger.Any("limits", limits),
		)
	}
	return limits, diags, nil
}

// CalculateSigmaLines derives 1- and 2-sigma bands from process limits.
// A zero average moving range collapses all lines onto the average; callers
// guard against that upstream.
func (e *LimitsEngine) CalculateSigmaLines(limits models.ProcessLimits) models.SigmaLines {
	sigma := limits.AverageMovingRange * xChartFactor / 3

	oneLower := limits.Average - sigma
	if oneLower < 0 {
		oneLower = 0
	}
	twoLower := limits.Average - 2*sigma
	if twoLower < 0 {
		twoLower = 0
	}
	return models.SigmaLines{
		OneSigmaUpper: limits.Average + sigma,
		OneSigmaLower: oneLower,
		TwoSigmaUpper: limits.Average + 2*sigma,
		TwoSigmaLower: twoLower,
	}
}

// RecommendBaselinePeriod suggests a baseline window for a series length:
// everything below 20 points uses the full series (floored at 3), longer
// series cap at 20.
func (e *LimitsEngine) RecommendBaselinePeriod(dataLength int) int {
	if dataLength < reliableBaseline {
		if dataLength < minBaselinePoints {
			return minBaselinePoints
		}
		return dataLength
	}
	if dataLength <= maxBaselinePeriod {
		return dataLength
	}
	return maxBaselinePeriod
}
