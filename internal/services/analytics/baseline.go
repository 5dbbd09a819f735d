package analytics

import (
	"fmt"
	"time"

	"FlowPulse/internal/domain/models"
	xlogger "FlowPulse/pkg/logger"
)

// BaselineAdvisor recommends baseline window sizes from the stability,
// change-point, seasonality, and signal-density characteristics of a series.
// It reuses the limits engine and signal detector as subroutines.
type BaselineAdvisor struct {
	limits   *LimitsEngine
	detector *SignalDetector
	logger   *xlogger.Logger
}

// NewBaselineAdvisor creates an advisor. The logger may be nil.
func NewBaselineAdvisor(limits *LimitsEngine, detector *SignalDetector, logger *xlogger.Logger) *BaselineAdvisor {
	return &BaselineAdvisor{limits: limits, detector: detector, logger: logger}
}

// AnalyzeDynamicBaseline evaluates the series and synthesizes a baseline
// recommendation. Hard minimum is 6 observations; every sub-analysis below
// that degrades gracefully rather than failing the whole call.
func (a *BaselineAdvisor) AnalyzeDynamicBaseline(observations []models.Observation, currentPeriod int, metricType string) (models.DynamicBaselineAnalysis, error) {
	if len(observations) < reliableBaseline {
		return models.DynamicBaselineAnalysis{}, ErrInsufficientData("minimum %d data points required for baseline analysis, got %d", reliableBaseline, len(observations))
	}

	values := models.Values(observations)

	stabilityScore := a.dataStabilityScore(values)
	changePoints := a.detectProcessChanges(values)
	seasonality := a.analyzeSeasonality(observations)
	signalDensity := a.signalDensity(values)
	variationTrend := a.variationTrend(values)

	recommendation := a.generateRecommendation(len(observations), currentPeriod, stabilityScore, changePoints, seasonality.DominantPattern, signalDensity)

	if a.logger != nil {
		a.logger.Info("dynamic baseline analyzed",
			xlogger.Int("points", len(observations)),
			xlogger.String("metricType", metricType),
			xlogger.Int("recommended", recommendation.RecommendedPeriod),
			xlogger.Int("changePoints", len(changePoints)),
		)
	}

	return models.DynamicBaselineAnalysis{
		Recommendation:      recommendation,
		DataStabilityScore:  stabilityScore,
		ProcessChangePoints: changePoints,
		SeasonalityAnalysis: seasonality,
		SignalDensity:       signalDensity,
		VariationTrend:      variationTrend,
	}, nil
}

// dataStabilityScore blends coefficient of variation, moving range
// consistency, and trend stability into one [0,1] score.
func (a *BaselineAdvisor) dataStabilityScore(values []float64) float64 {
	if len(values) < 3 {
		return 0
	}

	cv := 0.0
	if m := mean(values); m != 0 {
		cv = sampleStdDev(values) / m
	}

	mrConsistency := 1.0
	movingRanges := a.limits.CalculateMovingRanges(values)
	if len(movingRanges) > 1 {
		if mrMean := mean(movingRanges); mrMean > 0 {
			mrConsistency = 1 - sampleStdDev(movingRanges)/mrMean
			if mrConsistency < 0 {
				mrConsistency = 0
			}
		}
	}

	cvComponent := 1 - cv
	if cv > 1 {
		cvComponent = 0
	}

	score := cvComponent*0.4 + mrConsistency*0.4 + a.trendStability(values)*0.2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// trendStability maps the OLS slope of value against index onto [0,1]:
// a flat series scores 1, a steep trend scores 0.
func (a *BaselineAdvisor) trendStability(values []float64) float64 {
	if len(values) < 3 {
		return 1
	}
	slope, ok := olsSlope(values)
	if !ok {
		return 1
	}
	lo, hi := minMax(values)
	dataRange := hi - lo
	if dataRange == 0 {
		return 1
	}
	normalized := slope / (dataRange / float64(len(values)))
	if normalized < 0 {
		normalized = -normalized
	}
	if normalized > 1 {
		return 0
	}
	return 1 - normalized
}

// detectProcessChanges flags indices where the mean shifts by more than
// two pooled standard deviations between the windows before and after.
// Needs at least 12 points; nearby flags within distance 3 are suppressed,
// first occurrence winning.
func (a *BaselineAdvisor) detectProcessChanges(values []float64) []int {
	changePoints := []int{}
	if len(values) < 12 {
		return changePoints
	}

	window := len(values) / 4
	if window < reliableBaseline {
		window = reliableBaseline
	}

	var candidates []int
	for i := window; i < len(values)-window; i++ {
		before := values[i-window : i]
		after := values[i : i+window]

		pooled := (sampleStdDev(before) + sampleStdDev(after)) / 2
		if pooled == 0 {
			continue
		}
		shift := mean(after) - mean(before)
		if shift < 0 {
			shift = -shift
		}
		if shift/pooled > 2.0 {
			candidates = append(candidates, i)
		}
	}

	for _, cp := range candidates {
		near := false
		for _, kept := range changePoints {
			d := cp - kept
			if d < 0 {
				d = -d
			}
			if d < 3 {
				near = true
				break
			}
		}
		if !near {
			changePoints = append(changePoints, cp)
		}
	}
	return changePoints
}

// analyzeSeasonality estimates weekly and monthly cycle strengths.
// Weekly needs two weeks of data, monthly two months.
func (a *BaselineAdvisor) analyzeSeasonality(observations []models.Observation) models.SeasonalityAnalysis {
	out := models.SeasonalityAnalysis{
		DominantPattern:  models.SeasonalNone,
		PatternsDetected: []string{},
	}
	if len(observations) < 14 {
		return out
	}

	out.WeeklyStrength = a.weeklySeasonality(observations)
	if len(observations) >= 60 {
		out.MonthlyStrength = a.monthlySeasonality(observations)
	}

	if out.WeeklyStrength > 0.3 {
		out.DominantPattern = models.SeasonalWeekly
	} else if out.MonthlyStrength > 0.3 {
		out.DominantPattern = models.SeasonalMonthly
	}

	if out.WeeklyStrength > 0.2 {
		out.PatternsDetected = append(out.PatternsDetected, "weekly")
	}
	if out.MonthlyStrength > 0.2 {
		out.PatternsDetected = append(out.PatternsDetected, "monthly")
	}
	return out
}

// weeklySeasonality groups values by weekday and returns
// betweenGroupVariance / (betweenGroupVariance + meanWithinGroupVariance).
// Requires at least three weekdays with two or more observations each.
func (a *BaselineAdvisor) weeklySeasonality(observations []models.Observation) float64 {
	groups := make(map[time.Weekday][]float64)
	for _, o := range observations {
		wd := o.Timestamp.Weekday()
		groups[wd] = append(groups[wd], o.Value)
	}

	var groupMeans, withinVars []float64
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		vs := groups[wd]
		if len(vs) > 1 {
			groupMeans = append(groupMeans, mean(vs))
			withinVars = append(withinVars, sampleVariance(vs))
		}
	}
	if len(groupMeans) < 3 {
		return 0
	}
	return seasonalStrength(groupMeans, withinVars)
}

// monthlySeasonality groups values by week-of-month (1-4) and applies the
// same variance decomposition. Requires two or more populated groups.
func (a *BaselineAdvisor) monthlySeasonality(observations []models.Observation) float64 {
	groups := make(map[int][]float64)
	for _, o := range observations {
		week := (o.Timestamp.Day()-1)/7 + 1
		groups[week] = append(groups[week], o.Value)
	}

	var groupMeans, withinVars []float64
	for week := 1; week <= 4; week++ {
		vs := groups[week]
		if len(vs) > 1 {
			groupMeans = append(groupMeans, mean(vs))
			withinVars = append(withinVars, sampleVariance(vs))
		}
	}
	if len(groupMeans) < 2 {
		return 0
	}
	return seasonalStrength(groupMeans, withinVars)
}

func seasonalStrength(groupMeans, withinVars []float64) float64 {
	between := sampleVariance(groupMeans)
	within := mean(withinVars)
	total := between + within
	if total <= 0 {
		return 0
	}
	strength := between / total
	if strength > 1 {
		return 1
	}
	return strength
}

// signalDensity is the fraction of indices touched by at least one signal
// when limits from a min(12, n)-point baseline are applied to the series.
// Any failure here is soft: detection is advisory, so density falls back to 0.
func (a *BaselineAdvisor) signalDensity(values []float64) (density float64) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Warn("signal density computation failed", xlogger.Any("panic", r))
			}
			density = 0
		}
	}()

	if len(values) < reliableBaseline {
		return 0
	}
	baselineSize := optimalBaselinePeriod
	if len(values) < baselineSize {
		baselineSize = len(values)
	}

	limits, _, err := a.limits.CalculateNaturalProcessLimits(values[:baselineSize])
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("signal density skipped", xlogger.Error(err))
		}
		return 0
	}
	signals := a.detector.DetectAllSignals(values, limits)
	return signalPointFraction(signals, len(values))
}

func signalPointFraction(signals []models.Signal, n int) float64 {
	if n == 0 {
		return 0
	}
	touched := make(map[int]bool)
	for _, s := range signals {
		for _, idx := range s.DataPoints {
			touched[idx] = true
		}
	}
	return float64(len(touched)) / float64(n)
}

// variationTrend fits a trend through rolling standard deviations to decide
// whether process variation is widening or settling.
func (a *BaselineAdvisor) variationTrend(values []float64) models.VariationTrend {
	if len(values) < 10 {
		return models.VariationStable
	}

	window := len(values) / 4
	if window < 5 {
		window = 5
	}

	var rollingStds []float64
	for i := 0; i+window <= len(values); i++ {
		rollingStds = append(rollingStds, sampleStdDev(values[i:i+window]))
	}
	if len(rollingStds) < 3 {
		return models.VariationStable
	}

	slope, ok := olsSlope(rollingStds)
	if !ok {
		return models.VariationStable
	}
	avgStd := mean(rollingStds)
	if avgStd == 0 {
		return models.VariationStable
	}
	normalized := slope / (avgStd / float64(len(rollingStds)))

	switch {
	case normalized > 0.1:
		return models.VariationIncreasing
	case normalized < -0.1:
		return models.VariationDecreasing
	default:
		return models.VariationStable
	}
}

// generateRecommendation applies the ordered decision list: change points
// first, then stability tiers, then seasonal and signal-density adjustments,
// then the [6,20] clamp and the confidence tweaks.
func (a *BaselineAdvisor) generateRecommendation(
	n, currentPeriod int,
	stabilityScore float64,
	changePoints []int,
	seasonalPattern models.SeasonalPattern,
	signalDensity float64,
) models.BaselineRecommendation {
	var reasoning []string
	confidence := 0.8
	recommended := 0
	shouldRecalculate := false

	if len(changePoints) > 0 {
		mostRecent := changePoints[0]
		for _, cp := range changePoints[1:] {
			if cp > mostRecent {
				mostRecent = cp
			}
		}
		sinceChange := n - mostRecent

		if sinceChange >= reliableBaseline {
			recommended = sinceChange
			if recommended > maxBaselinePeriod {
				recommended = maxBaselinePeriod
			}
			reasoning = append(reasoning, fmt.Sprintf("Process change detected at point %d. Using %d points since last change.", mostRecent, sinceChange))
			shouldRecalculate = true
		} else {
			recommended = reliableBaseline
			reasoning = append(reasoning, fmt.Sprintf("Recent process change detected, but only %d points available since change. Using minimum baseline.", sinceChange))
			confidence = 0.6
			shouldRecalculate = false
		}
	} else {
		switch {
		case stabilityScore >= 0.8:
			recommended = maxBaselinePeriod
			if n < recommended {
				recommended = n
			}
			reasoning = append(reasoning, fmt.Sprintf("High process stability (score: %.2f). Using longer baseline period for better precision.", stabilityScore))
			shouldRecalculate = float64(currentPeriod) < float64(recommended)*0.8
		case stabilityScore >= 0.6:
			recommended = optimalBaselinePeriod
			reasoning = append(reasoning, fmt.Sprintf("Moderate process stability (score: %.2f). Using optimal baseline period.", stabilityScore))
			diff := currentPeriod - recommended
			if diff < 0 {
				diff = -diff
			}
			shouldRecalculate = diff > 3
		default:
			recommended = reliableBaseline
			reasoning = append(reasoning, fmt.Sprintf("Low process stability (score: %.2f). Using shorter baseline period.", stabilityScore))
			confidence = 0.5
			shouldRecalculate = float64(currentPeriod) > float64(recommended)*1.5
		}
	}

	switch seasonalPattern {
	case models.SeasonalWeekly:
		weeks := recommended / 7
		if weeks < 1 {
			weeks = 1
		}
		if adjusted := weeks * 7; adjusted <= maxBaselinePeriod {
			recommended = adjusted
			reasoning = append(reasoning, fmt.Sprintf("Weekly seasonality detected. Adjusted baseline to %d complete week(s).", weeks))
		}
	case models.SeasonalMonthly:
		if recommended < 14 {
			recommended = 14
			reasoning = append(reasoning, "Monthly seasonality detected. Using minimum 2-week baseline.")
		}
	}

	if signalDensity > 0.2 {
		recommended -= 2
		if recommended < reliableBaseline {
			recommended = reliableBaseline
		}
		reasoning = append(reasoning, fmt.Sprintf("High signal density (%.2f). Reducing baseline period for faster detection.", signalDensity))
		confidence *= 0.9
	} else if signalDensity < 0.05 {
		recommended += 2
		if recommended > maxBaselinePeriod {
			recommended = maxBaselinePeriod
		}
		reasoning = append(reasoning, fmt.Sprintf("Low signal density (%.2f). Increasing baseline period for stability.", signalDensity))
	}

	recommended = clampInt(recommended, reliableBaseline, maxBaselinePeriod)

	var stability models.BaselineStability
	switch {
	case stabilityScore >= 0.8 && len(changePoints) == 0:
		stability = models.StabilityStable
	case stabilityScore >= 0.6:
		stability = models.StabilityImproving
	case len(changePoints) > 0:
		stability = models.StabilityDegrading
	default:
		stability = models.StabilityUnstable
	}

	diff := recommended - currentPeriod
	if diff < 0 {
		diff = -diff
	}
	if diff <= 2 {
		confidence *= 1.1
	}
	if confidence > 1 {
		confidence = 1
	}

	return models.BaselineRecommendation{
		RecommendedPeriod:     recommended,
		CurrentPeriod:         currentPeriod,
		Confidence:            confidence,
		Reasoning:             reasoning,
		Stability:             stability,
		SeasonalPattern:       seasonalPattern,
		ShouldRecalculate:     shouldRecalculate,
		LastRecalculationDate: time.Now(),
	}
}

// EvaluateAlternativeBaselines scores each candidate period by slicing the
// leading `period` values as baseline and running detection over the full
// series. Candidates outside [6, n] are skipped; a failing candidate is
// omitted from the result rather than aborting the evaluation.
func (a *BaselineAdvisor) EvaluateAlternativeBaselines(observations []models.Observation, candidatePeriods []int) map[int]models.BaselinePerformance {
	values := models.Values(observations)
	results := make(map[int]models.BaselinePerformance)

	for _, period := range candidatePeriods {
		if period < reliableBaseline || period > len(values) {
			continue
		}

		baseline := values[:period]
		limits, _, err := a.limits.CalculateNaturalProcessLimits(baseline)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("skipping baseline candidate",
					xlogger.Int("period", period),
					xlogger.Error(err),
				)
			}
			continue
		}
		signals := a.detector.DetectAllSignals(values, limits)

		limitPrecision := 0.0
		if spread := limits.UpperLimit - limits.LowerLimit; spread > 0 {
			limitPrecision = 1 / spread
		}

		results[period] = models.BaselinePerformance{
			SignalCount:       len(signals),
			SignalDensity:     signalPointFraction(signals, len(values)),
			LimitPrecision:    limitPrecision,
			BaselineStability: a.baselineStability(baseline),
			UpperLimit:        limits.UpperLimit,
			LowerLimit:        limits.LowerLimit,
			Average:           limits.Average,
		}
	}
	return results
}

// baselineStability is max(0, 1-CV) for one baseline slice.
func (a *BaselineAdvisor) baselineStability(baseline []float64) float64 {
	if len(baseline) < 3 {
		return 0
	}
	m := mean(baseline)
	if m == 0 {
		return 0
	}
	stability := 1 - sampleStdDev(baseline)/m
	if stability < 0 {
		return 0
	}
	if stability > 1 {
		return 1
	}
	return stability
}
