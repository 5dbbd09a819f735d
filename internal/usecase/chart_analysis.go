package usecase

import (
	"fmt"
	"time"

	"FlowPulse/internal/domain/models"
	domsvc "FlowPulse/internal/domain/service"
	xlogger "FlowPulse/pkg/logger"
)

// ChartAnalyzer orchestrates a full process behaviour chart computation:
// limits from the baseline slice, sigma lines, signal detection over the
// whole series, and the chart payloads the dashboard renders.
type ChartAnalyzer struct {
	limits   domsvc.LimitsEngine
	detector domsvc.SignalDetector
	logger   *xlogger.Logger
}

func NewChartAnalyzer(limits domsvc.LimitsEngine, detector domsvc.SignalDetector, logger *xlogger.Logger) *ChartAnalyzer {
	return &ChartAnalyzer{limits: limits, detector: detector, logger: logger}
}

// ComputeLimitsAndSignals runs the XmR analysis. The requested baseline is
// silently clamped to the series length (reported as a diagnostic, never an
// error). Signal detection failures degrade to an empty signal list because
// detection is advisory and must never block limit reporting.
func (a *ChartAnalyzer) ComputeLimitsAndSignals(observations []models.Observation, baselinePeriod int, rules []models.RuleType) (models.ChartResponse, error) {
	values := models.Values(observations)

	var diagnostics []string
	effective := baselinePeriod
	if effective > len(values) {
		effective = len(values)
		diagnostics = append(diagnostics, fmt.Sprintf("baseline period adjusted from %d to %d (limited by data size)", baselinePeriod, effective))
		if a.logger != nil {
			a.logger.Warn("baseline period clamped",
				xlogger.Int("requested", baselinePeriod),
				xlogger.Int("effective", effective),
			)
		}
	}

	limits, limitDiags, err := a.limits.CalculateNaturalProcessLimits(values[:effective])
	if err != nil {
		return models.ChartResponse{}, err
	}
	diagnostics = append(diagnostics, limitDiags...)

	sigma := a.limits.CalculateSigmaLines(limits)
	signals := a.safeDetect(values, limits)
	filtered := a.detector.FilterByRules(signals, rules)
	movingRanges := a.limits.CalculateMovingRanges(values)

	timestamps := make([]string, len(observations))
	for i, o := range observations {
		timestamps[i] = o.Timestamp.Format(time.RFC3339)
	}
	mrTimestamps := timestamps
	if len(timestamps) > 0 {
		mrTimestamps = timestamps[1:]
	}

	return models.ChartResponse{
		XChart: models.XChart{
			Timestamps: timestamps,
			Values:     values,
			Average:    limits.Average,
			UpperLimit: limits.UpperLimit,
			LowerLimit: limits.LowerLimit,
			SigmaLines: sigma,
		},
		MRChart: models.MRChart{
			Timestamps: mrTimestamps,
			Values:     movingRanges,
			Average:    limits.AverageMovingRange,
			UpperLimit: limits.UpperRangeLimit,
		},
		Signals:        filtered,
		Limits:         limits,
		BaselinePeriod: effective,
		Diagnostics:    diagnostics,
	}, nil
}

// safeDetect shields limit reporting from any defect in the detector.
func (a *ChartAnalyzer) safeDetect(values []float64, limits models.ProcessLimits) (signals []models.Signal) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Error("signal detection failed, degrading to no signals", xlogger.Any("panic", r))
			}
			signals = nil
		}
	}()
	return a.detector.DetectAllSignals(values, limits)
}

// DetectionRuleCatalog describes the four run rules and the default set
// applied when a request omits detectionRules.
func DetectionRuleCatalog() models.DetectionRulesResponse {
	return models.DetectionRulesResponse{
		DefaultRules: models.DefaultDetectionRules(),
		Catalog: []models.RuleDescription{
			{Type: models.Rule1, Severity: models.SeverityHigh, Description: "Single point outside natural process limits"},
			{Type: models.Rule2, Severity: models.SeverityModerate, Description: "Two out of three successive values beyond 2-sigma"},
			{Type: models.Rule3, Severity: models.SeverityModerate, Description: "Four out of five successive values beyond 1-sigma"},
			{Type: models.Rule4, Severity: models.SeverityLow, Description: "Eight successive values on the same side of the average"},
		},
	}
}
