package analytics

import (
	"FlowPulse/internal/domain/models"
	xlogger "FlowPulse/pkg/logger"
)

const sameSideRunLength = 8

// SignalDetector implements the four Western Electric run rules for
// process behaviour charts. All scans are pure; windows slide by one and
// overlapping violations each emit their own signal.
type SignalDetector struct {
	limits *LimitsEngine
	logger *xlogger.Logger
}

// NewSignalDetector creates a detector sharing the limits engine for
// sigma-line derivation. The logger may be nil.
func NewSignalDetector(limits *LimitsEngine, logger *xlogger.Logger) *SignalDetector {
	return &SignalDetector{limits: limits, logger: logger}
}

// DetectAllSignals runs rules 1 through 4 in order against the full series
// and concatenates their findings without deduplication.
func (d *SignalDetector) DetectAllSignals(values []float64, limits models.ProcessLimits) []models.Signal {
	sigma := d.limits.CalculateSigmaLines(limits)

	signals := d.detectRule1(values, limits)
	signals = append(signals, d.detectRule2(values, sigma)...)
	signals = append(signals, d.detectRule3(values, sigma)...)
	signals = append(signals, d.detectRule4(values, limits.Average)...)

	if d.logger != nil && len(signals) > 0 {
		d.logger.Debug("signals detected", xlogger.Int("count", len(signals)))
	}
	return signals
}

// FilterByRules keeps only signals whose rule is in the requested set,
// preserving order. An empty set falls back to the default rules.
func (d *SignalDetector) FilterByRules(signals []models.Signal, rules []models.RuleType) []models.Signal {
	if len(rules) == 0 {
		rules = models.DefaultDetectionRules()
	}
	wanted := make(map[models.RuleType]bool, len(rules))
	for _, r := range rules {
		wanted[r] = true
	}
	out := make([]models.Signal, 0, len(signals))
	for _, s := range signals {
		if wanted[s.Type] {
			out = append(out, s)
		}
	}
	return out
}

// Rule 1: a single point outside the natural process limits.
func (d *SignalDetector) detectRule1(values []float64, limits models.ProcessLimits) []models.Signal {
	var signals []models.Signal
	for i, v := range values {
		if v > limits.UpperLimit || v < limits.LowerLimit {
			signals = append(signals, models.Signal{
				Type:        models.Rule1,
				DataPoints:  []int{i},
				Description: "Point outside natural process limits - dominant assignable cause",
				Severity:    models.SeverityHigh,
			})
		}
	}
	return signals
}

// Rule 2: two of three successive values beyond 2-sigma, checked
// independently above and below.
func (d *SignalDetector) detectRule2(values []float64, sigma models.SigmaLines) []models.Signal {
	var signals []models.Signal
	for i := 0; i+3 <= len(values); i++ {
		upper, lower := 0, 0
		for _, v := range values[i : i+3] {
			if v > sigma.TwoSigmaUpper {
				upper++
			}
			if v < sigma.TwoSigmaLower {
				lower++
			}
		}
		if upper >= 2 {
			signals = append(signals, models.Signal{
				Type:        models.Rule2,
				DataPoints:  []int{i, i + 1, i + 2},
				Description: "Two out of three points beyond 2-sigma - moderate process change",
				Severity:    models.SeverityModerate,
			})
		}
		if lower >= 2 {
			signals = append(signals, models.Signal{
				Type:        models.Rule2,
				DataPoints:  []int{i, i + 1, i + 2},
				Description: "Two out of three points beyond 2-sigma - moderate process change",
				Severity:    models.SeverityModerate,
			})
		}
	}
	return signals
}

// Rule 3: four of five successive values beyond 1-sigma, checked
// independently above and below.
func (d *SignalDetector) detectRule3(values []float64, sigma models.SigmaLines) []models.Signal {
	var signals []models.Signal
	for i := 0; i+5 <= len(values); i++ {
		upper, lower := 0, 0
		for _, v := range values[i : i+5] {
			if v > sigma.OneSigmaUpper {
				upper++
			}
			if v < sigma.OneSigmaLower {
				lower++
			}
		}
		indices := []int{i, i + 1, i + 2, i + 3, i + 4}
		if upper >= 4 {
			signals = append(signals, models.Signal{
				Type:        models.Rule3,
				DataPoints:  indices,
				Description: "Four out of five points beyond 1-sigma - small sustained shift",
				Severity:    models.SeverityModerate,
			})
		}
		if lower >= 4 {
			signals = append(signals, models.Signal{
				Type:        models.Rule3,
				DataPoints:  indices,
				Description: "Four out of five points beyond 1-sigma - small sustained shift",
				Severity:    models.SeverityModerate,
			})
		}
	}
	return signals
}

// Rule 4: eight or more successive values on the same side of the average.
// A value exactly on the average counts as below (the test is v > average).
func (d *SignalDetector) detectRule4(values []float64, average float64) []models.Signal {
	var signals []models.Signal
	runLength := 0
	runStart := 0
	var above, haveSide bool

	emit := func() {
		if runLength < sameSideRunLength {
			return
		}
		indices := make([]int, runLength)
		for j := range indices {
			indices[j] = runStart + j
		}
		signals = append(signals, models.Signal{
			Type:        models.Rule4,
			DataPoints:  indices,
			Description: "Eight successive values on same side - sustained shift",
			Severity:    models.SeverityLow,
		})
	}

	for i, v := range values {
		side := v > average
		if haveSide && side == above {
			runLength++
			continue
		}
		emit()
		above = side
		haveSide = true
		runLength = 1
		runStart = i
	}
	// The final run gets the same check so nothing is lost at the boundary.
	emit()

	return signals
}
