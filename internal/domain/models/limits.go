package models

// ProcessLimits holds natural process limits derived from a baseline slice
// using Shewhart's XmR constants (2.66 for the X chart, 3.27 for the mR chart).
type ProcessLimits struct {
	Average            float64 `json:"average"`
	UpperLimit         float64 `json:"upperLimit"`
	LowerLimit         float64 `json:"lowerLimit"`
	AverageMovingRange float64 `json:"averageMovingRange"`
	UpperRangeLimit    float64 `json:"upperRangeLimit"`
}

// SigmaLines are the 1- and 2-sigma boundaries used by run rules 2 and 3.
// Lower bounds are floored at zero, same as the process limits.
type SigmaLines struct {
	OneSigmaUpper float64 `json:"oneSigmaUpper"`
	OneSigmaLower float64 `json:"oneSigmaLower"`
	TwoSigmaUpper float64 `json:"twoSigmaUpper"`
	TwoSigmaLower float64 `json:"twoSigmaLower"`
}
