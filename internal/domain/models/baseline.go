package models

import "time"

// BaselineStability classifies how settled the underlying process looks.
type BaselineStability string

const (
	StabilityStable    BaselineStability = "stable"
	StabilityUnstable  BaselineStability = "unstable"
	StabilityImproving BaselineStability = "improving"
	StabilityDegrading BaselineStability = "degrading"
)

// SeasonalPattern names a recurring cycle detected in the series.
type SeasonalPattern string

const (
	SeasonalNone      SeasonalPattern = "none"
	SeasonalWeekly    SeasonalPattern = "weekly"
	SeasonalMonthly   SeasonalPattern = "monthly"
	SeasonalQuarterly SeasonalPattern = "quarterly"
)

// VariationTrend describes how process variation moves over time.
type VariationTrend string

const (
	VariationIncreasing VariationTrend = "increasing"
	VariationDecreasing VariationTrend = "decreasing"
	VariationStable     VariationTrend = "stable"
)

// SeasonalityAnalysis carries per-cycle seasonality strengths in [0,1].
type SeasonalityAnalysis struct {
	DominantPattern  SeasonalPattern `json:"dominantPattern"`
	WeeklyStrength   float64         `json:"weeklyStrength"`
	MonthlyStrength  float64         `json:"monthlyStrength"`
	PatternsDetected []string        `json:"patternsDetected"`
}

// BaselineRecommendation is the advisor's suggested baseline window,
// produced fresh per call and never persisted.
type BaselineRecommendation struct {
	RecommendedPeriod     int               `json:"recommendedPeriod"`
	CurrentPeriod         int               `json:"currentPeriod"`
	Confidence            float64           `json:"confidence"`
	Reasoning             []string          `json:"reasoning"`
	Stability             BaselineStability `json:"stability"`
	SeasonalPattern       SeasonalPattern   `json:"seasonalPattern"`
	ShouldRecalculate     bool              `json:"shouldRecalculate"`
	LastRecalculationDate time.Time         `json:"lastRecalculationDate"`
}

// DynamicBaselineAnalysis is the full advisor report behind a recommendation.
type DynamicBaselineAnalysis struct {
	Recommendation      BaselineRecommendation `json:"recommendation"`
	DataStabilityScore  float64                `json:"dataStabilityScore"`
	ProcessChangePoints []int                  `json:"processChangePoints"`
	SeasonalityAnalysis SeasonalityAnalysis    `json:"seasonalityAnalysis"`
	SignalDensity       float64                `json:"signalDensity"`
	VariationTrend      VariationTrend         `json:"variationTrend"`
}

// BaselinePerformance holds the comparison metrics for one candidate
// baseline period evaluated against the full series.
type BaselinePerformance struct {
	SignalCount       int     `json:"signalCount"`
	SignalDensity     float64 `json:"signalDensity"`
	LimitPrecision    float64 `json:"limitPrecision"`
	BaselineStability float64 `json:"baselineStability"`
	UpperLimit        float64 `json:"upperLimit"`
	LowerLimit        float64 `json:"lowerLimit"`
	Average           float64 `json:"average"`
}
