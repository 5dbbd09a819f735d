package models

// Requests and responses for the chart analytics HTTP endpoints.
// Defaults mirror what the dashboard sends when fields are omitted.

type ChartRequest struct {
	Data           []Observation `json:"data" validate:"required,min=1,dive"`
	BaselinePeriod int           `json:"baselinePeriod" default:"20" validate:"gte=3,lte=50"`
	DetectionRules []RuleType    `json:"detectionRules" default:"[\"rule1\",\"rule4\"]" validate:"dive,oneof=rule1 rule2 rule3 rule4"`
	MetricType     string        `json:"metricType" default:"cycle_time"`
}

type ChartResponse struct {
	XChart         XChart        `json:"xChart"`
	MRChart        MRChart       `json:"mrChart"`
	Signals        []Signal      `json:"signals"`
	Limits         ProcessLimits `json:"limits"`
	BaselinePeriod int           `json:"baselinePeriod"`
	Diagnostics    []string      `json:"diagnostics,omitempty"`
}

// XChart is the individuals chart payload rendered by the dashboard.
type XChart struct {
	Timestamps []string   `json:"timestamps"`
	Values     []float64  `json:"values"`
	Average    float64    `json:"average"`
	UpperLimit float64    `json:"upperLimit"`
	LowerLimit float64    `json:"lowerLimit"`
	SigmaLines SigmaLines `json:"sigmaLines"`
}

// MRChart is the moving-range chart payload. It has one fewer point
// than the X chart since ranges are between consecutive values.
type MRChart struct {
	Timestamps []string  `json:"timestamps"`
	Values     []float64 `json:"values"`
	Average    float64   `json:"average"`
	UpperLimit float64   `json:"upperLimit"`
}

type ThroughputRequest struct {
	Data           []Observation    `json:"data" validate:"required,min=1,dive"`
	Period         ThroughputPeriod `json:"period" default:"weekly" validate:"oneof=daily weekly monthly"`
	BaselinePeriod int              `json:"baselinePeriod" default:"20" validate:"gte=3,lte=50"`
	DetectionRules []RuleType       `json:"detectionRules" default:"[\"rule1\",\"rule4\"]" validate:"dive,oneof=rule1 rule2 rule3 rule4"`
}

type ThroughputResponse struct {
	ThroughputAnalysis ThroughputAnalysis `json:"throughputAnalysis"`
	XChart             XChart             `json:"xChart"`
	MRChart            MRChart            `json:"mrChart"`
	Signals            []Signal           `json:"signals"`
	Limits             ProcessLimits      `json:"limits"`
	BaselinePeriod     int                `json:"baselinePeriod"`
	Recommendations    []string           `json:"recommendations"`
	Diagnostics        []string           `json:"diagnostics,omitempty"`
}

type DynamicBaselineRequest struct {
	Data                  []Observation `json:"data" validate:"required,min=1,dive"`
	CurrentBaselinePeriod int           `json:"currentBaselinePeriod" validate:"required,gte=1"`
	MetricType            string        `json:"metricType" default:"cycle_time"`
	MinimumPeriod         int           `json:"minimumPeriod" default:"6" validate:"gte=3"`
	MaximumPeriod         int           `json:"maximumPeriod" default:"20" validate:"lte=50"`
}

type DynamicBaselineResponse struct {
	Analysis              DynamicBaselineAnalysis     `json:"analysis"`
	AlternativeBaselines  map[int]BaselinePerformance `json:"alternativeBaselines"`
	HistoricalPerformance map[string]float64          `json:"historicalPerformance"`
}

// DetectionRulesResponse describes the rule catalog and the default set.
type DetectionRulesResponse struct {
	DefaultRules []RuleType        `json:"defaultRules"`
	Catalog      []RuleDescription `json:"catalog"`
}

type RuleDescription struct {
	Type        RuleType `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}
