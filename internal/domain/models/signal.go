package models

// RuleType identifies one of the four Western Electric detection rules.
type RuleType string

const (
	Rule1 RuleType = "rule1" // single point outside natural process limits
	Rule2 RuleType = "rule2" // two of three successive values beyond 2-sigma
	Rule3 RuleType = "rule3" // four of five successive values beyond 1-sigma
	Rule4 RuleType = "rule4" // eight successive values on one side of average
)

// Severity grades how strongly a signal suggests an assignable cause.
type Severity string

const (
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// Signal is one rule violation over a window of series indices.
// Overlapping windows each produce their own Signal; there is no merging.
type Signal struct {
	Type        RuleType `json:"type"`
	DataPoints  []int    `json:"dataPoints"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// DefaultDetectionRules is the rule set applied when the caller does not
// request one. Rules 2 and 3 are noisier and must be opted into.
func DefaultDetectionRules() []RuleType {
	return []RuleType{Rule1, Rule4}
}

// ValidRuleType reports whether s names a known detection rule.
func ValidRuleType(s string) bool {
	switch RuleType(s) {
	case Rule1, Rule2, Rule3, Rule4:
		return true
	}
	return false
}
