package models

import "time"

// Observation is a single (timestamp, value) measurement supplied by the caller.
// Label optionally carries the work item identity for throughput bucketing.
type Observation struct {
	Timestamp time.Time `json:"timestamp" validate:"required"`
	Value     float64   `json:"value"`
	Label     *string   `json:"label,omitempty"`
}

// LabelOr returns the observation label or a fallback when absent.
func (o Observation) LabelOr(fallback string) string {
	if o.Label != nil && *o.Label != "" {
		return *o.Label
	}
	return fallback
}

// Values extracts the value series in positional order.
func Values(obs []Observation) []float64 {
	out := make([]float64, len(obs))
	for i, o := range obs {
		out[i] = o.Value
	}
	return out
}
