package models

import "time"

// ThroughputPeriod is the bucket granularity for throughput aggregation.
type ThroughputPeriod string

const (
	PeriodDaily   ThroughputPeriod = "daily"
	PeriodWeekly  ThroughputPeriod = "weekly"
	PeriodMonthly ThroughputPeriod = "monthly"
)

// ThroughputBucket is one fixed-width, period-aligned bucket of completions.
// Buckets cover [PeriodStart, PeriodEnd) and never overlap.
type ThroughputBucket struct {
	PeriodStart    time.Time        `json:"periodStart"`
	PeriodEnd      time.Time        `json:"periodEnd"`
	ItemCount      int              `json:"itemCount"`
	ItemsCompleted []string         `json:"itemsCompleted"`
	Period         ThroughputPeriod `json:"period"`
}

// ThroughputAnalysis aggregates bucket counts into flow statistics.
type ThroughputAnalysis struct {
	ThroughputData      []ThroughputBucket `json:"throughputData"`
	AverageThroughput   float64            `json:"averageThroughput"`
	MedianThroughput    float64            `json:"medianThroughput"`
	MinThroughput       int                `json:"minThroughput"`
	MaxThroughput       int                `json:"maxThroughput"`
	Period              ThroughputPeriod   `json:"period"`
	TotalPeriods        int                `json:"totalPeriods"`
	TotalItemsCompleted int                `json:"totalItemsCompleted"`
	PredictabilityScore float64            `json:"predictabilityScore"`
}
