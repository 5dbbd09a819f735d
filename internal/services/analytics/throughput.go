package analytics

import (
	"fmt"
	"sort"
	"time"

	"FlowPulse/internal/domain/models"
	xlogger "FlowPulse/pkg/logger"
)

const minThroughputEvents = 3

// Recommendation thresholds. Each check in
// GenerateThroughputRecommendations is independent.
const (
	lowPredictability   = 0.7
	highVariationFactor = 2.0
	zeroPeriodFraction  = 0.2
	minPeriodsForecast  = 10
)

// ThroughputAggregator buckets completion events into fixed time periods
// and derives flow statistics over the bucket counts.
type ThroughputAggregator struct {
	logger *xlogger.Logger
}

// NewThroughputAggregator creates an aggregator. The logger may be nil.
func NewThroughputAggregator(logger *xlogger.Logger) *ThroughputAggregator {
	return &ThroughputAggregator{logger: logger}
}

// CalculateThroughputAnalysis sorts events by timestamp and partitions the
// covered time range into period-aligned buckets. Interior zero buckets are
// kept (they are real "no throughput" periods); trailing empty buckets are
// dropped.
func (a *ThroughputAggregator) CalculateThroughputAnalysis(events []models.Observation, period models.ThroughputPeriod) (models.ThroughputAnalysis, error) {
	if len(events) < minThroughputEvents {
		return models.ThroughputAnalysis{}, ErrInsufficientData("minimum %d completed items required for throughput analysis, got %d", minThroughputEvents, len(events))
	}

	sorted := make([]models.Observation, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	buckets, err := a.groupByPeriod(sorted, period)
	if err != nil {
		return models.ThroughputAnalysis{}, err
	}
	if len(buckets) == 0 {
		return models.ThroughputAnalysis{}, ErrNoPeriods("no throughput periods found")
	}

	counts := make([]float64, len(buckets))
	minCount, maxCount := buckets[0].ItemCount, buckets[0].ItemCount
	for i, b := range buckets {
		counts[i] = float64(b.ItemCount)
		if b.ItemCount < minCount {
			minCount = b.ItemCount
		}
		if b.ItemCount > maxCount {
			maxCount = b.ItemCount
		}
	}

	avg := mean(counts)
	predictability := 0.0
	if avg > 0 {
		cv := sampleStdDev(counts) / avg
		predictability = 1 - cv
		if predictability < 0 {
			predictability = 0
		}
	}

	if a.logger != nil {
		a.logger.Debug("throughput aggregated",
			xlogger.Int("events", len(events)),
			xlogger.Int("periods", len(buckets)),
			xlogger.String("period", string(period)),
		)
	}

	return models.ThroughputAnalysis{
		ThroughputData:      buckets,
		AverageThroughput:   avg,
		MedianThroughput:    median(counts),
		MinThroughput:       minCount,
		MaxThroughput:       maxCount,
		Period:              period,
		TotalPeriods:        len(buckets),
		TotalItemsCompleted: len(events),
		PredictabilityScore: predictability,
	}, nil
}

func (a *ThroughputAggregator) groupByPeriod(sorted []models.Observation, period models.ThroughputPeriod) ([]models.ThroughputBucket, error) {
	first := sorted[0].Timestamp
	last := sorted[len(sorted)-1].Timestamp

	start, err := periodStart(first, period)
	if err != nil {
		return nil, err
	}

	var buckets []models.ThroughputBucket
	for !start.After(last) {
		end, err := periodEnd(start, period)
		if err != nil {
			return nil, err
		}

		var labels []string
		count := 0
		for i, ev := range sorted {
			if !ev.Timestamp.Before(start) && ev.Timestamp.Before(end) {
				labels = append(labels, ev.LabelOr(fmt.Sprintf("Item-%d", i)))
				count++
			}
		}

		buckets = append(buckets, models.ThroughputBucket{
			PeriodStart:    start,
			PeriodEnd:      end,
			ItemCount:      count,
			ItemsCompleted: labels,
			Period:         period,
		})
		start = end
	}

	for len(buckets) > 0 && buckets[len(buckets)-1].ItemCount == 0 {
		buckets = buckets[:len(buckets)-1]
	}
	return buckets, nil
}

// periodStart aligns a timestamp to the start of its containing period:
// midnight for daily, Monday midnight for weekly, first of month for monthly.
func periodStart(t time.Time, period models.ThroughputPeriod) (time.Time, error) {
	y, m, d := t.Date()
	switch period {
	case models.PeriodDaily:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
	case models.PeriodWeekly:
		daysSinceMonday := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, t.Location()), nil
	case models.PeriodMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()), nil
	default:
		return time.Time{}, ErrUnsupportedPeriod("unsupported throughput period: %q", period)
	}
}

func periodEnd(start time.Time, period models.ThroughputPeriod) (time.Time, error) {
	switch period {
	case models.PeriodDaily:
		return start.AddDate(0, 0, 1), nil
	case models.PeriodWeekly:
		return start.AddDate(0, 0, 7), nil
	case models.PeriodMonthly:
		// AddDate normalizes December into January of the next year.
		return start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, ErrUnsupportedPeriod("unsupported throughput period: %q", period)
	}
}

// CreateThroughputPBCData converts the retained buckets into observations at
// each bucket's midpoint, so the aggregated counts can be run through the
// limits engine and signal detector as a second-pass behaviour chart.
func (a *ThroughputAggregator) CreateThroughputPBCData(analysis models.ThroughputAnalysis) []models.Observation {
	out := make([]models.Observation, 0, len(analysis.ThroughputData))
	for i, b := range analysis.ThroughputData {
		mid := b.PeriodStart.Add(b.PeriodEnd.Sub(b.PeriodStart) / 2)
		label := fmt.Sprintf("%s %d: %d items", string(b.Period), i+1, b.ItemCount)
		out = append(out, models.Observation{
			Timestamp: mid,
			Value:     float64(b.ItemCount),
			Label:     &label,
		})
	}
	return out
}

// GenerateThroughputRecommendations runs five independent threshold checks
// in a fixed order and returns every advisory that applies.
func (a *ThroughputAggregator) GenerateThroughputRecommendations(analysis models.ThroughputAnalysis, signals []models.Signal) []string {
	var recs []string

	if analysis.PredictabilityScore < lowPredictability {
		recs = append(recs, "Low throughput predictability detected. Consider investigating process variation and work intake patterns to improve flow stability.")
	}

	if float64(analysis.MaxThroughput) > analysis.AverageThroughput*highVariationFactor {
		recs = append(recs, "High throughput variation detected. This may indicate batching behavior or irregular work intake. Consider implementing WIP limits and steady work intake.")
	}

	for _, s := range signals {
		if s.Severity == models.SeverityHigh {
			recs = append(recs, "High-severity signals detected in throughput data. Investigate process changes or external factors affecting delivery capacity during these periods.")
			break
		}
	}

	zeroPeriods := 0
	for _, b := range analysis.ThroughputData {
		if b.ItemCount == 0 {
			zeroPeriods++
		}
	}
	if float64(zeroPeriods) > float64(analysis.TotalPeriods)*zeroPeriodFraction {
		recs = append(recs, "Frequent periods with zero throughput detected. This may indicate batching, process bottlenecks, or irregular work intake patterns.")
	}

	if analysis.TotalPeriods < minPeriodsForecast {
		recs = append(recs, fmt.Sprintf("Consider collecting more throughput data. Current %d periods may not provide sufficient baseline for reliable forecasting.", analysis.TotalPeriods))
	}

	return recs
}
