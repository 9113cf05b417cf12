package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/schema"
)

var readingsFromStoreTimer = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:      "readings_from_store_time",
	Help:      "A histogram for fetchReadings execution time (ms)",
	Buckets:   prometheus.LinearBuckets(20, 20, 100),
	Subsystem: "insights",
	Namespace: "glucose",
})

var aggregatedDaysCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name:      "aggregated_days_total",
	Help:      "Number of days produced by the aggregations",
	Subsystem: "insights",
	Namespace: "glucose",
}, []string{"aggregation"})

// MetricsAggregator daily min/max/average of the glucose values
type MetricsAggregator struct {
	logger     logrus.FieldLogger
	repository ReadingsRepository
	resolver   DateWindowResolver
}

func NewMetricsAggregator(logger logrus.FieldLogger, repository ReadingsRepository, resolver DateWindowResolver) *MetricsAggregator {
	return &MetricsAggregator{
		logger:     logger,
		repository: repository,
		resolver:   resolver,
	}
}

// ComputeDailyMetrics one DailyMetrics per day having readings in the query window, days ascending.
// The query is validated first, see DateWindowResolver.Validate
func (m *MetricsAggregator) ComputeDailyMetrics(ctx context.Context, traceID string, userID string, query DateWindowQuery) ([]schema.DailyMetrics, error) {
	window, err := m.resolver.ResolveValidated(query, MetricsDefaultDays)
	if err != nil {
		return nil, err
	}
	readings, err := fetchReadings(ctx, m.logger, m.repository, traceID, userID, window)
	if err != nil {
		return nil, err
	}
	common.TimeIt(ctx, "aggregateMetrics")
	metrics := BuildDailyMetrics(readings)
	common.TimeEnd(ctx, "aggregateMetrics")
	aggregatedDaysCounter.WithLabelValues("metrics").Add(float64(len(metrics)))
	return metrics, nil
}

func fetchReadings(ctx context.Context, logger logrus.FieldLogger, repository ReadingsRepository, traceID string, userID string, window schema.DateWindow) ([]schema.Reading, error) {
	logger.WithFields(logrus.Fields{
		"traceId":   traceID,
		"userId":    userID,
		"beginDate": window.Start.Format(time.RFC3339),
		"endDate":   window.End.Format(time.RFC3339),
	}).Info("querying readings")

	common.TimeIt(ctx, "fetchReadings")
	start := time.Now()
	readings, err := repository.FetchReadings(ctx, traceID, userID, window)
	readingsFromStoreTimer.Observe(float64(time.Since(start).Milliseconds()))
	common.TimeEnd(ctx, "fetchReadings")
	return readings, err
}

// GroupByDay partition the readings on their UTC calendar day
func GroupByDay(readings []schema.Reading) map[string][]schema.Reading {
	groups := make(map[string][]schema.Reading)
	for _, reading := range readings {
		day := reading.Day()
		groups[day] = append(groups[day], reading)
	}
	return groups
}

// sortedDays keys of groups in ascending order, DayLayout sorts lexicographically
func sortedDays(groups map[string][]schema.Reading) []string {
	days := make([]string, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// BuildDailyMetrics group then reduce the readings, days ascending
func BuildDailyMetrics(readings []schema.Reading) []schema.DailyMetrics {
	groups := GroupByDay(readings)
	metrics := make([]schema.DailyMetrics, 0, len(groups))
	for _, day := range sortedDays(groups) {
		metrics = append(metrics, ReduceDailyMetrics(day, groups[day]))
	}
	return metrics
}

// ReduceDailyMetrics min, max and mean of the glucose values, the mean rounded half-up to AveragePrecision.
// No readings give zero values
func ReduceDailyMetrics(day string, readings []schema.Reading) schema.DailyMetrics {
	metrics := schema.DailyMetrics{Day: day, Average: decimal.Zero}
	if len(readings) == 0 {
		return metrics
	}
	var sum int64
	metrics.Min = readings[0].GlucoseValue
	metrics.Max = readings[0].GlucoseValue
	for _, reading := range readings {
		value := reading.GlucoseValue
		if value < metrics.Min {
			metrics.Min = value
		}
		if value > metrics.Max {
			metrics.Max = value
		}
		sum += int64(value)
	}
	// decimal.Round rounds ties away from zero: half-up on glucose values
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(readings))))
	metrics.Average = mean.Round(schema.AveragePrecision)
	return metrics
}
