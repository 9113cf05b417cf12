package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/schema"
)

func reading(deviceID string, timestamp time.Time, value int) schema.Reading {
	return schema.Reading{
		UserID:       "user1",
		DeviceID:     deviceID,
		Timestamp:    timestamp,
		GlucoseValue: value,
		Unit:         "mg/dL",
	}
}

func at(day int, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestReduceDailyMetrics(t *testing.T) {
	readings := []schema.Reading{
		reading("A", at(1, 8), 90),
		reading("A", at(1, 12), 110),
		reading("B", at(1, 18), 100),
	}
	metrics := ReduceDailyMetrics("2024-01-01", readings)
	assert.Equal(t, "2024-01-01", metrics.Day)
	assert.Equal(t, 90, metrics.Min)
	assert.Equal(t, 110, metrics.Max)
	assert.Equal(t, "100.0", metrics.Average.StringFixed(1))
}

func repeat(values []int, value int, times int) []int {
	for i := 0; i < times; i++ {
		values = append(values, value)
	}
	return values
}

func TestReduceDailyMetrics_Rounding(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected string
	}{
		{"tie rounds up", repeat(repeat(nil, 100, 3), 101, 1), "100.3"},                 // 100.25
		{"below the tie rounds down", repeat(repeat(nil, 100, 19), 101, 6), "100.2"}, // 100.24
		{"repeating decimal", []int{100, 100, 101}, "100.3"},                        // 100.333..
		{"exact", []int{120}, "120.0"},
		{"half", []int{99, 100}, "99.5"},
		{"tie on the first decimal carry", repeat([]int{100}, 101, 19), "101.0"}, // 100.95
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readings := make([]schema.Reading, 0, len(tt.values))
			for i, value := range tt.values {
				readings = append(readings, reading("A", at(1, 0).Add(time.Duration(i)*time.Minute), value))
			}
			metrics := ReduceDailyMetrics("2024-01-01", readings)
			assert.Equal(t, tt.expected, metrics.Average.StringFixed(schema.AveragePrecision))
		})
	}
}

func TestRoundHalfUp_Examples(t *testing.T) {
	assert.Equal(t, "100.3", decimal.RequireFromString("100.25").Round(schema.AveragePrecision).StringFixed(1))
	assert.Equal(t, "100.2", decimal.RequireFromString("100.24").Round(schema.AveragePrecision).StringFixed(1))
}

func TestReduceDailyMetrics_Empty(t *testing.T) {
	metrics := ReduceDailyMetrics("2024-01-01", nil)
	assert.Equal(t, 0, metrics.Min)
	assert.Equal(t, 0, metrics.Max)
	assert.True(t, metrics.Average.IsZero())
}

func TestBuildDailyMetrics(t *testing.T) {
	readings := []schema.Reading{
		reading("A", at(2, 23), 200),
		reading("A", at(1, 8), 90),
		reading("B", at(2, 0), 50),
		reading("A", at(1, 12), 110),
		reading("A", at(1, 23).Add(59*time.Minute+59*time.Second), 100),
	}
	metrics := BuildDailyMetrics(readings)
	require.Len(t, metrics, 2)
	assert.Equal(t, "2024-01-01", metrics[0].Day)
	assert.Equal(t, 90, metrics[0].Min)
	assert.Equal(t, 110, metrics[0].Max)
	assert.Equal(t, "100.0", metrics[0].Average.StringFixed(1))
	assert.Equal(t, "2024-01-02", metrics[1].Day)
	assert.Equal(t, 50, metrics[1].Min)
	assert.Equal(t, 200, metrics[1].Max)
	assert.Equal(t, "125.0", metrics[1].Average.StringFixed(1))

	for _, dailyMetrics := range metrics {
		assert.True(t, decimal.NewFromInt(int64(dailyMetrics.Min)).LessThanOrEqual(dailyMetrics.Average))
		assert.True(t, dailyMetrics.Average.LessThanOrEqual(decimal.NewFromInt(int64(dailyMetrics.Max))))
	}
}

func TestGroupByDay_Partition(t *testing.T) {
	var readings []schema.Reading
	for i := 0; i < 200; i++ {
		readings = append(readings, reading("A", at(1, 0).Add(time.Duration(i)*37*time.Minute), 100+i%40))
	}
	groups := GroupByDay(readings)
	total := 0
	for day, group := range groups {
		for _, r := range group {
			assert.Equal(t, day, r.Day(), "reading grouped on the wrong day")
		}
		total += len(group)
	}
	assert.Equal(t, len(readings), total, "every reading belongs to exactly one group")
}

func TestMetricsAggregator_ComputeDailyMetrics(t *testing.T) {
	logger, _ := test.NewNullLogger()
	resolver := NewDateWindowResolver(fixedClock)
	ctx := common.TimeItContext(context.Background())
	defaultWindow := schema.NewDateWindow(
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	)

	t.Run("default window", func(t *testing.T) {
		repository := &MockReadingsRepository{}
		repository.On("FetchReadings", mock.Anything, "trace1", "user1", defaultWindow).Return([]schema.Reading{
			reading("A", time.Date(2024, time.March, 2, 8, 0, 0, 0, time.UTC), 90),
			reading("A", time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC), 110),
		}, nil)
		aggregator := NewMetricsAggregator(logger, repository, resolver)

		metrics, err := aggregator.ComputeDailyMetrics(ctx, "trace1", "user1", DateWindowQuery{})

		require.NoError(t, err)
		require.Len(t, metrics, 1)
		assert.Equal(t, "2024-03-02", metrics[0].Day)
		assert.Equal(t, "100.0", metrics[0].Average.StringFixed(1))
		repository.AssertExpectations(t)
	})

	t.Run("explicit window", func(t *testing.T) {
		explicitWindow := schema.NewDateWindow(
			time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 3, 6, 0, 0, 0, time.UTC),
		)
		repository := &MockReadingsRepository{}
		repository.On("FetchReadings", mock.Anything, "trace1", "user1", explicitWindow).Return([]schema.Reading{}, nil)
		aggregator := NewMetricsAggregator(logger, repository, resolver)

		metrics, err := aggregator.ComputeDailyMetrics(ctx, "trace1", "user1", DateWindowQuery{StartDate: "2024-03-01T06:00:00", EndDate: "2024-03-03T06:00:00"})

		require.NoError(t, err)
		assert.Empty(t, metrics)
		repository.AssertExpectations(t)
	})

	t.Run("invalid window does not reach the store", func(t *testing.T) {
		repository := &MockReadingsRepository{}
		aggregator := NewMetricsAggregator(logger, repository, resolver)

		_, err := aggregator.ComputeDailyMetrics(ctx, "trace1", "user1", DateWindowQuery{StartDate: "2024-03-01T06:00:00"})

		assert.True(t, IsValidationError(err))
		repository.AssertNotCalled(t, "FetchReadings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store error is propagated", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		repository := &MockReadingsRepository{}
		repository.On("FetchReadings", mock.Anything, "trace1", "user1", defaultWindow).Return(nil, storeErr)
		aggregator := NewMetricsAggregator(logger, repository, resolver)

		_, err := aggregator.ComputeDailyMetrics(ctx, "trace1", "user1", DateWindowQuery{})

		assert.ErrorIs(t, err, storeErr)
		assert.False(t, IsValidationError(err))
	})
}
