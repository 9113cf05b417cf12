package usecase

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/common"
	"github.com/tidepool-org/glucose-insights/schema"
)

// CalendarAggregator number of readings per device and per day over the last CalendarDays
type CalendarAggregator struct {
	logger     logrus.FieldLogger
	repository ReadingsRepository
	resolver   DateWindowResolver
}

func NewCalendarAggregator(logger logrus.FieldLogger, repository ReadingsRepository, resolver DateWindowResolver) *CalendarAggregator {
	return &CalendarAggregator{
		logger:     logger,
		repository: repository,
		resolver:   resolver,
	}
}

func (c *CalendarAggregator) BuildCalendar(ctx context.Context, traceID string, userID string) ([]schema.CalendarEntry, error) {
	readings, err := fetchReadings(ctx, c.logger, c.repository, traceID, userID, c.resolver.CalendarWindow())
	if err != nil {
		return nil, err
	}
	common.TimeIt(ctx, "aggregateCalendar")
	entries := BuildCalendarEntries(readings)
	common.TimeEnd(ctx, "aggregateCalendar")
	aggregatedDaysCounter.WithLabelValues("calendar").Add(float64(len(entries)))
	return entries, nil
}

// BuildCalendarEntries one entry per day having readings, days without readings are not listed.
// Days ascending, devices ascending
func BuildCalendarEntries(readings []schema.Reading) []schema.CalendarEntry {
	groups := GroupByDay(readings)
	entries := make([]schema.CalendarEntry, 0, len(groups))
	for _, day := range sortedDays(groups) {
		entries = append(entries, schema.CalendarEntry{
			Date:    day,
			Entries: countByDevice(groups[day]),
		})
	}
	return entries
}

func countByDevice(readings []schema.Reading) []schema.DeviceCount {
	counts := make(map[string]int)
	for _, reading := range readings {
		counts[reading.DeviceID]++
	}
	deviceCounts := make([]schema.DeviceCount, 0, len(counts))
	for deviceID, count := range counts {
		deviceCounts = append(deviceCounts, schema.DeviceCount{DeviceID: deviceID, NumOfReadings: count})
	}
	sort.Slice(deviceCounts, func(i, j int) bool {
		return deviceCounts[i].DeviceID < deviceCounts[j].DeviceID
	})
	return deviceCounts
}
