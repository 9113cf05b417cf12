package api

import (
	"context"

	"github.com/tidepool-org/glucose-insights/schema"
	"github.com/tidepool-org/glucose-insights/usecase"
)

type UserUseCase interface {
	GetUser(ctx context.Context, traceID string, userID string) (*schema.UserProfile, error)
}

type MetricsUseCase interface {
	ComputeDailyMetrics(ctx context.Context, traceID string, userID string, query usecase.DateWindowQuery) ([]schema.DailyMetrics, error)
}

type CalendarUseCase interface {
	BuildCalendar(ctx context.Context, traceID string, userID string) ([]schema.CalendarEntry, error)
}

type ExporterUseCase interface {
	Export(args usecase.ExportArgs)
}

type QueryValidator interface {
	Validate(query usecase.DateWindowQuery) error
}
