package usecase

import (
	"bytes"
	"context"

	"github.com/tidepool-org/glucose-insights/schema"
	goComMgo "github.com/tidepool-org/go-common/clients/mongo"
)

// ReadingsRepository narrow access to the document store
type ReadingsRepository interface {
	// FetchReadings all the readings of userID with a timestamp in window, bounds included
	FetchReadings(ctx context.Context, traceID string, userID string, window schema.DateWindow) ([]schema.Reading, error)
	// FetchUser nil, nil when the user does not exist
	FetchUser(ctx context.Context, traceID string, userID string) (*schema.UserProfile, error)
}

type DatabaseAdapter interface {
	goComMgo.Storage
}

type Uploader interface {
	Upload(ctx context.Context, filename string, buffer *bytes.Buffer) error
}

// DailyMetricsUseCase computes the daily glucose metrics of a user
type DailyMetricsUseCase interface {
	ComputeDailyMetrics(ctx context.Context, traceID string, userID string, query DateWindowQuery) ([]schema.DailyMetrics, error)
}
