package usecase

import (
	"bytes"
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tidepool-org/glucose-insights/schema"
)

type MockReadingsRepository struct {
	mock.Mock
}

func (m *MockReadingsRepository) FetchReadings(ctx context.Context, traceID string, userID string, window schema.DateWindow) ([]schema.Reading, error) {
	args := m.Called(ctx, traceID, userID, window)
	readings, _ := args.Get(0).([]schema.Reading)
	return readings, args.Error(1)
}

func (m *MockReadingsRepository) FetchUser(ctx context.Context, traceID string, userID string) (*schema.UserProfile, error) {
	args := m.Called(ctx, traceID, userID)
	profile, _ := args.Get(0).(*schema.UserProfile)
	return profile, args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, filename string, buffer *bytes.Buffer) error {
	args := m.Called(ctx, filename, buffer)
	return args.Error(0)
}

type MockDailyMetricsUseCase struct {
	mock.Mock
}

func (m *MockDailyMetricsUseCase) ComputeDailyMetrics(ctx context.Context, traceID string, userID string, query DateWindowQuery) ([]schema.DailyMetrics, error) {
	args := m.Called(ctx, traceID, userID, query)
	metrics, _ := args.Get(0).([]schema.DailyMetrics)
	return metrics, args.Error(1)
}
