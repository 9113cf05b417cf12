package infrastructure

import (
	"context"

	"github.com/tidepool-org/glucose-insights/schema"
)

// MockReadingsRepository use for unit tests
type MockReadingsRepository struct {
	Readings []schema.Reading
	Users    map[string]schema.UserProfile
	// Err returned by every fetch when set
	Err error
	// Windows received by FetchReadings, in call order
	Windows []schema.DateWindow
}

func NewMockReadingsRepository() *MockReadingsRepository {
	return &MockReadingsRepository{
		Users: make(map[string]schema.UserProfile),
	}
}

// Reset drop the data, errors and recorded calls
func (c *MockReadingsRepository) Reset() {
	c.Readings = nil
	c.Users = make(map[string]schema.UserProfile)
	c.Err = nil
	c.Windows = nil
}

// FetchReadings readings of userID inside window, in their insertion order
func (c *MockReadingsRepository) FetchReadings(ctx context.Context, traceID string, userID string, window schema.DateWindow) ([]schema.Reading, error) {
	c.Windows = append(c.Windows, window)
	if c.Err != nil {
		return nil, c.Err
	}
	readings := []schema.Reading{}
	for _, reading := range c.Readings {
		if reading.UserID == userID && window.Contains(reading.Timestamp) {
			readings = append(readings, reading)
		}
	}
	return readings, nil
}

func (c *MockReadingsRepository) FetchUser(ctx context.Context, traceID string, userID string) (*schema.UserProfile, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if user, found := c.Users[userID]; found {
		return &user, nil
	}
	return nil, nil
}
