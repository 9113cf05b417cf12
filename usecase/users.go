package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/tidepool-org/glucose-insights/schema"
)

type UserLookup struct {
	logger     logrus.FieldLogger
	repository ReadingsRepository
}

func NewUserLookup(logger logrus.FieldLogger, repository ReadingsRepository) *UserLookup {
	return &UserLookup{
		logger:     logger,
		repository: repository,
	}
}

// GetUser nil, nil when the user is unknown
func (u *UserLookup) GetUser(ctx context.Context, traceID string, userID string) (*schema.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("user id is missing")
	}
	profile, err := u.repository.FetchUser(ctx, traceID, userID)
	if err != nil {
		return nil, err
	}
	u.logger.WithFields(logrus.Fields{"traceId": traceID, "userId": userID, "found": profile != nil}).Info("user lookup")
	return profile, nil
}
