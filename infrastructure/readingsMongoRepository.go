package infrastructure

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/tidepool-org/glucose-insights/schema"
	goComMgo "github.com/tidepool-org/go-common/clients/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	readingsCollectionName = "deviceReadings"
	usersCollectionName    = "users"
	idxUserIDTimestamp     = "UserIdTimestamp"
)

var readingsIndexes = map[string][]mongo.IndexModel{
	readingsCollectionName: {
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index().SetName(idxUserIDTimestamp),
		},
	},
}

type ReadingsMongoRepository struct {
	*goComMgo.StoreClient
}

// NewReadingsMongoRepository creates a new readings repository for mongo
func NewReadingsMongoRepository(config *goComMgo.Config, logger *log.Logger) (*ReadingsMongoRepository, error) {
	if config != nil {
		config.Indexes = readingsIndexes
	}
	rmr := ReadingsMongoRepository{}
	store, err := goComMgo.NewStoreClient(config, logger)
	rmr.StoreClient = store
	return &rmr, err
}

func readingsCollection(r *ReadingsMongoRepository) *mongo.Collection {
	return r.Collection(readingsCollectionName)
}

func usersCollection(r *ReadingsMongoRepository) *mongo.Collection {
	return r.Collection(usersCollectionName)
}

// generateReadingsQuery readings of userID with a timestamp between the window bounds, both included
func generateReadingsQuery(userID string, window schema.DateWindow) bson.M {
	return bson.M{
		"userId":    userID,
		"timestamp": bson.M{"$gte": window.Start, "$lte": window.End},
	}
}

// generateUserQuery ids are matched either as ObjectId or as plain string
func generateUserQuery(userID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, userID}}}
	}
	return bson.M{"_id": userID}
}

// FetchReadings readings sorted by timestamp
func (r *ReadingsMongoRepository) FetchReadings(ctx context.Context, traceID string, userID string, window schema.DateWindow) ([]schema.Reading, error) {
	opts := options.Find()
	opts.SetHint(idxUserIDTimestamp)
	opts.SetSort(bson.D{primitive.E{Key: "timestamp", Value: 1}})
	opts.SetComment(traceID)

	cursor, err := readingsCollection(r).Find(ctx, generateReadingsQuery(userID, window), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "find readings user=[%s] traceID=[%s]", userID, traceID)
	}
	defer cursor.Close(ctx)

	readings := []schema.Reading{}
	if err = cursor.All(ctx, &readings); err != nil {
		return nil, errors.Wrapf(err, "decode readings user=[%s] traceID=[%s]", userID, traceID)
	}
	return readings, nil
}

// FetchUser nil, nil when there is no such user
func (r *ReadingsMongoRepository) FetchUser(ctx context.Context, traceID string, userID string) (*schema.UserProfile, error) {
	if userID == "" {
		return nil, errors.New("invalid user id")
	}
	opts := options.FindOne()
	opts.SetComment(traceID)

	var profile schema.UserProfile
	err := usersCollection(r).FindOne(ctx, generateUserQuery(userID), opts).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find user=[%s] traceID=[%s]", userID, traceID)
	}
	return &profile, nil
}
