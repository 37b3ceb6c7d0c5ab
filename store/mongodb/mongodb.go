// Package mongodb provides a mongodb-backed implementation of the leaderbot
// store.UserStatsStorer interface holding the aggregate collection
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nooblab/leaderbot/store"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB holds the mongo client along with the configured aggregate
// collection and the per-call operation timeout
type MongoDB struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// New connects to the mongodb instance at uri and returns a MongoDB storing
// aggregates in the given database/collection pair. Connectivity is validated
// with a ping before returning
func New(uri string, database string, collection string, timeout time.Duration) (mdb *MongoDB, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to connect to mongodb at [%s]", uri))
	}

	if err = client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(err, fmt.Sprintf("failed to reach mongodb at [%s]", uri))
	}

	mdb = new(MongoDB)
	mdb.client = client
	mdb.collection = client.Database(database).Collection(collection)
	mdb.timeout = timeout

	return mdb, nil
}

// Close disconnects the underlying mongo client
func (mdb *MongoDB) Close() (err error) {
	ctx, cancel := mdb.operationContext()
	defer cancel()

	return mdb.client.Disconnect(ctx)
}

// ListUserIDs returns the ids of all users in the aggregate collection using
// a projection limited to the user_id field
func (mdb *MongoDB) ListUserIDs() (userIDs []string, err error) {
	ctx, cancel := mdb.operationContext()
	defer cancel()

	projection := options.Find().SetProjection(bson.M{"_id": 0, "user_id": 1})
	cursor, err := mdb.collection.Find(ctx, bson.M{}, projection)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user ids")
	}
	defer cursor.Close(ctx)

	userIDs = make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			UserID string `bson:"user_id"`
		}

		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode user id projection")
		}

		userIDs = append(userIDs, doc.UserID)
	}

	return userIDs, cursor.Err()
}

// GetUserStats returns the aggregate document for userID or
// store.ErrUserStatsNotFound if the user has none
func (mdb *MongoDB) GetUserStats(userID string) (stats *store.UserStats, err error) {
	ctx, cancel := mdb.operationContext()
	defer cancel()

	stats = new(store.UserStats)
	err = mdb.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(stats)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrUserStatsNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to get stats for user [%s]", userID))
	}

	return stats, nil
}

// InsertUserStats inserts a new aggregate document
func (mdb *MongoDB) InsertUserStats(stats *store.UserStats) (err error) {
	ctx, cancel := mdb.operationContext()
	defer cancel()

	_, err = mdb.collection.InsertOne(ctx, stats)
	return errors.Wrap(err, fmt.Sprintf("failed to insert stats for user [%s]", stats.UserID))
}

// UpdateUserStats overwrites the counters of the existing document for
// stats.UserID with a $set of the full field set
func (mdb *MongoDB) UpdateUserStats(stats *store.UserStats) (err error) {
	ctx, cancel := mdb.operationContext()
	defer cancel()

	result, err := mdb.collection.UpdateOne(ctx, bson.M{"user_id": stats.UserID}, bson.M{"$set": stats})
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to update stats for user [%s]", stats.UserID))
	}

	if result.MatchedCount == 0 {
		return store.ErrUserStatsNotFound
	}

	return nil
}

func (mdb *MongoDB) operationContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), mdb.timeout)
}
