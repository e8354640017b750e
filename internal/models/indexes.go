package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConciergeSessionTTL is how long an idle concierge conversation is kept, in seconds.
const ConciergeSessionTTL int32 = 30 * 24 * 60 * 60

// EnsureIndexes creates the indexes the reconciliation queue and concierge sessions rely on.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	tasks, err := mdb.GetCollection(ctx, SyncTasksColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// one open task per booking
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("booking_id_unique"),
		},
		// reconciler batch scan
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("status_created_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating sync task indexes: %v", err)
	}

	sessions, err := mdb.GetCollection(ctx, ConciergeColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = sessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("session_id_unique"),
		},
		// idle sessions expire
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ConciergeSessionTTL).SetName("updated_at_ttl"),
		},
	})
	if err != nil {
		return fmt.Errorf("error creating concierge session indexes: %v", err)
	}
	return nil
}
