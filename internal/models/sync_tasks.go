package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SyncTasksColName = "sync_tasks"

var (
	ErrSyncTaskNotFound = errors.New("sync task not found")
	ErrSyncTaskBusy     = errors.New("sync task is being pushed by another worker")
)

// ReservationPush is the payload committed to the channel manager.
type ReservationPush struct {
	ListingID   string  `bson:"listing_id" json:"listing_id"`
	CheckIn     string  `bson:"check_in" json:"check_in"`
	CheckOut    string  `bson:"check_out" json:"check_out"`
	GuestName   string  `bson:"guest_name" json:"guest_name"`
	GuestEmail  string  `bson:"guest_email" json:"guest_email"`
	TotalAmount float64 `bson:"total_amount" json:"total_amount"`
}

type SyncTaskStatus string

const (
	SyncTaskPending   SyncTaskStatus = "pending"
	SyncTaskInFlight  SyncTaskStatus = "in_flight"
	SyncTaskResolved  SyncTaskStatus = "resolved"
	SyncTaskAbandoned SyncTaskStatus = "abandoned"
)

func (s SyncTaskStatus) Valid() bool {
	switch s {
	case SyncTaskPending, SyncTaskInFlight, SyncTaskResolved, SyncTaskAbandoned:
		return true
	}
	return false
}

// SyncTask records a paid booking whose reservation never reached the channel
// manager. It is worked off by the reconciler or by an operator. A worker claims a
// task before pushing it; the claim lapses at LeaseUntil if the worker dies.
type SyncTask struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID           string             `bson:"booking_id" json:"booking_id"`
	PropertyID          string             `bson:"property_id" json:"property_id"`
	TransactionID       string             `bson:"transaction_id" json:"transaction_id"`
	Push                ReservationPush    `bson:"push" json:"push"`
	Status              SyncTaskStatus     `bson:"status" json:"status"`
	Attempts            int                `bson:"attempts" json:"attempts"`
	LastError           string             `bson:"last_error,omitempty" json:"last_error,omitempty"`
	RemoteReservationID string             `bson:"remote_reservation_id,omitempty" json:"remote_reservation_id,omitempty"`
	CreatedAt           time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time          `bson:"updated_at" json:"updated_at"`
	ResolvedAt          *time.Time         `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	LeaseUntil          *time.Time         `bson:"lease_until,omitempty" json:"lease_until,omitempty"`
}

// Claimable reports whether a worker may take the task at now. Abandoned tasks are
// only taken on an operator's request.
func (t *SyncTask) Claimable(now time.Time, includeAbandoned bool) bool {
	switch t.Status {
	case SyncTaskPending:
		return true
	case SyncTaskInFlight:
		return t.LeaseUntil == nil || t.LeaseUntil.Before(now)
	case SyncTaskAbandoned:
		return includeAbandoned
	}
	return false
}

func (t *SyncTask) BeforeCreate() error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = SyncTaskPending
	}
	return nil
}

type SyncTaskRepo interface {
	EnqueueSyncTask(ctx context.Context, t *SyncTask) error
	GetSyncTask(ctx context.Context, id string) (*SyncTask, error)
	ListSyncTasks(ctx context.Context, status SyncTaskStatus, limit int) ([]*SyncTask, error)
	// ListDueSyncTasks returns pending tasks and in-flight tasks whose lease expired.
	ListDueSyncTasks(ctx context.Context, limit int) ([]*SyncTask, error)
	// ClaimSyncTask atomically marks a claimable task in flight until now+lease.
	// It returns ErrSyncTaskBusy when another worker holds it or it is already settled.
	ClaimSyncTask(ctx context.Context, id string, lease time.Duration, includeAbandoned bool) (*SyncTask, error)
	// RecordSyncFailure releases the claim and leaves the task in next.
	RecordSyncFailure(ctx context.Context, id string, lastErr string, next SyncTaskStatus) error
	ResolveSyncTask(ctx context.Context, id string, remoteReservationID string) error
}

func claimableFilter(now time.Time, includeAbandoned bool) bson.A {
	or := bson.A{
		bson.M{"status": SyncTaskPending},
		bson.M{"status": SyncTaskInFlight, "$or": bson.A{
			bson.M{"lease_until": bson.M{"$exists": false}},
			bson.M{"lease_until": bson.M{"$lt": now}},
		}},
	}
	if includeAbandoned {
		or = append(or, bson.M{"status": SyncTaskAbandoned})
	}
	return or
}

func (mdb *MongodbRepo) EnqueueSyncTask(ctx context.Context, t *SyncTask) error {
	col, err := mdb.GetCollection(ctx, SyncTasksColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	if err := t.BeforeCreate(); err != nil {
		return err
	}
	if _, err := col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("error inserting sync task: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetSyncTask(ctx context.Context, id string) (*SyncTask, error) {
	col, err := mdb.GetCollection(ctx, SyncTasksColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sync task id: %v", err)
	}

	var t SyncTask
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSyncTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error finding sync task: %v", err)
	}
	return &t, nil
}

// ListSyncTasks returns tasks oldest first. An empty status matches every task.
func (mdb *MongodbRepo) ListSyncTasks(ctx context.Context, status SyncTaskStatus, limit int) ([]*SyncTask, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return mdb.findSyncTasks(ctx, filter, limit)
}

func (mdb *MongodbRepo) ListDueSyncTasks(ctx context.Context, limit int) ([]*SyncTask, error) {
	return mdb.findSyncTasks(ctx, bson.M{"$or": claimableFilter(time.Now().UTC(), false)}, limit)
}

func (mdb *MongodbRepo) findSyncTasks(ctx context.Context, filter bson.M, limit int) ([]*SyncTask, error) {
	col, err := mdb.GetCollection(ctx, SyncTasksColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding sync tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []*SyncTask
	for cursor.Next(ctx) {
		var t SyncTask
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("error decoding sync task: %v", err)
		}
		tasks = append(tasks, &t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return tasks, nil
}

func (mdb *MongodbRepo) ClaimSyncTask(ctx context.Context, id string, lease time.Duration, includeAbandoned bool) (*SyncTask, error) {
	col, err := mdb.GetCollection(ctx, SyncTasksColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sync task id: %v", err)
	}

	now := time.Now().UTC()
	filter := bson.M{"_id": oid, "$or": claimableFilter(now, includeAbandoned)}
	update := bson.M{"$set": bson.M{
		"status":      SyncTaskInFlight,
		"lease_until": now.Add(lease),
		"updated_at":  now,
	}}

	var t SyncTask
	err = col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSyncTaskBusy
	}
	if err != nil {
		return nil, fmt.Errorf("error claiming sync task: %v", err)
	}
	return &t, nil
}

func (mdb *MongodbRepo) RecordSyncFailure(ctx context.Context, id string, lastErr string, next SyncTaskStatus) error {
	return mdb.updateSyncTask(ctx, id, bson.M{
		"$set": bson.M{
			"status":     next,
			"last_error": lastErr,
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"lease_until": ""},
		"$inc":   bson.M{"attempts": 1},
	})
}

func (mdb *MongodbRepo) ResolveSyncTask(ctx context.Context, id string, remoteReservationID string) error {
	now := time.Now().UTC()
	return mdb.updateSyncTask(ctx, id, bson.M{
		"$set": bson.M{
			"status":                SyncTaskResolved,
			"remote_reservation_id": remoteReservationID,
			"resolved_at":           now,
			"updated_at":            now,
		},
		"$unset": bson.M{"lease_until": ""},
		"$inc":   bson.M{"attempts": 1},
	})
}

func (mdb *MongodbRepo) updateSyncTask(ctx context.Context, id string, update bson.M) error {
	col, err := mdb.GetCollection(ctx, SyncTasksColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid sync task id: %v", err)
	}

	res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("error updating sync task: %v", err)
	}
	if res.MatchedCount == 0 {
		return ErrSyncTaskNotFound
	}
	return nil
}
