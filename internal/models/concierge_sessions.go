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

const (
	ConciergeColName = "concierge_sessions"
	// MaxChatHistory bounds how many messages are kept per session.
	MaxChatHistory = 40
)

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

type ChatMessage struct {
	Role string    `bson:"role" json:"role" validate:"required,oneof=user model"`
	Text string    `bson:"text" json:"text" validate:"required"`
	At   time.Time `bson:"at" json:"at"`
}

type ConciergeSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Messages  []ChatMessage      `bson:"messages" json:"messages"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ConciergeRepo interface {
	GetChatHistory(ctx context.Context, sessionID string) ([]ChatMessage, error)
	AppendChatMessages(ctx context.Context, sessionID string, msgs ...ChatMessage) error
}

func (mdb *MongodbRepo) GetChatHistory(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	col, err := mdb.GetCollection(ctx, ConciergeColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var s ConciergeSession
	err = col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []ChatMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding concierge session: %v", err)
	}
	return s.Messages, nil
}

func (mdb *MongodbRepo) AppendChatMessages(ctx context.Context, sessionID string, msgs ...ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	col, err := mdb.GetCollection(ctx, ConciergeColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{
			"messages": bson.M{
				"$each":  msgs,
				"$slice": -MaxChatHistory,
			},
		},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"session_id": sessionID,
			"created_at": now,
		},
	}

	_, err = col.UpdateOne(ctx, bson.M{"session_id": sessionID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error appending concierge messages: %v", err)
	}
	return nil
}
