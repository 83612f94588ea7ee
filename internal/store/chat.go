package store

import (
	"context"
	"fmt"

	"edubot-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ChatStore wraps the "chat_history" collection.
type ChatStore struct {
	coll *mongo.Collection
}

func NewChatStore(db *mongo.Database) *ChatStore {
	return &ChatStore{coll: db.Collection("chat_history")}
}

// Append stores one chat exchange. The caller waits for the write to finish
// before answering the HTTP request.
func (s *ChatStore) Append(ctx context.Context, rec *models.ChatRecord) error {
	res, err := s.coll.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("insert chat record: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		rec.ID = id
	}
	return nil
}

// Recent returns the latest n exchanges, newest first. Not exposed over HTTP;
// used by the checkdb tool.
func (s *ChatStore) Recent(ctx context.Context, n int64) ([]models.ChatRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(n)
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find chat records: %w", err)
	}
	defer cur.Close(ctx)

	var records []models.ChatRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode chat records: %w", err)
	}
	return records, nil
}
