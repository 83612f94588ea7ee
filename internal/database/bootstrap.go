package database

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureCollections creates the users and chat_history collections if they
// are missing and puts a unique index on users.email, so duplicate
// registrations are rejected by storage instead of only by the handler's
// read-then-write check.
func EnsureCollections(ctx context.Context, m *Mongo) error {
	names, err := m.DB.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	for _, name := range []string{"users", "chat_history"} {
		if slices.Contains(names, name) {
			continue
		}
		if err := m.DB.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}

	_, err = m.DB.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}
