package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a MongoDB client, verifies the connection and returns the
// backend database handle.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, nil, fmt.Errorf("mongodb ping failed: %w", err)
	}
	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the unique indexes the data model relies on:
// usernames, emails and group names are unique across the system.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := func(collection, field string) error {
		indexModel := mongo.IndexModel{
			Keys:    bson.M{field: 1},
			Options: options.Index().SetUnique(true),
		}
		_, err := database.Collection(collection).Indexes().CreateOne(ctx, indexModel)
		if err != nil {
			return fmt.Errorf("failed to create unique index on %s.%s: %w", collection, field, err)
		}
		return nil
	}

	if err := unique(CollUsers, "username"); err != nil {
		return err
	}
	if err := unique(CollUsers, "email"); err != nil {
		return err
	}
	return unique(CollGroups, "name")
}
