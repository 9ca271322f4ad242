package db

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lugerh/TaskTree-API/errs"
)

// Collection names used by the backend.
const (
	CollUsers    = "users"
	CollGroups   = "groups"
	CollProjects = "projects"
)

// Store is the document store contract the services are written against.
// Replace is a filtered whole-document overwrite and returns the number of
// matched documents, which is what the version-checked project save needs.
type Store interface {
	FindByID(ctx context.Context, collection string, id primitive.ObjectID, out any) error
	FindOne(ctx context.Context, collection string, filter bson.M, out any) error
	Find(ctx context.Context, collection string, filter bson.M, out any) error
	Insert(ctx context.Context, collection string, doc any) (primitive.ObjectID, error)
	Replace(ctx context.Context, collection string, filter bson.M, doc any) (int64, error)
	DeleteByID(ctx context.Context, collection string, id primitive.ObjectID) error
}

// MongoStore implements Store on a single MongoDB database. Every call goes
// through a circuit breaker so a struggling database trips fast instead of
// stacking up request handlers.
type MongoStore struct {
	database *mongo.Database
	breaker  *gobreaker.CircuitBreaker
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{
		database: database,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mongo-store",
			MaxRequests: 1,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}
}

func (s *MongoStore) FindByID(ctx context.Context, collection string, id primitive.ObjectID, out any) error {
	return s.FindOne(ctx, collection, bson.M{"_id": id}, out)
}

func (s *MongoStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	var notFound bool
	_, err := s.breaker.Execute(func() (any, error) {
		err := s.database.Collection(collection).FindOne(ctx, filter).Decode(out)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Absence is an answer, not a store failure; keep the breaker closed.
			notFound = true
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return errs.Store("find "+collection, err)
	}
	if notFound {
		return errs.NotFound(collection + " document")
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, filter bson.M, out any) error {
	_, err := s.breaker.Execute(func() (any, error) {
		cursor, err := s.database.Collection(collection).Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		return nil, cursor.All(ctx, out)
	})
	if err != nil {
		return errs.Store("find "+collection, err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.database.Collection(collection).InsertOne(ctx, doc)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, errs.ErrDuplicateName
		}
		return primitive.NilObjectID, errs.Store("insert "+collection, err)
	}
	id, ok := result.(*mongo.InsertOneResult).InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errs.Store("insert "+collection, errors.New("inserted id is not an ObjectID"))
	}
	return id, nil
}

func (s *MongoStore) Replace(ctx context.Context, collection string, filter bson.M, doc any) (int64, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.database.Collection(collection).ReplaceOne(ctx, filter, doc)
	})
	if err != nil {
		return 0, errs.Store("replace "+collection, err)
	}
	return result.(*mongo.UpdateResult).MatchedCount, nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, collection string, id primitive.ObjectID) error {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.database.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return errs.Store("delete "+collection, err)
	}
	if result.(*mongo.DeleteResult).DeletedCount == 0 {
		return errs.NotFound(collection + " document")
	}
	return nil
}
