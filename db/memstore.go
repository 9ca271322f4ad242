package db

import (
	"context"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/errs"
)

// MemStore is an in-memory Store used by the test suites and for running
// the backend without a database. Documents are held as bson maps in
// insertion order; only the filter shapes the services actually issue are
// supported: field equality and $in.
type MemStore struct {
	mu          sync.Mutex
	collections map[string][]bson.M
}

func NewMemStore() *MemStore {
	return &MemStore{collections: make(map[string][]bson.M)}
}

func (s *MemStore) FindByID(ctx context.Context, collection string, id primitive.ObjectID, out any) error {
	return s.FindOne(ctx, collection, bson.M{"_id": id}, out)
}

func (s *MemStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			return decodeDoc(doc, out)
		}
	}
	return errs.NotFound(collection + " document")
}

func (s *MemStore) Find(ctx context.Context, collection string, filter bson.M, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []bson.M
	for _, doc := range s.collections[collection] {
		if matchFilter(doc, filter) {
			matched = append(matched, doc)
		}
	}

	outValue := reflect.ValueOf(out).Elem()
	result := reflect.MakeSlice(outValue.Type(), 0, len(matched))
	for _, doc := range matched {
		element := reflect.New(outValue.Type().Elem())
		if err := decodeDoc(doc, element.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, element.Elem())
	}
	outValue.Set(result)
	return nil
}

func (s *MemStore) Insert(ctx context.Context, collection string, doc any) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := encodeDoc(doc)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := raw["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		raw["_id"] = id
	}

	s.collections[collection] = append(s.collections[collection], raw)
	return id, nil
}

func (s *MemStore) Replace(ctx context.Context, collection string, filter bson.M, doc any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.collections[collection] {
		if matchFilter(existing, filter) {
			raw, err := encodeDoc(doc)
			if err != nil {
				return 0, err
			}
			if _, ok := raw["_id"]; !ok {
				raw["_id"] = existing["_id"]
			}
			s.collections[collection][i] = raw
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemStore) DeleteByID(ctx context.Context, collection string, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if doc["_id"] == id {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return errs.NotFound(collection + " document")
}

func encodeDoc(doc any) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var raw bson.M
	if err := bson.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeDoc(doc bson.M, out any) error {
	data, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

func matchFilter(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		got := doc[key]
		if operator, ok := want.(bson.M); ok {
			in, ok := operator["$in"]
			if !ok || !matchIn(got, in) {
				return false
			}
			continue
		}
		if !looseEqual(got, want) {
			return false
		}
	}
	return true
}

// matchIn mirrors Mongo's $in: a scalar field matches when it equals any
// element, an array field when it intersects the list.
func matchIn(got, list any) bool {
	values := reflect.ValueOf(list)
	if values.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < values.Len(); i++ {
		want := values.Index(i).Interface()
		if array, ok := got.(primitive.A); ok {
			for _, element := range array {
				if looseEqual(element, want) {
					return true
				}
			}
			continue
		}
		if looseEqual(got, want) {
			return true
		}
	}
	return false
}

// looseEqual compares across the integer widths bson decoding produces.
func looseEqual(got, want any) bool {
	if got == want {
		return true
	}
	gotValue, wantValue := reflect.ValueOf(got), reflect.ValueOf(want)
	if !gotValue.IsValid() || !wantValue.IsValid() {
		return false
	}
	if isInt(gotValue) && isInt(wantValue) {
		return gotValue.Int() == wantValue.Int()
	}
	return reflect.DeepEqual(got, want)
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
