package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Uniform document operations over named collections. Every write stamps
// created_at/updated_at server-side so individual handlers never have to.

// AddDoc inserts doc with a generated string id and write timestamps,
// returning the new id. The doc's own zero _id is replaced.
func AddDoc(ctx context.Context, coll *mongo.Collection, doc any) (string, error) {
	m, err := toMap(doc)
	if err != nil {
		return "", err
	}

	id, _ := m["_id"].(string)
	if id == "" {
		id = uuid.NewString()
		m["_id"] = id
	}
	now := time.Now()
	m["created_at"] = now
	m["updated_at"] = now

	if _, err := coll.InsertOne(ctx, m); err != nil {
		return "", err
	}
	return id, nil
}

// AddDocs batch-inserts docs, returning the generated ids in order.
// The insert is ordered: a failure stops at the first bad document.
func AddDocs(ctx context.Context, coll *mongo.Collection, docs []any) ([]string, error) {
	now := time.Now()
	ids := make([]string, 0, len(docs))
	prepared := make([]interface{}, 0, len(docs))

	for _, doc := range docs {
		m, err := toMap(doc)
		if err != nil {
			return nil, err
		}
		id, _ := m["_id"].(string)
		if id == "" {
			id = uuid.NewString()
			m["_id"] = id
		}
		m["created_at"] = now
		m["updated_at"] = now
		ids = append(ids, id)
		prepared = append(prepared, m)
	}

	if _, err := coll.InsertMany(ctx, prepared); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindDoc loads the document with the given id into out.
// Returns mongo.ErrNoDocuments when absent.
func FindDoc(ctx context.Context, coll *mongo.Collection, id string, out any) error {
	return coll.FindOne(ctx, bson.M{"_id": id}).Decode(out)
}

// QueryDocs loads every document matching filter into out (a slice pointer).
func QueryDocs(ctx context.Context, coll *mongo.Collection, filter bson.M, out any, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// UpdateDoc applies fields to the document with the given id and refreshes
// updated_at. Returns mongo.ErrNoDocuments when no document matched.
func UpdateDoc(ctx context.Context, coll *mongo.Collection, id string, fields bson.M) error {
	fields["updated_at"] = time.Now()
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteDoc removes the document with the given id. Deleting an absent
// document is not an error, matching the store's fire-and-forget semantics.
func DeleteDoc(ctx context.Context, coll *mongo.Collection, id string) error {
	_, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteDocs removes every document matching filter.
func DeleteDocs(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	_, err := coll.DeleteMany(ctx, filter)
	return err
}

// CountDocs counts documents matching filter.
func CountDocs(ctx context.Context, coll *mongo.Collection, filter bson.M) (int64, error) {
	return coll.CountDocuments(ctx, filter)
}

func toMap(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
