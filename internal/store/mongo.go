package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openheartlab/openheart-backend/internal/models"
)

// MongoStore implements the same contract as FileStore against a MongoDB
// collection, for deployments that need multi-process access. Ids stay opaque
// strings: the generated id is written as _id directly, so documents keep one
// shape on both backends.
type MongoStore[T any, PT Record[T]] struct {
	coll *mongo.Collection
}

// NewMongoStore wraps the named collection of db.
func NewMongoStore[T any, PT Record[T]](db *mongo.Database, name string) *MongoStore[T, PT] {
	return &MongoStore[T, PT]{coll: db.Collection(name)}
}

// Create validates the document, assigns an id and timestamps, and inserts it.
func (s *MongoStore[T, PT]) Create(ctx context.Context, doc T) (T, error) {
	var zero T
	p := PT(&doc)
	if err := p.Validate(); err != nil {
		return zero, &ValidationError{Reason: err.Error()}
	}
	p.SetID(primitive.NewObjectID().Hex())
	p.Stamp(time.Now().UTC())

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return zero, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *MongoStore[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero T
		return zero, ErrNotFound
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

// Update merges patch onto the stored document, re-validates and replaces it.
func (s *MongoStore[T, PT]) Update(ctx context.Context, id string, patch models.Patch) (T, error) {
	var zero T
	doc, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	p := PT(&doc)
	if err := p.ApplyPatch(patch); err != nil {
		return zero, &ValidationError{Reason: err.Error()}
	}
	if err := p.Validate(); err != nil {
		return zero, &ValidationError{Reason: err.Error()}
	}
	p.Stamp(time.Now().UTC())

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return zero, fmt.Errorf("replace document: %w", err)
	}
	if res.MatchedCount == 0 {
		return zero, ErrNotFound
	}
	return doc, nil
}

// Remove deletes the document with the given id; an unknown id reports
// (false, nil).
func (s *MongoStore[T, PT]) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// List returns the full collection, newest first.
func (s *MongoStore[T, PT]) List(ctx context.Context) ([]T, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

// Stats pushes the aggregation into a $group pipeline and normalizes the
// result to the same six-label, 3-decimal shape the single-pass reference
// produces.
func (s *MongoStore[T, PT]) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Stats{}, fmt.Errorf("count documents: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$label",
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$confidence"},
		}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Stats{}, fmt.Errorf("aggregate documents: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Label models.Label `bson:"_id"`
		Count int          `bson:"count"`
		Avg   float64      `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.Stats{}, fmt.Errorf("decode aggregation: %w", err)
	}

	counts := make(map[models.Label]int, len(models.Labels))
	avgs := make(map[models.Label]float64, len(models.Labels))
	for _, l := range models.Labels {
		counts[l] = 0
		avgs[l] = 0
	}
	for _, row := range rows {
		if _, ok := counts[row.Label]; !ok {
			continue
		}
		counts[row.Label] = row.Count
		avgs[row.Label] = round3(row.Avg)
	}

	return models.Stats{
		Total:                int(total),
		CountsByLabel:        counts,
		AvgConfidenceByLabel: avgs,
	}, nil
}
