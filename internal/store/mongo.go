package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/quietnest/noise-event-service/internal/models"
)

const readingsCollection = "noise_readings"

// MongoStore backs the reading collection with a MongoDB document
// collection, matching the document-store semantics of the original
// deployment.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects, verifies reachability and ensures the indexes
// that serve device- and time-filtered queries.
func NewMongoStore(uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach MongoDB: %w", err)
	}

	collection := client.Database(database).Collection(readingsCollection)

	indexModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "deviceId", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "timestamp", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return &MongoStore{client: client, collection: collection}, nil
}

// mongoFilter translates a Filter into a find/count/delete predicate.
func mongoFilter(f Filter) bson.M {
	q := bson.M{}
	if f.DeviceID != "" {
		q["deviceId"] = f.DeviceID
	}
	if !f.Before.IsZero() {
		q["timestamp"] = bson.M{"$lt": f.Before}
	}
	return q
}

func (m *MongoStore) Insert(ctx context.Context, r models.Reading) error {
	_, err := m.collection.InsertOne(ctx, r)
	return err
}

func (m *MongoStore) Query(ctx context.Context, f Filter, limit int) ([]models.Reading, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := m.collection.Find(ctx, mongoFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Reading
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoStore) Count(ctx context.Context, f Filter) (int64, error) {
	return m.collection.CountDocuments(ctx, mongoFilter(f))
}

func (m *MongoStore) DeleteByID(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := m.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = m.client.Disconnect(ctx)
}
