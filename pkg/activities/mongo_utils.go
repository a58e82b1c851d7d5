package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// ErrInvalidTimestamp is returned when a recorded activity carries an unparsable createdAt
var ErrInvalidTimestamp = errors.New("invalid createdAt timestamp")

// Store lists and records activity records
//
//go:generate mockgen -destination=mock_store.go -package=activities github.com/mouradhm/migrations-dashboard/pkg/activities Store
type Store interface {
	ListActivities(ctx context.Context, limit int64) ([]models.ActivityRecord, error)
	RecordActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityRecord, error)
}

// MongoStore keeps activity records in a MongoDB collection
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

// storedActivity is the BSON shape of an activity. _id may be an ObjectID or a string and
// createdAt a BSON date or a string, depending on which process wrote the document.
type storedActivity struct {
	ID        bson.RawValue           `bson:"_id"`
	CreatedAt bson.RawValue           `bson:"createdAt"`
	Payload   *models.ActivityPayload `bson:"payload,omitempty"`
}

// connectToMongoDB establishes a connection to MongoDB with the given URI
func connectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetConnectTimeout(10 * time.Second)

	// The dashboard API only reads small pages, a modest pool is enough
	clientOptions.SetMaxPoolSize(20)
	clientOptions.SetMinPoolSize(2)
	clientOptions.SetMaxConnIdleTime(30 * time.Second)
	clientOptions.SetRetryReads(true)
	clientOptions.SetRetryWrites(true)
	clientOptions.SetCompressors([]string{"snappy"})

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, nil
}

// ConnectMongoStore connects to uri and returns a store over dbName.collectionName
func ConnectMongoStore(ctx context.Context, uri, dbName, collectionName string) (*MongoStore, error) {
	client, err := connectToMongoDB(ctx, uri)
	if err != nil {
		return nil, err
	}

	store := NewMongoStore(client.Database(dbName).Collection(collectionName))
	store.client = client

	return store, nil
}

// NewMongoStore creates a store over an existing collection
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{
		collection: collection,
		now:        time.Now,
	}
}

// EnsureIndexes creates a descending index on createdAt
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create createdAt index: %w", err)
	}

	return nil
}

// sortKeyField holds createdAt converted to a date for ordering. Documents written by other
// processes may carry createdAt as an RFC 3339 string, and MongoDB orders strings after dates
// whatever their value, so sorting on the raw field would not be newest first.
const sortKeyField = "_createdAtSortKey"

// listPipeline orders activities newest first across date and string createdAt values.
// Unparsable strings convert to null and sort last.
func listPipeline(limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{
			{Key: sortKeyField, Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$createdAt"},
				{Key: "to", Value: "date"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: sortKeyField, Value: -1}}}},
	}

	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	return append(pipeline, bson.D{{Key: "$project", Value: bson.D{{Key: sortKeyField, Value: 0}}}})
}

// ListActivities returns up to limit records, newest first. A limit <= 0 returns everything.
func (s *MongoStore) ListActivities(ctx context.Context, limit int64) ([]models.ActivityRecord, error) {
	cursor, err := s.collection.Aggregate(ctx, listPipeline(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to execute aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.ActivityRecord, 0)
	for cursor.Next(ctx) {
		var doc storedActivity
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode activity: %w", err)
		}

		records = append(records, doc.toRecord())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return records, nil
}

// RecordActivity stores record, assigning an id and createdAt when they are missing
func (s *MongoStore) RecordActivity(ctx context.Context, record models.ActivityRecord) (models.ActivityRecord, error) {
	createdAt := s.now().UTC()

	if record.CreatedAt != "" {
		parsed, err := parseTimestamp(record.CreatedAt)
		if err != nil {
			return record, fmt.Errorf("%w: %q", ErrInvalidTimestamp, record.CreatedAt)
		}

		createdAt = parsed.UTC()
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	record.CreatedAt = createdAt.Format(time.RFC3339Nano)

	doc := bson.D{
		{Key: "_id", Value: record.ID},
		{Key: "createdAt", Value: createdAt},
	}
	if record.Payload != nil {
		doc = append(doc, bson.E{Key: "payload", Value: record.Payload})
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return record, fmt.Errorf("failed to insert activity: %w", err)
	}

	return record, nil
}

// Close disconnects the underlying client if the store owns one
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	return nil
}

func (d storedActivity) toRecord() models.ActivityRecord {
	record := models.ActivityRecord{Payload: d.Payload}

	switch d.ID.Type {
	case bson.TypeObjectID:
		record.ID = d.ID.ObjectID().Hex()
	case bson.TypeString:
		record.ID = d.ID.StringValue()
	}

	switch d.CreatedAt.Type {
	case bson.TypeDateTime:
		record.CreatedAt = d.CreatedAt.Time().UTC().Format(time.RFC3339Nano)
	case bson.TypeString:
		record.CreatedAt = d.CreatedAt.StringValue()
	}

	return record
}
