package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rsvpd/entity"
	"rsvpd/internal/config"
)

const collectionActivity = "activity"

// MongoDB is the activity journal. The client connects on first use and is
// reused until Close.
type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
	mu            sync.Mutex
	client        *mongo.Client
}

// NewMongoClient returns nil when the journal is disabled.
func NewMongoClient(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().
		ApplyURI(connectionUri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	return &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		return m.client, nil
	}
	client, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	m.client = client
	return client, nil
}

func (m *MongoDB) Close(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client != nil {
		_ = m.client.Disconnect(ctx)
		m.client = nil
	}
}

// Record appends one activity document.
func (m *MongoDB) Record(ctx context.Context, activity *entity.Activity) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	collection := connection.Database(m.database).Collection(collectionActivity)
	if _, err = collection.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}
	return nil
}

// RecentActivity returns the latest activities, newest first.
func (m *MongoDB) RecentActivity(ctx context.Context, limit int64) ([]*entity.Activity, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	collection := connection.Database(m.database).Collection(collectionActivity)
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	defer cursor.Close(ctx)

	activities := make([]*entity.Activity, 0, limit)
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("mongodb decode: %w", err)
	}
	return activities, nil
}
