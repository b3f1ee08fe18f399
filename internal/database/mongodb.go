package database

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollectionUsers       = "users"
	CollectionThreads     = "threads"
	CollectionCommunities = "communities"
)

// Mongo holds the document store client and its collections.
type Mongo struct {
	client      *mongo.Client
	db          *mongo.Database
	Users       *mongo.Collection
	Threads     *mongo.Collection
	Communities *mongo.Collection
}

// NewMongo connects, pings and ensures indexes.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to ping MongoDB: %w", err)
	}

	m := WrapMongo(client.Database(database))
	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("unable to create indexes: %w", err)
	}

	log.WithField("database", database).Info("MongoDB connection established")
	return m, nil
}

// WrapMongo builds a Mongo around an existing database handle without touching indexes.
func WrapMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		client:      db.Client(),
		db:          db,
		Users:       db.Collection(CollectionUsers),
		Threads:     db.Collection(CollectionThreads),
		Communities: db.Collection(CollectionCommunities),
	}
}

// Client returns the underlying client, used to start sessions.
func (m *Mongo) Client() *mongo.Client {
	return m.client
}

func (m *Mongo) createIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "auth_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	if _, err := m.Users.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	threadIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "parent_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "author", Value: 1}},
		},
	}
	if _, err := m.Threads.Indexes().CreateMany(ctx, threadIndexes); err != nil {
		return fmt.Errorf("failed to create threads indexes: %w", err)
	}

	communityIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := m.Communities.Indexes().CreateMany(ctx, communityIndexes); err != nil {
		return fmt.Errorf("failed to create communities indexes: %w", err)
	}

	return nil
}

// Ping checks if the connection is alive
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Disconnect closes the MongoDB connection
func (m *Mongo) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	log.Info("MongoDB connection closed")
	return nil
}
