package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers             = "users"
	ColProducts          = "products"
	ColBlacklistedTokens = "blacklisted_tokens"
)

// Mongo is the document store holding users, products and the token
// blacklist.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongo(ctx context.Context, uri string, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping failed: %w", err)
	}

	slog.Info("document store connected", "database", dbName)
	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

func (m *Mongo) Health(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique, text and TTL indexes. The TTL index on
// blacklisted tokens purges entries retention after they were recorded.
func (m *Mongo) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	type idx struct {
		col   string
		model mongo.IndexModel
	}

	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	indexes := []idx{
		// users
		{ColUsers, unique("email")},
		{ColUsers, unique("userName")},
		{ColUsers, mongo.IndexModel{Keys: bson.D{
			{Key: "userName", Value: "text"},
			{Key: "email", Value: "text"},
			{Key: "firstName", Value: "text"},
			{Key: "lastName", Value: "text"},
		}}},

		// products
		{ColProducts, unique("sku")},
		{ColProducts, mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}}}},
		{ColProducts, mongo.IndexModel{Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "category", Value: "text"},
			{Key: "brand", Value: "text"},
			{Key: "tags", Value: "text"},
		}}},

		// blacklisted_tokens
		{ColBlacklistedTokens, unique("token")},
		{ColBlacklistedTokens, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention / time.Second)),
		}},
	}

	for _, i := range indexes {
		if _, err := m.Collection(i.col).Indexes().CreateOne(ctx, i.model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
