package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go-shop-api/internal/database"
	"go-shop-api/internal/model"
)

// MongoBlacklist stores revoked tokens. Expiry is enforced by the TTL index
// on createdAt, not by this type.
type MongoBlacklist struct {
	col *mongo.Collection
}

func NewMongoBlacklist(m *database.Mongo) *MongoBlacklist {
	return &MongoBlacklist{col: m.Collection(database.ColBlacklistedTokens)}
}

// Add is idempotent: blacklisting a token twice is not an error.
func (b *MongoBlacklist) Add(ctx context.Context, token string) error {
	_, err := b.col.InsertOne(ctx, model.BlacklistedToken{Token: token, CreatedAt: time.Now().UTC()})
	if err = wrapError(err); err != nil && !errors.Is(err, model.ErrDuplicate) {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *MongoBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	n, err := b.col.CountDocuments(ctx, bson.D{{Key: "token", Value: token}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}
