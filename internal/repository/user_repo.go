package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go-shop-api/internal/database"
	"go-shop-api/internal/model"
)

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(m *database.Mongo) *MongoUserRepository {
	return &MongoUserRepository{col: m.Collection(database.ColUsers)}
}

// live excludes soft-deleted users.
func live(filter bson.D) bson.D {
	return append(filter, bson.E{Key: "deleted", Value: bson.D{{Key: "$ne", Value: true}}})
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		err = wrapError(err)
		if errors.Is(err, model.ErrDuplicate) {
			return model.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, live(bson.D{{Key: "_id", Value: id}}), model.ErrUserNotFound)
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.col, live(bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}}), model.ErrUserNotFound)
}

func (r *MongoUserRepository) FindByResetToken(ctx context.Context, resetToken string) (*model.User, error) {
	if resetToken == "" {
		return nil, model.ErrUserNotFound
	}
	return findOne[model.User](ctx, r.col, live(bson.D{{Key: "resetToken", Value: resetToken}}), model.ErrUserNotFound)
}

func (r *MongoUserRepository) ExistsByEmailOrUserName(ctx context.Context, email string, userName string) (bool, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}},
		bson.D{{Key: "userName", Value: strings.TrimSpace(userName)}},
	}}}

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", wrapError(err))
	}
	return n > 0, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	users, err := findMany[model.User](ctx, r.col, live(bson.D{}), opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) Search(ctx context.Context, query string) ([]*model.User, error) {
	users, err := findMany[model.User](ctx, r.col, live(textSearch(query)))
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	return updateFields(ctx, r.col, id, bson.D{
		{Key: "suspended", Value: suspended},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}, model.ErrUserNotFound)
}

func (r *MongoUserRepository) SetResetToken(ctx context.Context, id string, resetToken string) error {
	return updateFields(ctx, r.col, id, bson.D{
		{Key: "resetToken", Value: resetToken},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}, model.ErrUserNotFound)
}

func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password", Value: passwordHash},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}},
		{Key: "$unset", Value: bson.D{{Key: "resetToken", Value: ""}}},
	})
	if err != nil {
		return fmt.Errorf("update password: %w", wrapError(err))
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
