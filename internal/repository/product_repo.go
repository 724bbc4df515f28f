package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"go-shop-api/internal/database"
	"go-shop-api/internal/model"
)

type MongoProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(m *database.Mongo) *MongoProductRepository {
	return &MongoProductRepository{col: m.Collection(database.ColProducts)}
}

func duplicateSKU(err error) error {
	err = wrapError(err)
	if errors.Is(err, model.ErrDuplicate) {
		return model.ErrDuplicateSKU
	}
	return err
}

func (r *MongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("create product: %w", duplicateSKU(err))
	}
	return nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return findOne[model.Product](ctx, r.col, bson.D{{Key: "_id", Value: id}}, model.ErrProductNotFound)
}

func (r *MongoProductRepository) List(ctx context.Context) ([]*model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	products, err := findMany[model.Product](ctx, r.col, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *MongoProductRepository) Search(ctx context.Context, query string) ([]*model.Product, error) {
	products, err := findMany[model.Product](ctx, r.col, textSearch(query))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// Update replaces the stored document, keeping its id.
func (r *MongoProductRepository) Update(ctx context.Context, product *model.Product) error {
	res, err := r.col.ReplaceOne(ctx, bson.D{{Key: "_id", Value: product.ID}}, product)
	if err != nil {
		return fmt.Errorf("update product: %w", duplicateSKU(err))
	}
	if res.MatchedCount == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete product: %w", wrapError(err))
	}
	if res.DeletedCount == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
