// Package seed loads sample products and accounts into an empty store so a
// fresh deployment can be exercised straight away.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/repository"
)

type passwordHasher interface {
	Hash(password string) (string, error)
}

type Seeder struct {
	users    repository.UserRepository
	products repository.ProductRepository
	hasher   passwordHasher
	password string
	now      func() time.Time
}

// New returns a seeder whose accounts share password.
func New(users repository.UserRepository, products repository.ProductRepository, hasher passwordHasher, password string) *Seeder {
	return &Seeder{
		users:    users,
		products: products,
		hasher:   hasher,
		password: password,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run inserts the sample data. Each collection is only seeded while empty, so
// repeated starts leave existing data untouched.
func (s *Seeder) Run(ctx context.Context) error {
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if productCount == 0 {
		for _, p := range s.sampleProducts() {
			if err := s.products.Create(ctx, p); err != nil {
				return fmt.Errorf("seed: create product %s: %w", p.SKU, err)
			}
		}
		slog.InfoContext(ctx, "seeded products", "count", 2)
	}

	userCount, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	hash, err := s.hasher.Hash(s.password)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	for _, u := range s.sampleUsers(hash) {
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed: create user %s: %w", u.UserName, err)
		}
	}
	slog.InfoContext(ctx, "seeded users", "count", 2)

	return nil
}

func ptr[T any](v T) *T { return &v }

func (s *Seeder) sampleProducts() []*model.Product {
	now := s.now()
	return []*model.Product{
		{
			ID:           repository.NewID(),
			Name:         "Product 1",
			Description:  "This is the first product",
			Category:     "Category 1",
			Subcategory:  "Subcategory 1",
			Price:        10.99,
			SalePrice:    ptr(9.99),
			Stock:        100,
			SKU:          "PRD1",
			Images:       []string{"https://example.com/image1.jpg"},
			IsFeatured:   true,
			IsPublished:  true,
			Rating:       4.5,
			TotalReviews: 10,
			Tags:         []string{"Tag 1", "Tag 2"},
			Brand:        "Brand 1",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           repository.NewID(),
			Name:         "Product 2",
			Description:  "This is the second product",
			Category:     "Category 1",
			Subcategory:  "Subcategory 2",
			Price:        20.99,
			SalePrice:    ptr(18.99),
			Stock:        50,
			SKU:          "PRD2",
			Images:       []string{"https://example.com/image2.jpg"},
			IsPublished:  true,
			Rating:       3.5,
			TotalReviews: 5,
			Tags:         []string{"Tag 1", "Tag 3"},
			Brand:        "Brand 2",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

func (s *Seeder) sampleUsers(hash string) []*model.User {
	now := s.now()
	return []*model.User{
		{
			ID:           repository.NewID(),
			UserName:     "JohnDoe",
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "john.doe@example.com",
			PasswordHash: hash,
			PhoneNumber:  "123456789",
			Role:         permission.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           repository.NewID(),
			UserName:     "JaneDoe",
			FirstName:    "Jane",
			LastName:     "Doe",
			Email:        "jane.doe@example.com",
			PasswordHash: hash,
			PhoneNumber:  "987654321",
			Role:         permission.RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}
