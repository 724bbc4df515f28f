// Package repository holds the storage adapters behind the services: MongoDB
// for users, products and the token blacklist, Redis as an alternative
// blacklist, and Postgres for the audit trail.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"go-shop-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, resetToken string) (*model.User, error)
	ExistsByEmailOrUserName(ctx context.Context, email string, userName string) (bool, error)
	List(ctx context.Context) ([]*model.User, error)
	Search(ctx context.Context, query string) ([]*model.User, error)
	SetSuspended(ctx context.Context, id string, suspended bool) error
	SetResetToken(ctx context.Context, id string, resetToken string) error
	// UpdatePassword stores a new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	Search(ctx context.Context, query string) ([]*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// Blacklist records tokens that must be rejected until they age out.
type Blacklist interface {
	Add(ctx context.Context, token string) error
	Contains(ctx context.Context, token string) (bool, error)
}

type AuditRepository interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, int, error)
}

// NewID returns a fresh document id in its 24 character hex form.
func NewID() string {
	return bson.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed document id.
func ValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
