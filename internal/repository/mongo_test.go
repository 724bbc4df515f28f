package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-shop-api/internal/database"
	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
)

var (
	_ UserRepository    = (*MongoUserRepository)(nil)
	_ ProductRepository = (*MongoProductRepository)(nil)
	_ Blacklist         = (*MongoBlacklist)(nil)
	_ Blacklist         = (*RedisBlacklist)(nil)
	_ AuditRepository   = (*PostgresAuditRepository)(nil)
)

// testMongo connects to MONGO_TEST_URI with a throwaway database, skipping
// when no server is configured.
func testMongo(t *testing.T) *database.Mongo {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	m, err := database.NewMongo(ctx, uri, "shop_test_"+NewID())
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	require.NoError(t, m.EnsureIndexes(ctx, time.Hour))

	t.Cleanup(func() {
		_ = m.Collection(database.ColUsers).Database().Drop(context.Background())
		_ = m.Close()
	})

	return m
}

func newUser(email string, userName string) *model.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.User{
		ID:           NewID(),
		UserName:     userName,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "hash",
		PhoneNumber:  "123",
		Role:         permission.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestMongoUserRepository(t *testing.T) {
	m := testMongo(t)
	repo := NewUserRepository(m)
	ctx := context.Background()

	user := newUser("jane@example.com", "JaneDoe")
	require.NoError(t, repo.Create(ctx, user))
	require.ErrorIs(t, repo.Create(ctx, newUser("jane@example.com", "Other")), model.ErrUserAlreadyExists)

	got, err := repo.FindByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	exists, err := repo.ExistsByEmailOrUserName(ctx, "nobody@example.com", "JaneDoe")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.SetSuspended(ctx, user.ID, true))
	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Suspended)

	require.NoError(t, repo.SetResetToken(ctx, user.ID, "reset-me"))
	got, err = repo.FindByResetToken(ctx, "reset-me")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
	_, err = repo.FindByResetToken(ctx, "reset-me")
	require.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = repo.FindByID(ctx, NewID())
	require.ErrorIs(t, err, model.ErrUserNotFound)
	require.ErrorIs(t, repo.SetSuspended(ctx, NewID(), true), model.ErrUserNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMongoProductRepository(t *testing.T) {
	m := testMongo(t)
	repo := NewProductRepository(m)
	ctx := context.Background()

	p := &model.Product{
		ID:          NewID(),
		Name:        "Espresso Machine",
		Description: "Brews espresso at home",
		Category:    "Kitchen",
		Price:       199.5,
		Stock:       4,
		SKU:         "ESP-1",
		Images:      []string{},
		Tags:        []string{"coffee"},
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Create(ctx, p))

	dup := *p
	dup.ID = NewID()
	require.ErrorIs(t, repo.Create(ctx, &dup), model.ErrDuplicateSKU)

	found, err := repo.Search(ctx, "espresso")
	require.NoError(t, err)
	require.Len(t, found, 1)

	p.Price = 149
	require.NoError(t, repo.Update(ctx, p))
	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 149.0, got.Price)

	require.NoError(t, repo.Delete(ctx, p.ID))
	require.ErrorIs(t, repo.Delete(ctx, p.ID), model.ErrProductNotFound)
	_, err = repo.FindByID(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestMongoBlacklist(t *testing.T) {
	m := testMongo(t)
	bl := NewMongoBlacklist(m)
	ctx := context.Background()

	ok, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, bl.Add(ctx, "tok"))
	require.NoError(t, bl.Add(ctx, "tok"))

	ok, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIDs(t *testing.T) {
	t.Parallel()

	id := NewID()
	require.Len(t, id, 24)
	require.True(t, ValidID(id))
	require.False(t, ValidID("not-an-id"))
	require.False(t, ValidID(""))
}
