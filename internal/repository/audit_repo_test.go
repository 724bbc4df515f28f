package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"go-shop-api/internal/database"
	"go-shop-api/internal/model"
)

func TestPostgresAuditRepository(t *testing.T) {
	url := os.Getenv("AUDIT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("AUDIT_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, url, 2, 0)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))

	repo := NewAuditRepository(db.Pool)
	actor := "actor-" + NewID()

	require.NoError(t, repo.Log(ctx, model.AuditEntry{
		Action:   "product.created",
		ActorID:  actor,
		Status:   model.AuditSuccess,
		Resource: "products/1",
		Details:  map[string]any{"sku": "SKU-1"},
	}))
	require.NoError(t, repo.Log(ctx, model.AuditEntry{
		Action:  "product.deleted",
		ActorID: actor,
		Status:  model.AuditSuccess,
	}))

	entries, total, err := repo.Query(ctx, model.AuditFilter{ActorID: actor, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, entries, 2)
	require.Equal(t, "product.deleted", entries[0].Action)

	entries, total, err = repo.Query(ctx, model.AuditFilter{ActorID: actor, Action: "PRODUCT.CREATED"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "SKU-1", entries[0].Details["sku"])
}
