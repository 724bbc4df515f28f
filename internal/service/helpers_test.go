package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/token"
	"go-shop-api/pkg/apierror"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func testIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer(map[token.Purpose]token.Config{
		token.Access:  {Secret: "access", TTL: time.Hour},
		token.Refresh: {Secret: "refresh", TTL: 7 * 24 * time.Hour},
		token.Reset:   {Secret: "reset", TTL: time.Hour},
	})
	require.NoError(t, err)
	return issuer
}

func testHasher() PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

func testUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := testHasher().Hash(password)
	require.NoError(t, err)
	return &model.User{
		ID:           repository.NewID(),
		UserName:     "JaneDoe",
		Email:        "jane@example.com",
		PasswordHash: hash,
		Role:         permission.RoleUser,
	}
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.HTTPStatus)
	if message != "" {
		require.Equal(t, message, apiErr.Message)
	}
}
