package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/repository"
)

func TestSetSuspended(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	admin := model.Actor{UserID: "admin-id", Role: "admin"}

	t.Run("invalid id", func(t *testing.T) {
		users := &repository.MockUserRepository{}
		svc := NewUserService(users, nil)

		_, err := svc.SetSuspended(ctx, admin, "not-an-id", true)
		requireAPIError(t, err, http.StatusBadRequest, "Invalid user ID.")
		users.AssertNotCalled(t, "SetSuspended")
	})

	t.Run("unknown user", func(t *testing.T) {
		users := &repository.MockUserRepository{}
		svc := NewUserService(users, nil)
		id := repository.NewID()
		users.On("SetSuspended", ctx, id, true).Return(model.ErrUserNotFound)

		_, err := svc.SetSuspended(ctx, admin, id, true)
		requireAPIError(t, err, http.StatusNotFound, "User not found.")
	})

	t.Run("suspend and unsuspend messages", func(t *testing.T) {
		users := &repository.MockUserRepository{}
		events := &recordingPublisher{}
		svc := NewUserService(users, events)
		id := repository.NewID()
		users.On("SetSuspended", ctx, id, true).Return(nil)
		users.On("SetSuspended", ctx, id, false).Return(nil)

		msg, err := svc.SetSuspended(ctx, admin, id, true)
		require.NoError(t, err)
		require.Equal(t, "User has been suspended.", msg)

		msg, err = svc.SetSuspended(ctx, admin, id, false)
		require.NoError(t, err)
		require.Equal(t, "User has been unsuspended.", msg)

		require.Equal(t, []event.Type{event.TypeUserSuspended, event.TypeUserUnsuspended}, events.types())
	})
}

func TestUserListAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	all := []*model.User{
		{ID: repository.NewID(), UserName: "zed", Role: permission.RoleUser, PasswordHash: "h1", CreatedAt: base},
		{ID: repository.NewID(), UserName: "amy", Role: permission.RoleAdmin, PasswordHash: "h2", CreatedAt: base.Add(time.Hour)},
		{ID: repository.NewID(), UserName: "bob", Role: permission.RoleUser, PasswordHash: "h3", CreatedAt: base.Add(2 * time.Hour)},
	}

	users := &repository.MockUserRepository{}
	users.On("List", ctx).Return(all, nil)
	users.On("Search", ctx, "amy").Return(all[1:2], nil)
	users.On("FindByID", ctx, all[0].ID).Return(all[0], nil)
	svc := NewUserService(users, nil)

	page, err := svc.List(ctx, model.ListQuery{Page: 1, PageSize: 10, SortBy: "userName", FilterBy: map[string]any{"role": "user"}})
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	require.Equal(t, "bob", page.Items[0].UserName)
	require.Equal(t, "zed", page.Items[1].UserName)

	found, err := svc.List(ctx, model.ListQuery{Query: " amy ", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	profile, err := svc.Get(ctx, all[0].ID)
	require.NoError(t, err)
	require.Equal(t, "zed", profile.UserName)

	_, err = svc.Get(ctx, "bad")
	requireAPIError(t, err, http.StatusBadRequest, "Invalid user ID.")
}
