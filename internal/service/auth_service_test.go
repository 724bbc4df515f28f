package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/token"
)

type fakeNotifier struct {
	user  *model.User
	token string
}

func (n *fakeNotifier) SendResetToken(_ context.Context, user *model.User, resetToken string) error {
	n.user, n.token = user, resetToken
	return nil
}

type authFixture struct {
	users     *repository.MockUserRepository
	blacklist *repository.MockBlacklist
	tokens    *token.Issuer
	notifier  *fakeNotifier
	events    *recordingPublisher
	svc       *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:     &repository.MockUserRepository{},
		blacklist: &repository.MockBlacklist{},
		tokens:    testIssuer(t),
		notifier:  &fakeNotifier{},
		events:    &recordingPublisher{},
	}
	f.svc = NewAuthService(f.users, f.blacklist, f.tokens, testHasher(), f.notifier, f.events)
	return f
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("correct credentials return both tokens", func(t *testing.T) {
		f := newAuthFixture(t)
		user := testUser(t, "password1")
		f.users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)

		result, err := f.svc.Login(ctx, model.Actor{IP: "10.0.0.1"}, " Jane@Example.com ", "password1")
		require.NoError(t, err)
		require.Equal(t, user.ID, result.User.ID)
		require.Equal(t, "JaneDoe", result.User.UserName)

		access, err := f.tokens.Verify(token.Access, result.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, access.UserID)
		require.Equal(t, "user", access.Role)

		_, err = f.tokens.Verify(token.Refresh, result.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, []event.Type{event.TypeUserLoggedIn}, f.events.types())
	})

	t.Run("wrong password issues no tokens", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, "jane@example.com").Return(testUser(t, "password1"), nil)

		result, err := f.svc.Login(ctx, model.Actor{}, "jane@example.com", "nope")
		requireAPIError(t, err, http.StatusUnauthorized, "Invalid email or password.")
		require.Empty(t, result.AccessToken)
		require.Empty(t, result.RefreshToken)
		require.Empty(t, f.events.types())
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, model.ErrUserNotFound)

		_, err := f.svc.Login(ctx, model.Actor{}, "ghost@example.com", "password1")
		requireAPIError(t, err, http.StatusUnauthorized, "Invalid email or password.")
	})

	t.Run("suspended user is forbidden", func(t *testing.T) {
		f := newAuthFixture(t)
		user := testUser(t, "password1")
		user.Suspended = true
		f.users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)

		_, err := f.svc.Login(ctx, model.Actor{}, "jane@example.com", "password1")
		requireAPIError(t, err, http.StatusForbidden, "User account is suspended")
	})

	t.Run("store failure is not an auth failure", func(t *testing.T) {
		f := newAuthFixture(t)
		boom := errors.New("connection reset")
		f.users.On("FindByEmail", ctx, "jane@example.com").Return(nil, boom)

		_, err := f.svc.Login(ctx, model.Actor{}, "jane@example.com", "password1")
		require.ErrorIs(t, err, boom)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	req := model.RegisterRequest{
		Email:       "New@Example.com",
		UserName:    "newbie",
		Password:    "password1",
		FirstName:   "New",
		LastName:    "User",
		PhoneNumber: "555",
	}

	t.Run("creates a user with the default role", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("ExistsByEmailOrUserName", ctx, "new@example.com", "newbie").Return(false, nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" && u.Role == permission.RoleUser &&
				u.PasswordHash != "password1" && repository.ValidID(u.ID)
		})).Return(nil)

		result, err := f.svc.Register(ctx, model.Actor{}, req)
		require.NoError(t, err)
		require.Equal(t, permission.RoleUser, result.User.Role)
		require.NotEmpty(t, result.AccessToken)
		require.NotEmpty(t, result.RefreshToken)
		require.Equal(t, []event.Type{event.TypeUserRegistered}, f.events.types())
		f.users.AssertExpectations(t)
	})

	t.Run("duplicate email or username", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("ExistsByEmailOrUserName", ctx, "new@example.com", "newbie").Return(true, nil)

		_, err := f.svc.Register(ctx, model.Actor{}, req)
		requireAPIError(t, err, http.StatusBadRequest, "A user with the provided email or username already exists.")
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate detected on insert", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("ExistsByEmailOrUserName", ctx, "new@example.com", "newbie").Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(model.ErrUserAlreadyExists)

		_, err := f.svc.Register(ctx, model.Actor{}, req)
		requireAPIError(t, err, http.StatusBadRequest, "")
	})

	t.Run("admin role is honoured", func(t *testing.T) {
		f := newAuthFixture(t)
		adminReq := req
		adminReq.Role = "admin"
		f.users.On("ExistsByEmailOrUserName", ctx, "new@example.com", "newbie").Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(nil)

		result, err := f.svc.Register(ctx, model.Actor{}, adminReq)
		require.NoError(t, err)
		require.Equal(t, permission.RoleAdmin, result.User.Role)
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	access, err := f.svc.Refresh(model.Identity{ID: "64b000000000000000000001", Role: permission.RoleAdmin})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token.Access, access)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Role)
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("blacklists access and refresh tokens", func(t *testing.T) {
		f := newAuthFixture(t)
		user := testUser(t, "password1")
		refresh, err := f.tokens.Issue(token.Refresh, user.ID, "user")
		require.NoError(t, err)

		f.blacklist.On("Add", ctx, "access-token").Return(nil)
		f.blacklist.On("Add", ctx, refresh).Return(nil)

		require.NoError(t, f.svc.Logout(ctx, model.Actor{UserID: user.ID}, "access-token", refresh))
		f.blacklist.AssertExpectations(t)
		require.Equal(t, []event.Type{event.TypeTokenRevoked}, f.events.types())
	})

	t.Run("refresh token of another user is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		refresh, err := f.tokens.Issue(token.Refresh, "someone-else", "user")
		require.NoError(t, err)

		err = f.svc.Logout(ctx, model.Actor{UserID: "me"}, "access-token", refresh)
		requireAPIError(t, err, http.StatusBadRequest, "")
		f.blacklist.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("forgot then reset", func(t *testing.T) {
		f := newAuthFixture(t)
		user := testUser(t, "password1")
		f.users.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		f.users.On("SetResetToken", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, f.svc.ForgotPassword(ctx, model.Actor{}, "jane@example.com"))
		require.Equal(t, user.ID, f.notifier.user.ID)
		require.NotEmpty(t, f.notifier.token)

		f.users.On("FindByResetToken", ctx, f.notifier.token).Return(user, nil)
		f.users.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(hash string) bool {
			return testHasher().Compare(hash, "newpassword1")
		})).Return(nil)

		require.NoError(t, f.svc.ResetPassword(ctx, model.Actor{UserID: user.ID}, f.notifier.token, "newpassword1"))
		f.users.AssertExpectations(t)
		require.Equal(t, []event.Type{event.TypePasswordResetIssued, event.TypePasswordReset}, f.events.types())
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, "ghost@example.com").Return(nil, model.ErrUserNotFound)

		require.NoError(t, f.svc.ForgotPassword(ctx, model.Actor{}, "ghost@example.com"))
		require.Nil(t, f.notifier.user)
	})

	t.Run("forged reset token", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.ResetPassword(ctx, model.Actor{}, "forged", "newpassword1")
		requireAPIError(t, err, http.StatusNotFound, "Invalid or expired reset token.")
	})

	t.Run("access token is not a reset token", func(t *testing.T) {
		f := newAuthFixture(t)
		access, err := f.tokens.Issue(token.Access, "id", "user")
		require.NoError(t, err)

		err = f.svc.ResetPassword(ctx, model.Actor{}, access, "newpassword1")
		requireAPIError(t, err, http.StatusNotFound, "")
	})

	t.Run("valid token no longer stored", func(t *testing.T) {
		f := newAuthFixture(t)
		reset, err := f.tokens.Issue(token.Reset, "id", "user")
		require.NoError(t, err)
		f.users.On("FindByResetToken", ctx, reset).Return(nil, model.ErrUserNotFound)

		err = f.svc.ResetPassword(ctx, model.Actor{}, reset, "newpassword1")
		requireAPIError(t, err, http.StatusNotFound, "Invalid or expired reset token.")
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture(t)
		user := testUser(t, "password1")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(ctx, model.Actor{UserID: user.ID}, "wrong", "password2")
		requireAPIError(t, err, http.StatusUnauthorized, "Current password is incorrect.")
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores a new hash", func(t *testing.T) {
		f := newAuthFixture(t)
		user := testUser(t, "password1")
		f.users.On("FindByID", ctx, user.ID).Return(user, nil)
		f.users.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, f.svc.ChangePassword(ctx, model.Actor{UserID: user.ID}, "password1", "password2"))
		require.Equal(t, []event.Type{event.TypePasswordChanged}, f.events.types())
	})
}

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	h := testHasher()
	hash, err := h.Hash("secret-pw")
	require.NoError(t, err)
	require.NotEqual(t, "secret-pw", hash)
	require.True(t, h.Compare(hash, "secret-pw"))
	require.False(t, h.Compare(hash, "other"))

	require.Equal(t, 10, NewPasswordHasher(99).cost)
}
