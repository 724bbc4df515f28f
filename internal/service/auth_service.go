package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/token"
	"go-shop-api/pkg/apierror"
)

const (
	msgInvalidCredentials = "Invalid email or password."
	msgDuplicateUser      = "A user with the provided email or username already exists."
	msgInvalidResetToken  = "Invalid or expired reset token."
	msgWrongPassword      = "Current password is incorrect."
	msgAccountSuspended   = "User account is suspended"
)

// AuthService implements the account flows: login, registration, token
// refresh, logout and the password change and reset flows.
type AuthService struct {
	users     repository.UserRepository
	blacklist repository.Blacklist
	tokens    *token.Issuer
	passwords PasswordHasher
	notifier  ResetNotifier
	events    event.Publisher
}

func NewAuthService(
	users repository.UserRepository,
	blacklist repository.Blacklist,
	tokens *token.Issuer,
	passwords PasswordHasher,
	notifier ResetNotifier,
	events event.Publisher,
) *AuthService {
	if events == nil {
		events = event.Discard{}
	}
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		passwords: passwords,
		notifier:  notifier,
		events:    events,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues an access and refresh token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, actor model.Actor, email string, password string) (model.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResult{}, apierror.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("login: %w", err)
	}

	if !s.passwords.Compare(user.PasswordHash, password) {
		return model.AuthResult{}, apierror.Unauthorized(msgInvalidCredentials)
	}
	if user.Suspended {
		return model.AuthResult{}, apierror.Forbidden(msgAccountSuspended)
	}

	result, err := s.issuePair(user)
	if err != nil {
		return model.AuthResult{}, err
	}

	actor.UserID, actor.Role = user.ID, string(user.Role)
	s.events.Publish(event.New(event.TypeUserLoggedIn, actor, "users/"+user.ID, nil))
	return result, nil
}

func (s *AuthService) Register(ctx context.Context, actor model.Actor, req model.RegisterRequest) (model.AuthResult, error) {
	role := permission.RoleUser
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := permission.ParseRole(req.Role)
		if !ok {
			return model.AuthResult{}, apierror.BadRequest("Invalid role.", req.Role)
		}
		role = parsed
	}

	email := normalizeEmail(req.Email)
	userName := strings.TrimSpace(req.UserName)

	exists, err := s.users.ExistsByEmailOrUserName(ctx, email, userName)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("register: %w", err)
	}
	if exists {
		return model.AuthResult{}, apierror.BadRequest(msgDuplicateUser, "")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return model.AuthResult{}, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           repository.NewID(),
		UserName:     userName,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.AuthResult{}, apierror.BadRequest(msgDuplicateUser, "")
		}
		return model.AuthResult{}, fmt.Errorf("register: %w", err)
	}

	result, err := s.issuePair(user)
	if err != nil {
		return model.AuthResult{}, err
	}

	actor.UserID, actor.Role = user.ID, string(user.Role)
	s.events.Publish(event.New(event.TypeUserRegistered, actor, "users/"+user.ID, map[string]any{
		"userName": user.UserName,
		"role":     string(user.Role),
	}))
	return result, nil
}

// Refresh issues a new access token for an identity already authenticated
// with its refresh token.
func (s *AuthService) Refresh(identity model.Identity) (string, error) {
	access, err := s.tokens.Issue(token.Access, identity.ID, string(identity.Role))
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return access, nil
}

// Logout blacklists the presented access token and, when given, a refresh
// token belonging to the same user.
func (s *AuthService) Logout(ctx context.Context, actor model.Actor, accessToken string, refreshToken string) error {
	if refreshToken != "" {
		claims, err := s.tokens.Verify(token.Refresh, refreshToken)
		if err != nil || claims.UserID != actor.UserID {
			return apierror.BadRequest("Invalid refresh token.", "")
		}
	}

	revoked := 0
	for _, raw := range []string{accessToken, refreshToken} {
		if raw == "" {
			continue
		}
		if err := s.blacklist.Add(ctx, raw); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		revoked++
	}

	s.events.Publish(event.New(event.TypeTokenRevoked, actor, "users/"+actor.UserID, map[string]any{"revoked": revoked}))
	return nil
}

// ForgotPassword issues a reset token and hands it to the notifier. Unknown
// emails succeed silently so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, actor model.Actor, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, model.ErrUserNotFound) {
		slog.DebugContext(ctx, "password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	resetToken, err := s.tokens.Issue(token.Reset, user.ID, string(user.Role))
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, resetToken); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	if err := s.notifier.SendResetToken(ctx, user, resetToken); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	actor.UserID, actor.Role = user.ID, string(user.Role)
	s.events.Publish(event.New(event.TypePasswordResetIssued, actor, "users/"+user.ID, nil))
	return nil
}

// ResetPassword replaces the password of the user holding resetToken. The
// token must verify with the reset secret and match the one stored for that
// user; it is cleared on success.
func (s *AuthService) ResetPassword(ctx context.Context, actor model.Actor, resetToken string, newPassword string) error {
	claims, err := s.tokens.Verify(token.Reset, resetToken)
	if errors.Is(err, model.ErrInvalidToken) {
		return apierror.NotFound(msgInvalidResetToken, "")
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	user, err := s.users.FindByResetToken(ctx, resetToken)
	if errors.Is(err, model.ErrUserNotFound) {
		return apierror.NotFound(msgInvalidResetToken, "")
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if user.ID != claims.UserID {
		return apierror.NotFound(msgInvalidResetToken, "")
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.events.Publish(event.New(event.TypePasswordReset, actor, "users/"+user.ID, nil))
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor model.Actor, currentPassword string, newPassword string) error {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return apierror.NotFound("User not found.", "")
	}
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if !s.passwords.Compare(user.PasswordHash, currentPassword) {
		return apierror.Unauthorized(msgWrongPassword)
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.events.Publish(event.New(event.TypePasswordChanged, actor, "users/"+user.ID, nil))
	return nil
}

func (s *AuthService) issuePair(user *model.User) (model.AuthResult, error) {
	access, err := s.tokens.Issue(token.Access, user.ID, string(user.Role))
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.Issue(token.Refresh, user.ID, string(user.Role))
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return model.AuthResult{
		User:         user.AuthView(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
