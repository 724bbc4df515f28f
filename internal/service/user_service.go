package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-shop-api/internal/event"
	"go-shop-api/internal/model"
	"go-shop-api/internal/pagination"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/apierror"
)

const (
	msgInvalidUserID = "Invalid user ID."
	msgUserNotFound  = "User not found."
)

// UserService serves the administrative user views and suspension.
type UserService struct {
	users  repository.UserRepository
	events event.Publisher
}

func NewUserService(users repository.UserRepository, events event.Publisher) *UserService {
	if events == nil {
		events = event.Discard{}
	}
	return &UserService{users: users, events: events}
}

func (s *UserService) List(ctx context.Context, q model.ListQuery) (pagination.Page[model.Profile], error) {
	var (
		users []*model.User
		err   error
	)
	if query := strings.TrimSpace(q.Query); query != "" {
		users, err = s.users.Search(ctx, query)
	} else {
		users, err = s.users.List(ctx)
	}
	if err != nil {
		return pagination.Page[model.Profile]{}, err
	}

	return pagination.Paginate(users, listOptions[*model.User](q), (*model.User).Profile), nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.Profile, error) {
	if !repository.ValidID(id) {
		return model.Profile{}, apierror.BadRequest(msgInvalidUserID, id)
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Profile{}, apierror.NotFound(msgUserNotFound, id)
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get user: %w", err)
	}

	return user.Profile(), nil
}

// SetSuspended toggles the suspension flag and returns the confirmation
// message for the caller.
func (s *UserService) SetSuspended(ctx context.Context, actor model.Actor, id string, suspend bool) (string, error) {
	if !repository.ValidID(id) {
		return "", apierror.BadRequest(msgInvalidUserID, id)
	}

	err := s.users.SetSuspended(ctx, id, suspend)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", apierror.NotFound(msgUserNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("suspend user: %w", err)
	}

	typ, message := event.TypeUserUnsuspended, "User has been unsuspended."
	if suspend {
		typ, message = event.TypeUserSuspended, "User has been suspended."
	}
	s.events.Publish(event.New(typ, actor, "users/"+id, nil))

	return message, nil
}
