package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/logging"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/mykafka"
	"github.com/Skotchmaster/shop_admin/internal/repo"
)

type UserService struct {
	Repo   *repo.GormRepo
	Hasher Hasher
	Events EventPublisher
}

func (s *UserService) Create(ctx context.Context, username, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create", "username", username)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	digest, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("create_user_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: digest, Role: role}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("create_user_error", "status", 409, "reason", "user already exists")
			return nil, fmt.Errorf("%w: user %q already exists", ErrConflict, username)
		}
		l.Error("create_user_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("user_created", "user_id", user.ID, "role", role)
	publish(ctx, s.Events, mykafka.TopicUserEvents, user.ID, "user_created", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "users.delete", "user_id", id)
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		l.Error("delete_user_error", "status", 500, "error", err)
		return err
	}
	l.Info("user_deleted")
	publish(ctx, s.Events, mykafka.TopicUserEvents, id, "user_deleted", map[string]any{"user_id": id})
	return nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that name exists.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.Create(ctx, username, password, models.RoleAdmin)
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

func publish(ctx context.Context, p EventPublisher, topic string, id uint, eventType string, data map[string]any) {
	if p == nil {
		return
	}
	key := strconv.FormatUint(uint64(id), 10)
	if err := p.PublishEvent(ctx, topic, key, mykafka.NewEvent(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", topic, "event", eventType, "error", err)
	}
}
