package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
)

type UserFinder interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) bool
}

// CredentialVerifier checks a username and password against the user store.
// Unknown users and wrong passwords are indistinguishable to the caller.
type CredentialVerifier struct {
	Users  UserFinder
	Hasher Hasher
}

func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if !v.Hasher.Compare(password, user.PasswordHash) {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}
