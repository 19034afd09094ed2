package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Skotchmaster/shop_admin/internal/logging"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/mykafka"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/tokens"
)

type TokenRegistry interface {
	Insert(ctx context.Context, rec *models.RefreshToken) error
	Find(ctx context.Context, tokenID string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenID string, replacedBy *string) (bool, error)
	Rotate(ctx context.Context, oldTokenID string, next *models.RefreshToken) error
	RevokeAllForUser(ctx context.Context, userID uint) (int64, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Session struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             PublicUser
}

// AuthService runs the session lifecycle: a refresh token id is ACTIVE after
// login and becomes ROTATED on refresh or REVOKED on logout. Both are final.
type AuthService struct {
	Verifier *CredentialVerifier
	Users    UserFinder
	Tokens   *tokens.Codec
	Registry TokenRegistry
	Events   EventPublisher

	RefreshMaxAge time.Duration
	// ReuseDetection revokes all of a user's sessions when an already rotated
	// refresh token is presented again.
	ReuseDetection bool

	Now func() time.Time
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "empty username or password")
		return nil, ErrValidation
	}

	user, err := s.Verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, ErrNotAuthenticated
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	id := identityOf(user)
	tokenID := tokens.NewTokenID()
	sess, err := s.sign(id, tokenID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "sign tokens", "error", err)
		return nil, err
	}

	if err := s.Registry.Insert(ctx, &models.RefreshToken{
		TokenID:   tokenID,
		UserID:    user.ID,
		ExpiresAt: sess.RefreshExpiresAt,
	}); err != nil {
		l.Error("login_failed", "status", 500, "reason", "store refresh token", "error", err)
		return nil, err
	}

	l.Info("login_succeeded", "user_id", user.ID)
	s.publish(ctx, "user_logged_in", user.ID)
	return sess, nil
}

// Refresh exchanges a live refresh token for a new pair. The presented token
// is retired in favour of the new one.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Tokens.VerifyRefresh(presented)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "token verification failed")
		return nil, ErrInvalidRefreshToken
	}
	l = l.With("username", claims.Username)

	rec, err := s.Registry.Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "unknown token id")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	if rec.IsRevoked {
		if s.ReuseDetection && rec.ReplacedByTokenID != nil {
			n, err := s.Registry.RevokeAllForUser(ctx, rec.UserID)
			if err != nil {
				l.Error("refresh_reuse_revoke_failed", "user_id", rec.UserID, "error", err)
			} else {
				l.Warn("refresh_reuse_detected", "user_id", rec.UserID, "revoked", n)
			}
		}
		l.Warn("refresh_failed", "status", 401, "reason", "token revoked")
		return nil, ErrInvalidRefreshToken
	}
	if !rec.ExpiresAt.After(s.now()) {
		l.Warn("refresh_failed", "status", 401, "reason", "token expired in registry")
		return nil, ErrInvalidRefreshToken
	}
	if claims.Subject != strconv.FormatUint(uint64(rec.UserID), 10) {
		l.Warn("refresh_failed", "status", 401, "reason", "subject mismatch")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Users.FindUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user no longer exists")
			return nil, ErrNotAuthenticated
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}
	if user.ID != rec.UserID {
		l.Warn("refresh_failed", "status", 401, "reason", "user id mismatch")
		return nil, ErrNotAuthenticated
	}

	nextID := tokens.NewTokenID()
	sess, err := s.sign(identityOf(user), nextID)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "reason", "sign tokens", "error", err)
		return nil, err
	}

	err = s.Registry.Rotate(ctx, rec.TokenID, &models.RefreshToken{
		TokenID:   nextID,
		UserID:    user.ID,
		ExpiresAt: sess.RefreshExpiresAt,
	})
	if err != nil {
		if errors.Is(err, repo.ErrTokenConflict) {
			l.Warn("refresh_failed", "status", 401, "reason", "token rotated concurrently")
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_failed", "status", 500, "reason", "rotate refresh token", "error", err)
		return nil, err
	}

	l.Info("refresh_succeeded", "user_id", user.ID)
	s.publish(ctx, "token_refreshed", user.ID)
	return sess, nil
}

// LogOut revokes the presented refresh token if it is live. It never fails:
// malformed, unknown or already revoked tokens are ignored.
func (s *AuthService) LogOut(ctx context.Context, presented string) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")
	if presented == "" {
		return
	}

	claims, err := s.Tokens.VerifyRefresh(presented)
	if err != nil {
		l.Debug("logout_ignored", "reason", "token verification failed")
		return
	}

	rec, err := s.Registry.Find(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			l.Error("logout_error", "error", err)
		}
		return
	}
	if rec.IsRevoked {
		return
	}

	revoked, err := s.Registry.Revoke(ctx, rec.TokenID, nil)
	if err != nil {
		l.Error("logout_error", "error", err)
		return
	}
	if revoked {
		l.Info("logout_succeeded", "user_id", rec.UserID)
		s.publish(ctx, "user_logged_out", rec.UserID)
	}
}

// Authenticate verifies an access token. No store lookup is involved.
func (s *AuthService) Authenticate(_ context.Context, accessToken string) (*tokens.Identity, error) {
	claims, err := s.Tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	id, err := claims.Identity()
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return &id, nil
}

func (s *AuthService) sign(id tokens.Identity, tokenID string) (*Session, error) {
	access, err := s.Tokens.SignAccess(id)
	if err != nil {
		return nil, err
	}
	refresh, err := s.Tokens.SignRefresh(id, tokenID)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: s.now().Add(s.RefreshMaxAge),
		User: PublicUser{
			ID:       id.UserID,
			Username: id.Username,
			Role:     id.Role,
		},
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, userID uint) {
	publish(ctx, s.Events, mykafka.TopicAuthEvents, userID, eventType, map[string]any{"user_id": userID})
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func identityOf(u *models.User) tokens.Identity {
	return tokens.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}
