package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrMissingSecret = errors.New("token secret is not set")
	// ErrInvalidToken covers every verification failure. Callers cannot tell
	// an expired token from a forged one.
	ErrInvalidToken = errors.New("invalid token")
)

type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType Kind   `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() (Identity, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: uint(id), Username: c.Username, Role: c.Role}, nil
}

// Codec signs and verifies both token kinds with independent secrets.
type Codec struct {
	access  Config
	refresh Config

	// Now is overridable in tests.
	Now func() time.Time
}

func NewCodec(access, refresh Config) (*Codec, error) {
	if len(access.Secret) == 0 || len(refresh.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	return &Codec{access: access, refresh: refresh, Now: time.Now}, nil
}

func NewTokenID() string {
	return uuid.NewString()
}

func (c *Codec) RefreshTTL() time.Duration { return c.refresh.TTL }

func (c *Codec) SignAccess(id Identity) (string, error) {
	return c.sign(id, KindAccess, "")
}

func (c *Codec) SignRefresh(id Identity, tokenID string) (string, error) {
	if tokenID == "" {
		return "", errors.New("refresh token id is empty")
	}
	return c.sign(id, KindRefresh, tokenID)
}

func (c *Codec) sign(id Identity, kind Kind, tokenID string) (string, error) {
	cfg := c.config(kind)
	now := c.Now()
	claims := Claims{
		Username:  id.Username,
		Role:      id.Role,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        tokenID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}

func (c *Codec) VerifyAccess(token string) (*Claims, error) {
	return c.Verify(token, KindAccess)
}

func (c *Codec) VerifyRefresh(token string) (*Claims, error) {
	return c.Verify(token, KindRefresh)
}

func (c *Codec) Verify(token string, kind Kind) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	cfg := c.config(kind)

	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.Now),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != kind {
		return nil, ErrInvalidToken
	}
	if kind == KindRefresh && claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (c *Codec) config(kind Kind) Config {
	if kind == KindRefresh {
		return c.refresh
	}
	return c.access
}
