package repo

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const schemaTimeout = 30 * time.Second

// RefreshRegistry is the durable record of issued refresh tokens. The table
// is provisioned lazily on first use; every method calls EnsureSchema.
type RefreshRegistry struct {
	DB  *gorm.DB
	Now func() time.Time

	group singleflight.Group
	ready atomic.Bool
}

func NewRefreshRegistry(db *gorm.DB) *RefreshRegistry {
	return &RefreshRegistry{DB: db, Now: time.Now}
}

// EnsureSchema creates the refresh_tokens table if it is missing. Concurrent
// callers share one attempt; a failed attempt is retried by the next caller.
func (r *RefreshRegistry) EnsureSchema(ctx context.Context) error {
	if r.ready.Load() {
		return nil
	}

	ch := r.group.DoChan("schema", func() (any, error) {
		if r.ready.Load() {
			return nil, nil
		}
		// Detached from the first caller; other waiters share the result.
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), schemaTimeout)
		defer cancel()

		m := r.DB.WithContext(pctx).Migrator()
		if !m.HasTable(&models.RefreshToken{}) {
			if err := m.CreateTable(&models.RefreshToken{}); err != nil {
				return nil, fmt.Errorf("create refresh_tokens: %w", err)
			}
		}
		r.ready.Store(true)
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *RefreshRegistry) Insert(ctx context.Context, rec *models.RefreshToken) error {
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}
	return translate(r.DB.WithContext(ctx).Create(rec).Error)
}

func (r *RefreshRegistry) Find(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	var rec models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token_id = ?", tokenID).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// Revoke flips a live record to revoked. It reports false when the record is
// missing or was already revoked.
func (r *RefreshRegistry) Revoke(ctx context.Context, tokenID string, replacedBy *string) (bool, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return false, err
	}
	return r.revoke(r.DB.WithContext(ctx), tokenID, replacedBy)
}

func (r *RefreshRegistry) revoke(db *gorm.DB, tokenID string, replacedBy *string) (bool, error) {
	updates := map[string]any{
		"is_revoked": true,
		"revoked_at": r.now(),
	}
	if replacedBy != nil {
		updates["replaced_by_token_id"] = *replacedBy
	}
	res := db.Model(&models.RefreshToken{}).
		Where("token_id = ? AND is_revoked = ?", tokenID, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Rotate stores next and revokes oldTokenID in its favour, atomically. It
// returns ErrTokenConflict, leaving nothing written, when oldTokenID is no
// longer live.
func (r *RefreshRegistry) Rotate(ctx context.Context, oldTokenID string, next *models.RefreshToken) error {
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(next).Error; err != nil {
			return translate(err)
		}
		ok, err := r.revoke(tx, oldTokenID, &next.TokenID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTokenConflict
		}
		return nil
	})
}

// RevokeAllForUser revokes every live token of the user and returns how many
// were affected.
func (r *RefreshRegistry) RevokeAllForUser(ctx context.Context, userID uint) (int64, error) {
	if err := r.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]any{"is_revoked": true, "revoked_at": r.now()})
	return res.RowsAffected, res.Error
}

func (r *RefreshRegistry) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
