package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/db/dbtest"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

func TestGormRepo_SiteConfig(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	ctx := context.Background()

	cfg, err := r.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), cfg.ID)
	assert.Empty(t, cfg.WhatsApp)
	assert.False(t, cfg.Maintenance)

	cfg, err = r.UpdateSiteConfig(ctx, map[string]any{"whatsapp": "+15550100"})
	require.NoError(t, err)
	assert.Equal(t, "+15550100", cfg.WhatsApp)

	cfg, err = r.UpdateSiteConfig(ctx, map[string]any{"maintenance": true})
	require.NoError(t, err)
	assert.True(t, cfg.Maintenance)
	assert.Equal(t, "+15550100", cfg.WhatsApp)

	var rows int64
	require.NoError(t, r.DB.Model(&models.SiteConfig{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestGormRepo_Categories(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	ctx := context.Background()

	tools := &models.Category{Name: "tools"}
	require.NoError(t, r.CreateCategory(ctx, tools))
	require.NoError(t, r.CreateCategory(ctx, &models.Category{Name: "garden"}))
	assert.ErrorIs(t, r.CreateCategory(ctx, &models.Category{Name: "tools"}), ErrConflict)

	list, err := r.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "garden", list[0].Name)

	_, err = r.RenameCategory(ctx, tools.ID, "garden")
	assert.ErrorIs(t, err, ErrConflict)

	renamed, err := r.RenameCategory(ctx, tools.ID, "hardware")
	require.NoError(t, err)
	assert.Equal(t, "hardware", renamed.Name)

	_, err = r.RenameCategory(ctx, 9999, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.DeleteCategory(ctx, tools.ID))
	assert.ErrorIs(t, r.DeleteCategory(ctx, tools.ID), ErrNotFound)
}

func TestGormRepo_Tags(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	ctx := context.Background()

	sale := &models.Tag{Name: "sale", Color: "#f00"}
	require.NoError(t, r.CreateTag(ctx, sale))

	updated, err := r.UpdateTagColor(ctx, sale.ID, "#0f0")
	require.NoError(t, err)
	assert.Equal(t, "#0f0", updated.Color)
	assert.Equal(t, "sale", updated.Name)

	_, err = r.UpdateTagColor(ctx, 9999, "#000")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := r.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.DeleteTag(ctx, sale.ID))
	assert.ErrorIs(t, r.DeleteTag(ctx, sale.ID), ErrNotFound)
}
