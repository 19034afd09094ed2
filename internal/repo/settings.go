package repo

import (
	"context"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

const siteConfigID = 1

// GetSiteConfig returns the singleton row, creating it on first access.
func (r *GormRepo) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	cfg := models.SiteConfig{ID: siteConfigID}
	if err := r.DB.WithContext(ctx).Where("id = ?", siteConfigID).FirstOrCreate(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *GormRepo) UpdateSiteConfig(ctx context.Context, fields map[string]any) (*models.SiteConfig, error) {
	cfg, err := r.GetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(cfg).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetSiteConfig(ctx)
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	items := make([]models.Category, 0)
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	tx := r.DB.WithContext(ctx).Where("name = ?", c.Name).FirstOrCreate(c)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *GormRepo) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	var taken int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrConflict
	}
	c.Name = name
	if err := r.DB.WithContext(ctx).Save(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	items := make([]models.Tag, 0)
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateTag(ctx context.Context, t *models.Tag) error {
	return translate(r.DB.WithContext(ctx).Create(t).Error)
}

func (r *GormRepo) UpdateTagColor(ctx context.Context, id uint, color string) (*models.Tag, error) {
	var t models.Tag
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	t.Color = color
	if err := r.DB.WithContext(ctx).Save(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) DeleteTag(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Tag{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
