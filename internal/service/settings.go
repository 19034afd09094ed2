package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
)

type SettingsService struct {
	Repo *repo.GormRepo
}

func (s *SettingsService) Config(ctx context.Context) (*models.SiteConfig, error) {
	return s.Repo.GetSiteConfig(ctx)
}

func (s *SettingsService) SetWhatsApp(ctx context.Context, number string) (*models.SiteConfig, error) {
	return s.Repo.UpdateSiteConfig(ctx, map[string]any{"whatsapp": strings.TrimSpace(number)})
}

func (s *SettingsService) Maintenance(ctx context.Context) (bool, error) {
	cfg, err := s.Repo.GetSiteConfig(ctx)
	if err != nil {
		return false, err
	}
	return cfg.Maintenance, nil
}

func (s *SettingsService) SetMaintenance(ctx context.Context, on bool) (bool, error) {
	cfg, err := s.Repo.UpdateSiteConfig(ctx, map[string]any{"maintenance": on})
	if err != nil {
		return false, err
	}
	return cfg.Maintenance, nil
}

func (s *SettingsService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *SettingsService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, mapRepoErr(err)
	}
	return c, nil
}

func (s *SettingsService) RenameCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c, err := s.Repo.RenameCategory(ctx, id, name)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return c, nil
}

func (s *SettingsService) DeleteCategory(ctx context.Context, id uint) error {
	return mapRepoErr(s.Repo.DeleteCategory(ctx, id))
}

func (s *SettingsService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.Repo.ListTags(ctx)
}

func (s *SettingsService) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrValidation)
	}
	t := &models.Tag{Name: name, Color: strings.TrimSpace(color)}
	if err := s.Repo.CreateTag(ctx, t); err != nil {
		return nil, mapRepoErr(err)
	}
	return t, nil
}

func (s *SettingsService) UpdateTagColor(ctx context.Context, id uint, color string) (*models.Tag, error) {
	t, err := s.Repo.UpdateTagColor(ctx, id, strings.TrimSpace(color))
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return t, nil
}

func (s *SettingsService) DeleteTag(ctx context.Context, id uint) error {
	return mapRepoErr(s.Repo.DeleteTag(ctx, id))
}

func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrConflict):
		return ErrConflict
	}
	return err
}
