package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_admin/internal/logging"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/mykafka"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/storage"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/internal/util"
)

type FileRemover interface {
	Remove(ctx context.Context, bucket, key string) error
}

type ProductIndexer interface {
	Index(ctx context.Context, prod models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

// CatalogService manages products. Files and Index are optional.
type CatalogService struct {
	Repo        *repo.GormRepo
	Files       FileRemover
	ImageBucket string
	SpecsBucket string
	Index       ProductIndexer
	Events      EventPublisher
}

// List returns every product when page is zero, one page otherwise.
func (s *CatalogService) List(ctx context.Context, page, size int) (int64, []models.Product, error) {
	if page <= 0 {
		return s.Repo.GetProducts(ctx, 0, -1)
	}
	from, limit := util.Calculate(page, size)
	return s.Repo.GetProducts(ctx, from, limit)
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (int64, []models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	from, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, query, from, limit)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		l.Warn("search_index_unavailable", "error", err)
	}
	return s.Repo.SearchProducts(ctx, query, from, limit)
}

func (s *CatalogService) Create(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	prod := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Tag:         req.Tag,
		ImageURL:    req.ImageURL,
		SpecFileURL: req.SpecFileURL,
		Status:      req.Status,
	}
	if prod.Status == "" {
		prod.Status = models.StatusActive
	}
	if prod.Stock <= 0 {
		prod.Status = models.StatusSoldOut
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		l.Error("create_product_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("product_created", "product_id", prod.ID)
	s.reindex(ctx, *prod)
	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID, "product_created", productEventData(prod))
	return prod, nil
}

// Update applies the non-nil fields of req. Stock drives the status: no stock
// means sold out, and restocking a sold out product reactivates it.
func (s *CatalogService) Update(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	prod, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldImage, oldSpec := prod.ImageURL, prod.SpecFileURL

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Tag != nil {
		prod.Tag = *req.Tag
	}
	if req.ImageURL != nil {
		prod.ImageURL = *req.ImageURL
	}
	if req.SpecFileURL != nil {
		prod.SpecFileURL = *req.SpecFileURL
	}
	if req.Status != nil {
		prod.Status = *req.Status
	}
	if req.Stock != nil {
		wasSoldOut := prod.Status == models.StatusSoldOut
		prod.Stock = *req.Stock
		switch {
		case prod.Stock <= 0:
			prod.Status = models.StatusSoldOut
		case wasSoldOut:
			prod.Status = models.StatusActive
		}
	}

	if req.ImageURL != nil && *req.ImageURL != "" && *req.ImageURL != oldImage {
		s.removeFile(ctx, oldImage, s.ImageBucket)
	}
	if req.SpecFileURL != nil && *req.SpecFileURL != "" && *req.SpecFileURL != oldSpec {
		s.removeFile(ctx, oldSpec, s.SpecsBucket)
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		l.Error("update_product_error", "status", 500, "error", err)
		return nil, err
	}

	l.Info("product_updated")
	s.reindex(ctx, *prod)
	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID, "product_updated", productEventData(prod))
	return prod, nil
}

// Delete refuses products that are still in stock and removes their files
// before the row.
func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	prod, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if prod.Stock > 0 {
		l.Warn("delete_product_refused", "status", 409, "stock", prod.Stock)
		return fmt.Errorf("%w: product %q still has %d units in stock", ErrConflict, prod.Name, prod.Stock)
	}

	s.removeFile(ctx, prod.ImageURL, s.ImageBucket)
	s.removeFile(ctx, prod.SpecFileURL, s.SpecsBucket)

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		l.Error("delete_product_error", "status", 500, "error", err)
		return err
	}

	l.Info("product_deleted")
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			l.Warn("unindex_product_failed", "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProductEvents, id, "product_deleted", map[string]any{"product_id": id})
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, prod models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "product_id", prod.ID, "error", err)
	}
}

// removeFile deletes a stored object when url points into bucket. Failures
// are logged only.
func (s *CatalogService) removeFile(ctx context.Context, url, bucket string) {
	if s.Files == nil || url == "" {
		return
	}
	b, key, ok := storage.ParsePublicURL(url)
	if !ok || b != bucket {
		return
	}
	if err := s.Files.Remove(ctx, b, key); err != nil {
		logging.FromContext(ctx).Warn("remove_file_failed", "bucket", b, "key", key, "error", err)
	}
}

func productEventData(p *models.Product) map[string]any {
	return map[string]any{
		"product_id": p.ID,
		"name":       p.Name,
		"stock":      p.Stock,
		"status":     p.Status,
	}
}
