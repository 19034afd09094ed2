package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/db/dbtest"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/transport"
)

const publicBase = "https://files.example.com/storage/v1/object/public/"

type removed struct{ bucket, key string }

type fakeFiles struct {
	mu       sync.Mutex
	removed  []removed
	uploaded []removed
	err      error
}

func (f *fakeFiles) Upload(_ context.Context, bucket, key string, _ io.Reader, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, removed{bucket, key})
	return publicBase + bucket + "/" + key, nil
}

func (f *fakeFiles) Remove(_ context.Context, bucket, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, removed{bucket, key})
	return nil
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed []uint
	deleted []uint
	hits    []uint
	err     error
}

func (f *fakeIndex) Index(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []uint, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func newCatalog(t *testing.T) (*CatalogService, *fakeFiles, *fakeIndex) {
	t.Helper()
	files := &fakeFiles{}
	idx := &fakeIndex{}
	return &CatalogService{
		Repo:        &repo.GormRepo{DB: dbtest.Open(t)},
		Files:       files,
		ImageBucket: "products",
		SpecsBucket: "products-specs",
		Index:       idx,
		Events:      &fakePublisher{},
	}, files, idx
}

func ptr[T any](v T) *T { return &v }

func TestCatalogService_CreateDerivesStatus(t *testing.T) {
	t.Parallel()
	svc, _, idx := newCatalog(t)
	ctx := context.Background()

	inStock, err := svc.Create(ctx, transport.CreateProductRequest{Name: "Drill", Price: 10, Stock: 2})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, inStock.Status)

	empty, err := svc.Create(ctx, transport.CreateProductRequest{Name: "Saw", Price: 10, Stock: 0, Status: models.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSoldOut, empty.Status)

	_, err = svc.Create(ctx, transport.CreateProductRequest{Name: " ", Price: 1})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []uint{inStock.ID, empty.ID}, idx.indexed)
}

func TestCatalogService_UpdateStockTransitions(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.CreateProductRequest{Name: "Lamp", Price: 5, Stock: 3})
	require.NoError(t, err)

	p, err = svc.Update(ctx, p.ID, transport.PatchProductRequest{Stock: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSoldOut, p.Status)

	p, err = svc.Update(ctx, p.ID, transport.PatchProductRequest{Stock: ptr(4), Name: ptr("Desk Lamp")})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, p.Status)
	assert.Equal(t, "Desk Lamp", p.Name)
	assert.Equal(t, 5.0, p.Price)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Stock)

	_, err = svc.Update(ctx, 9999, transport.PatchProductRequest{Stock: ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_UpdateRemovesReplacedFiles(t *testing.T) {
	t.Parallel()
	svc, files, _ := newCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.CreateProductRequest{
		Name:        "Drill",
		Stock:       1,
		ImageURL:    publicBase + "products/old.png",
		SpecFileURL: publicBase + "products-specs/old.pdf",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, transport.PatchProductRequest{
		ImageURL:    ptr(publicBase + "products/new.png"),
		SpecFileURL: ptr(publicBase + "products-specs/old.pdf"),
	})
	require.NoError(t, err)

	assert.Equal(t, []removed{{"products", "old.png"}}, files.removed)
}

func TestCatalogService_Delete(t *testing.T) {
	t.Parallel()
	svc, files, idx := newCatalog(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.CreateProductRequest{
		Name:        "Drill",
		Stock:       2,
		ImageURL:    publicBase + "products/a.png",
		SpecFileURL: publicBase + "products-specs/a.pdf",
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, files.removed)

	_, err = svc.Update(ctx, p.ID, transport.PatchProductRequest{Stock: ptr(0)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ElementsMatch(t, []removed{{"products", "a.png"}, {"products-specs", "a.pdf"}}, files.removed)
	assert.Equal(t, []uint{p.ID}, idx.deleted)

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}

func TestCatalogService_DeleteWithoutStorage(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCatalog(t)
	svc.Files = nil
	ctx := context.Background()

	p, err := svc.Create(ctx, transport.CreateProductRequest{Name: "Old", ImageURL: publicBase + "products/x.png"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, p.ID))
}

func TestCatalogService_ListPaging(t *testing.T) {
	t.Parallel()
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, transport.CreateProductRequest{Name: name, Stock: 1})
		require.NoError(t, err)
	}

	total, all, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	total, page, err := svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Name)
}

func TestCatalogService_Search(t *testing.T) {
	t.Parallel()
	svc, _, idx := newCatalog(t)
	ctx := context.Background()

	drill, err := svc.Create(ctx, transport.CreateProductRequest{Name: "Drill", Stock: 1})
	require.NoError(t, err)
	saw, err := svc.Create(ctx, transport.CreateProductRequest{Name: "Saw", Stock: 1})
	require.NoError(t, err)

	idx.hits = []uint{saw.ID, drill.ID}
	total, items, err := svc.Search(ctx, "tool", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Saw", items[0].Name)

	idx.err = errors.New("cluster down")
	total, items, err = svc.Search(ctx, "dri", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Drill", items[0].Name)

	_, _, err = svc.Search(ctx, "  ", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
}
