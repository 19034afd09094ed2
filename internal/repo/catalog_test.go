package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/db/dbtest"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

func seedProducts(t *testing.T, r *GormRepo) []models.Product {
	t.Helper()
	items := []models.Product{
		{Name: "Red Drill", Description: "cordless", Price: 99, Stock: 3, Category: "tools"},
		{Name: "Blue Saw", Description: "hand saw 50%", Price: 25, Stock: 0, Category: "tools"},
		{Name: "Lamp", Description: "desk lamp", Price: 15, Stock: 10, Tag: "red"},
	}
	for i := range items {
		require.NoError(t, r.CreateProduct(context.Background(), &items[i]))
	}
	return items
}

func TestGormRepo_GetProducts(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	seeded := seedProducts(t, r)
	ctx := context.Background()

	total, all, err := r.GetProducts(ctx, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	total, page, err := r.GetProducts(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, seeded[1].ID, page[0].ID)

	got, err := r.GetProduct(ctx, seeded[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)

	_, err = r.GetProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepo_GetProductsByIDsKeepsOrder(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	seeded := seedProducts(t, r)

	got, err := r.GetProductsByIDs(context.Background(), []uint{seeded[2].ID, 9999, seeded[0].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, seeded[2].ID, got[0].ID)
	assert.Equal(t, seeded[0].ID, got[1].ID)
}

func TestGormRepo_SearchProducts(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	seedProducts(t, r)
	ctx := context.Background()

	tests := []struct {
		q    string
		want int64
	}{
		{q: "red", want: 2},
		{q: "SAW", want: 1},
		{q: "tools", want: 2},
		{q: "50%", want: 1},
		{q: "%", want: 1},
		{q: "nothing", want: 0},
	}
	for _, tt := range tests {
		total, items, err := r.SearchProducts(ctx, tt.q, 0, 10)
		require.NoError(t, err, tt.q)
		assert.Equal(t, tt.want, total, tt.q)
		assert.Len(t, items, int(tt.want), tt.q)
	}
}

func TestGormRepo_SaveAndDeleteProduct(t *testing.T) {
	t.Parallel()
	r := &GormRepo{DB: dbtest.Open(t)}
	seeded := seedProducts(t, r)
	ctx := context.Background()

	p := seeded[0]
	p.Stock = 0
	p.Status = models.StatusSoldOut
	require.NoError(t, r.SaveProduct(ctx, &p))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSoldOut, got.Status)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), ErrNotFound)
}
