package service

import (
	"context"
	"testing"

	"drops_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserRecomputesAverages(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	reviews := NewReviewService(gdb)
	users := NewUserService(gdb)
	seller := createUser(t, gdb, domain.RoleVendeur)
	a := createUser(t, gdb, domain.RoleClient)
	b := createUser(t, gdb, domain.RoleClient)
	shared := createProduct(t, gdb, seller.ID, "10.00", 1)
	solo := createProduct(t, gdb, seller.ID, "10.00", 1)

	_, err := reviews.Upsert(ctx, a.ID, shared.ID, 1, "bad")
	require.NoError(t, err)
	_, err = reviews.Upsert(ctx, b.ID, shared.ID, 5, "good")
	require.NoError(t, err)
	_, err = reviews.Upsert(ctx, a.ID, solo.ID, 2, "meh")
	require.NoError(t, err)
	assert.Equal(t, 3.0, storedAverage(t, reviews, shared.ID))
	assert.Equal(t, 2.0, storedAverage(t, reviews, solo.ID))
	_, err = NewCartService(gdb).Add(ctx, a.ID, shared.ID)
	require.NoError(t, err)

	deleted, err := users.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{shared.ID, solo.ID}, deleted.ReviewedProducts)
	assert.Empty(t, deleted.OwnedProducts)

	var left int64
	require.NoError(t, gdb.Model(&domain.ProductReview{}).Where("user_id = ?", a.ID).Count(&left).Error)
	assert.Zero(t, left)
	var carts int64
	require.NoError(t, gdb.Model(&domain.Cart{}).Where("user_id = ?", a.ID).Count(&carts).Error)
	assert.Zero(t, carts)
	assert.Equal(t, 5.0, storedAverage(t, reviews, shared.ID))
	assert.Equal(t, domain.DefaultAverageRating, storedAverage(t, reviews, solo.ID))
}

func TestDeleteSellerRemovesProducts(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	reviews := NewReviewService(gdb)
	users := NewUserService(gdb)
	seller := createUser(t, gdb, domain.RoleVendeur)
	other := createUser(t, gdb, domain.RoleVendeur)
	client := createUser(t, gdb, domain.RoleClient)
	owned := createProduct(t, gdb, seller.ID, "8.00", 3)
	foreign := createProduct(t, gdb, other.ID, "8.00", 3)

	_, err := reviews.Upsert(ctx, client.ID, owned.ID, 4, "")
	require.NoError(t, err)
	_, err = reviews.Upsert(ctx, seller.ID, owned.ID, 5, "")
	require.NoError(t, err)
	_, err = reviews.Upsert(ctx, seller.ID, foreign.ID, 1, "")
	require.NoError(t, err)
	_, err = reviews.Upsert(ctx, client.ID, foreign.ID, 3, "")
	require.NoError(t, err)

	deleted, err := users.Delete(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{owned.ID}, deleted.OwnedProducts)
	assert.Equal(t, []uint{foreign.ID}, deleted.ReviewedProducts)
	assert.ElementsMatch(t, []uint{owned.ID, foreign.ID}, deleted.ProductIDs())

	var products int64
	require.NoError(t, gdb.Model(&domain.Product{}).Where("id = ?", owned.ID).Count(&products).Error)
	assert.Zero(t, products)
	var orphaned int64
	require.NoError(t, gdb.Model(&domain.ProductReview{}).Where("product_id = ?", owned.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
	assert.Equal(t, 3.0, storedAverage(t, reviews, foreign.ID))
}

func TestDeleteUnknownUser(t *testing.T) {
	_, err := NewUserService(newTestDB(t)).Delete(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
