package service

import (
	"context"
	"testing"

	"drops_api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddGetRemove(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	svc := NewCartService(gdb)
	seller := createUser(t, gdb, domain.RoleVendeur)
	client := createUser(t, gdb, domain.RoleClient)
	a := createProduct(t, gdb, seller.ID, "2.50", 10)
	b := createProduct(t, gdb, seller.ID, "10.00", 10)

	empty, err := svc.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, CartTotal(empty).IsZero())

	_, err = svc.Add(ctx, client.ID, a.ID)
	require.NoError(t, err)
	item, err := svc.Add(ctx, client.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	_, err = svc.Add(ctx, client.ID, b.ID)
	require.NoError(t, err)

	cart, err := svc.Get(ctx, client.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "15", CartTotal(cart).String())

	require.NoError(t, svc.Remove(ctx, client.ID, a.ID))
	assert.ErrorIs(t, svc.Remove(ctx, client.ID, a.ID), domain.ErrNotFound)

	var carts int64
	require.NoError(t, gdb.Model(&domain.Cart{}).Where("user_id = ?", client.ID).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}

func TestCartAddUnknownProduct(t *testing.T) {
	gdb := newTestDB(t)
	client := createUser(t, gdb, domain.RoleClient)
	_, err := NewCartService(gdb).Add(context.Background(), client.ID, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRemoveWithoutCart(t *testing.T) {
	gdb := newTestDB(t)
	client := createUser(t, gdb, domain.RoleClient)
	err := NewCartService(gdb).Remove(context.Background(), client.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
