package db

import (
	"testing"

	"drops_api/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenMemoryMigratesSchema(t *testing.T) {
	gdb, err := OpenMemory()
	require.NoError(t, err)

	for _, table := range []string{"users", "sellers", "categories", "products", "carts", "cart_items", "orders", "order_items", "payments", "product_reviews"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestReviewUniquePerUserAndProduct(t *testing.T) {
	gdb, err := OpenMemory()
	require.NoError(t, err)

	user := domain.User{FirstName: "A", LastName: "B", Email: "a@b.c", PasswordHash: "x", Role: domain.RoleClient}
	require.NoError(t, gdb.Create(&user).Error)
	product := domain.Product{SellerID: user.ID, Name: "P", Price: decimal.NewFromInt(3), AverageRating: domain.DefaultAverageRating}
	require.NoError(t, gdb.Create(&product).Error)

	require.NoError(t, gdb.Create(&domain.ProductReview{UserID: user.ID, ProductID: product.ID, Rating: 4}).Error)
	err = gdb.Create(&domain.ProductReview{UserID: user.ID, ProductID: product.ID, Rating: 2}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", true)
	assert.Error(t, err)
}
