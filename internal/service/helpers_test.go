package service

import (
	"fmt"
	"testing"

	"drops_api/internal/db"
	"drops_api/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

var userSeq int

func createUser(t *testing.T, gdb *gorm.DB, role domain.Role) domain.User {
	t.Helper()
	userSeq++
	u := domain.User{
		FirstName:    "User",
		LastName:     fmt.Sprint(userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "unused",
		Role:         role,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func createProduct(t *testing.T, gdb *gorm.DB, sellerID uint, price string, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		SellerID:      sellerID,
		Name:          "Product",
		Price:         decimal.RequireFromString(price),
		Stock:         stock,
		AverageRating: domain.DefaultAverageRating,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}
