package api

import (
	"net/http"
	"testing"

	"drops_api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productView fetches the public product detail
func (s *testServer) productView(t *testing.T, id uint) ProductResponse {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/products/"+itoa(id), "", nil)
	assertStatus(t, w, http.StatusOK)
	var p ProductResponse
	decode(t, w, &p)
	return p
}

func TestProductKeys(t *testing.T) {
	assert.Equal(t, []string{"product:1", "product:7", dashboardKey}, productKeys([]uint{1, 7}, dashboardKey))
	assert.Equal(t, []string{categoriesKey}, productKeys(nil, categoriesKey))
}

func TestCachedProductFollowsStock(t *testing.T) {
	s, mr := newCachedTestServer(t)
	seller, _ := s.user(t, domain.RoleVendeur)
	_, buyer := s.user(t, domain.RoleClient)
	_, admin := s.user(t, domain.RoleAdmin)
	p := s.product(t, seller.ID, "5.00", 5, "")
	key := productKey(p.ID)

	assert.Equal(t, 5, s.productView(t, p.ID).Stock)
	require.True(t, mr.Exists(key))

	w := s.do(t, http.MethodPost, "/api/orders", buyer, gin.H{"items": []gin.H{{"product_id": p.ID, "quantity": 2}}})
	assertStatus(t, w, http.StatusCreated)
	var order domain.Order
	decode(t, w, &order)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, 3, s.productView(t, p.ID).Stock)
	require.True(t, mr.Exists(key))

	w = s.do(t, http.MethodPut, "/api/admin/orders/"+itoa(order.ID)+"/status", admin, gin.H{"status": "CANCELLED"})
	assertStatus(t, w, http.StatusOK)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, 5, s.productView(t, p.ID).Stock)
}

func TestCachedProductFollowsCategory(t *testing.T) {
	s, mr := newCachedTestServer(t)
	seller, _ := s.user(t, domain.RoleVendeur)
	_, admin := s.user(t, domain.RoleAdmin)
	cat := domain.Category{Name: "Shoes"}
	require.NoError(t, s.db.Create(&cat).Error)
	p := s.product(t, seller.ID, "9.00", 1, "")
	require.NoError(t, s.db.Model(&p).Update("category_id", cat.ID).Error)
	key := productKey(p.ID)

	assert.Equal(t, "Shoes", s.productView(t, p.ID).CategoryName)
	require.True(t, mr.Exists(key))

	w := s.do(t, http.MethodPut, "/api/admin/categories/"+itoa(cat.ID), admin, gin.H{"name": "Boots"})
	assertStatus(t, w, http.StatusOK)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, "Boots", s.productView(t, p.ID).CategoryName)
	require.True(t, mr.Exists(key))

	assertStatus(t, s.do(t, http.MethodDelete, "/api/admin/categories/"+itoa(cat.ID), admin, nil), http.StatusOK)
	assert.False(t, mr.Exists(key))
	view := s.productView(t, p.ID)
	assert.Nil(t, view.CategoryID)
	assert.Empty(t, view.CategoryName)
}

func TestDeleteUserKeepsRatingsConsistent(t *testing.T) {
	s, mr := newCachedTestServer(t)
	seller, _ := s.user(t, domain.RoleVendeur)
	alice, aliceToken := s.user(t, domain.RoleClient)
	_, bob := s.user(t, domain.RoleClient)
	adminUser, admin := s.user(t, domain.RoleAdmin)
	p := s.product(t, seller.ID, "20.00", 5, "")

	assertStatus(t, s.do(t, http.MethodPost, "/api/reviews/"+itoa(p.ID), aliceToken, gin.H{"rating": 1}), http.StatusCreated)
	assertStatus(t, s.do(t, http.MethodPost, "/api/reviews/"+itoa(p.ID), bob, gin.H{"rating": 5}), http.StatusCreated)
	assert.Equal(t, 3.0, s.productView(t, p.ID).AverageRating)
	assertStatus(t, s.do(t, http.MethodGet, "/api/reviews/product/"+itoa(p.ID), "", nil), http.StatusOK)
	require.True(t, mr.Exists(productKey(p.ID)))
	require.True(t, mr.Exists(reviewsKey(p.ID)))

	assertStatus(t, s.do(t, http.MethodDelete, "/api/admin/users/"+itoa(alice.ID), admin, nil), http.StatusOK)
	assert.False(t, mr.Exists(productKey(p.ID)))
	assert.False(t, mr.Exists(reviewsKey(p.ID)))

	view := s.productView(t, p.ID)
	assert.Equal(t, 5.0, view.AverageRating)
	assert.Equal(t, int64(1), view.ReviewCount)

	assertStatus(t, s.do(t, http.MethodDelete, "/api/admin/users/"+itoa(alice.ID), admin, nil), http.StatusNotFound)
	assertStatus(t, s.do(t, http.MethodDelete, "/api/admin/users/"+itoa(adminUser.ID), admin, nil), http.StatusBadRequest)
}

func TestDeleteSellerDropsCachedProducts(t *testing.T) {
	s, mr := newCachedTestServer(t)
	seller, _ := s.user(t, domain.RoleVendeur)
	_, admin := s.user(t, domain.RoleAdmin)
	p := s.product(t, seller.ID, "20.00", 5, "")

	s.productView(t, p.ID)
	require.True(t, mr.Exists(productKey(p.ID)))

	assertStatus(t, s.do(t, http.MethodDelete, "/api/admin/users/"+itoa(seller.ID), admin, nil), http.StatusOK)
	assert.False(t, mr.Exists(productKey(p.ID)))
	assertStatus(t, s.do(t, http.MethodGet, "/api/products/"+itoa(p.ID), "", nil), http.StatusNotFound)
}
