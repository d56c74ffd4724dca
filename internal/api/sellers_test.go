package api

import (
	"net/http"
	"testing"

	"drops_api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellerApplicationApproval(t *testing.T) {
	s := newTestServer(t)
	applicant, token := s.user(t, domain.RoleClient)
	_, admin := s.user(t, domain.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/sellers/apply", token, gin.H{"shop_name": "Drop Shop", "type": "INDIVIDUAL"})
	assertStatus(t, w, http.StatusCreated)
	assertStatus(t, s.do(t, http.MethodPost, "/api/sellers/apply", token, gin.H{"shop_name": "Again", "type": "INDIVIDUAL"}), http.StatusConflict)

	w = s.do(t, http.MethodGet, "/api/sellers/me", token, nil)
	assertStatus(t, w, http.StatusOK)
	var seller domain.Seller
	decode(t, w, &seller)
	assert.Equal(t, domain.SellerPending, seller.Status)

	// Still a client until approved
	assertStatus(t, s.do(t, http.MethodGet, "/api/sellers/dashboard", token, nil), http.StatusForbidden)

	w = s.do(t, http.MethodPut, "/api/admin/sellers/"+itoa(applicant.ID)+"/status", admin, gin.H{"status": "APPROVED"})
	assertStatus(t, w, http.StatusOK)

	var u domain.User
	require.NoError(t, s.db.First(&u, applicant.ID).Error)
	assert.Equal(t, domain.RoleVendeur, u.Role)

	w = s.do(t, http.MethodGet, "/api/sellers/dashboard", token, nil)
	assertStatus(t, w, http.StatusOK)
	var d SellerDashboard
	decode(t, w, &d)
	assert.Equal(t, int64(0), d.Products)
	assert.Equal(t, 0.0, d.AverageRating)

	w = s.do(t, http.MethodGet, "/api/admin/sellers?status=APPROVED", admin, nil)
	assertStatus(t, w, http.StatusOK)
	var page struct {
		Sellers []domain.Seller `json:"sellers"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Sellers, 1)
}

func TestAdminCategoriesAndDashboard(t *testing.T) {
	s := newTestServer(t)
	seller, _ := s.user(t, domain.RoleVendeur)
	_, admin := s.user(t, domain.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/admin/categories", admin, gin.H{"name": "Bags", "image_url": "/uploads/categories/bags.jpg"})
	assertStatus(t, w, http.StatusCreated)
	var cat CategoryResponse
	decode(t, w, &cat)
	require.NotNil(t, cat.ImageURL)
	assert.Equal(t, "http://localhost:8000/uploads/categories/bags.jpg", *cat.ImageURL)

	assertStatus(t, s.do(t, http.MethodPost, "/api/admin/categories", admin, gin.H{"description": "no name"}), http.StatusBadRequest)

	w = s.do(t, http.MethodGet, "/api/categories", "", nil)
	assertStatus(t, w, http.StatusOK)
	var cats []CategoryResponse
	decode(t, w, &cats)
	require.Len(t, cats, 1)

	p := s.product(t, seller.ID, "8.00", 1, "")
	require.NoError(t, s.db.Model(&p).Update("category_id", cat.ID).Error)
	assertStatus(t, s.do(t, http.MethodDelete, "/api/admin/categories/"+itoa(cat.ID), admin, nil), http.StatusOK)
	var stored domain.Product
	require.NoError(t, s.db.First(&stored, p.ID).Error)
	assert.Nil(t, stored.CategoryID)

	w = s.do(t, http.MethodGet, "/api/admin/dashboard", admin, nil)
	assertStatus(t, w, http.StatusOK)
	var d AdminDashboard
	decode(t, w, &d)
	assert.Equal(t, int64(2), d.Users.Total)
	assert.Equal(t, int64(1), d.Users.Sellers)
	assert.Equal(t, int64(1), d.Products.Total)
	assert.Nil(t, d.Activity.LastOrder)

	w = s.do(t, http.MethodGet, "/api/admin/dashboard/daily?days=7", admin, nil)
	assertStatus(t, w, http.StatusOK)
	assertStatus(t, s.do(t, http.MethodGet, "/api/admin/dashboard/daily?days=0", admin, nil), http.StatusBadRequest)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	assertStatus(t, s.do(t, http.MethodGet, "/api/health/db", "", nil), http.StatusOK)
	assertStatus(t, s.do(t, http.MethodGet, "/", "", nil), http.StatusOK)
	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	assertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "drops_http_requests_total")
}
