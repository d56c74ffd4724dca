package api

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"drops_api/internal/db"
	"drops_api/internal/domain"
	"drops_api/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	db      *gorm.DB
	tokens  *utils.TokenService
	router  *gin.Engine
	uploads string
	cache   *utils.Cache
	seq     int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	s := &testServer{
		db:      gdb,
		tokens:  utils.NewTokenService("test-secret", time.Hour),
		uploads: t.TempDir(),
		cache:   utils.NewCache(nil),
	}
	s.router = NewRouter(testDeps(s))
	return s
}

// newCachedTestServer is newTestServer backed by an in-process Redis
func newCachedTestServer(t *testing.T) (*testServer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	s := newTestServer(t)
	s.cache = utils.NewCache(rdb)
	s.router = NewRouter(testDeps(s))
	return s, mr
}

func testDeps(s *testServer) Deps {
	images := utils.NewImageNormalizer("http://localhost:8000", "uploads")
	return NewDeps(s.db, s.tokens, s.cache, images, s.uploads)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// user stores a user with role and returns it with a valid token
func (s *testServer) user(t *testing.T, role domain.Role) (domain.User, string) {
	t.Helper()
	s.seq++
	u := domain.User{
		FirstName:    "Test",
		LastName:     fmt.Sprint(s.seq),
		Email:        fmt.Sprintf("u%d@example.com", s.seq),
		PasswordHash: "unused",
		Role:         role,
	}
	require.NoError(t, s.db.Create(&u).Error)
	token, err := s.tokens.IssueAccessToken(u.ID)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) product(t *testing.T, sellerID uint, price string, stock int, image string) domain.Product {
	t.Helper()
	p := domain.Product{
		SellerID:      sellerID,
		Name:          "Sneakers",
		Price:         decimal.RequireFromString(price),
		Stock:         stock,
		Image:         image,
		AverageRating: domain.DefaultAverageRating,
	}
	require.NoError(t, s.db.Create(&p).Error)
	return p
}

// do sends body as JSON (nil sends no body) with an optional bearer token
func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "%s", w.Body.String())
}
