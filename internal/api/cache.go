package api

import (
	"fmt"
	"time"

	"drops_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	categoriesKey = "categories:all"
	dashboardKey  = "admin:dashboard"

	catalogTTL   = 5 * time.Minute
	dashboardTTL = 60 * time.Second
)

func productKey(id uint) string { return fmt.Sprintf("product:%d", id) }

func reviewsKey(productID uint) string { return fmt.Sprintf("reviews:product:%d", productID) }

// productKeys returns the detail keys of ids plus any extra keys
func productKeys(ids []uint, extra ...string) []string {
	keys := make([]string, 0, len(ids)+len(extra))
	for _, id := range ids {
		keys = append(keys, productKey(id)) // Stock, category or rating changed
	}
	return append(keys, extra...)
}

// cacheGet reads key into dest. Redis failures count as a miss.
func cacheGet(c *gin.Context, cache *utils.Cache, key string, dest any) bool {
	hit, err := cache.Get(c.Request.Context(), key, dest)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Cache read failed")
		return false
	}
	return hit
}

func cacheSet(c *gin.Context, cache *utils.Cache, key string, value any, ttl time.Duration) {
	if err := cache.Set(c.Request.Context(), key, value, ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Cache write failed")
	}
}

// invalidate drops keys after a write; a stale entry expires on its TTL anyway
func invalidate(c *gin.Context, cache *utils.Cache, keys ...string) {
	if err := cache.Delete(c.Request.Context(), keys...); err != nil {
		logrus.WithFields(logrus.Fields{"keys": keys, "error": err}).Warn("Cache invalidation failed")
	}
}
