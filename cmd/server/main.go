package main

import (
	"context"       // context package is needed for Redis operations
	"path/filepath" // Upload root segment
	"time"          // Limiter cleanup interval

	"drops_api/internal/api"        // Custom package for API handlers
	"drops_api/internal/config"     // Custom package for configuration
	"drops_api/internal/db"         // Database connection
	"drops_api/internal/middleware" // Custom package for middleware
	"drops_api/internal/utils"      // Tokens, images and cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to the database
	database, err := db.Open(cfg.DBDriver, cfg.DSN(), cfg.IsProd)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if cfg.DBDriver == "sqlite" {
		if err := db.AutoMigrate(database); err != nil { // Local runs have no separate migration step
			logrus.Fatalf("migration failed: %v", err)
		}
	}

	// Setup Redis client; caching is off without REDIS_ADDR
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	images := utils.NewImageNormalizer(cfg.PublicBaseURL, filepath.Base(filepath.Clean(cfg.UploadDir)))
	deps := api.NewDeps(database, tokens, utils.NewCache(redisClient), images, cfg.UploadDir)
	deps.LoginLimiter = middleware.NewRateLimiter(cfg.LoginRatePerMin)
	deps.LoginLimiter.StartCleanup(context.Background(), time.Minute, 10*time.Minute) // Forget idle clients

	r := api.NewRouter(deps) // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "db": cfg.DBDriver}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
