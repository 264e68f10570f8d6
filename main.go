package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/kendall-kelly/restaurant-ms/repository"
	"github.com/kendall-kelly/restaurant-ms/router"
	"github.com/kendall-kelly/restaurant-ms/services"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.SetupLogger(cfg)
	log.Info().Str("env", cfg.GoEnv).Msg("Starting Restaurant Management API server...")

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database migration completed successfully")

	ctx := context.Background()
	sessionBackend, cleanup, err := setupServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer cleanup()

	if _, err := services.EnsureAdmin(ctx, repository.NewStore(db), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin account")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(cfg, sessionBackend),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// setupServices installs the image store, menu cache and event publisher
// selected by cfg and picks the session backend. The returned func releases
// their connections.
func setupServices(ctx context.Context, cfg *config.Config) (middleware.SessionBackend, func(), error) {
	var closers []func() error
	var sessionBackend middleware.SessionBackend

	switch cfg.ImageStorage {
	case "s3":
		s3Service, err := services.NewS3Service(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		services.InitImageService(s3Service)
		log.Info().Str("bucket", cfg.AWSS3Bucket).Msg("Storing menu images in S3")
	default:
		dir := filepath.Join(cfg.PublicDir, "images")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
		services.SetImageService(services.NewLocalImageService(dir))
		log.Info().Str("dir", dir).Msg("Storing menu images on local disk")
	}

	services.SetMenuCache(services.NoopMenuCache{})
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			// The menu is still served from the database without a cache
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, menu cache disabled and sessions kept in memory")
			_ = client.Close()
		} else {
			services.SetMenuCache(services.NewRedisMenuCache(client, "res_ms:menus", cfg.MenuCacheTTL))
			sessionBackend = middleware.NewRedisBackend(client, "res_ms:session")
			closers = append(closers, client.Close)
			log.Info().Str("addr", cfg.RedisAddr).Msg("Menu cache and shared sessions enabled")
		}
	}

	services.SetEventPublisher(services.NoopEventPublisher{})
	if len(cfg.KafkaBrokers) > 0 {
		publisher := services.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		services.SetEventPublisher(publisher)
		closers = append(closers, publisher.Close)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("Publishing order events to Kafka")
	}

	if sessionBackend == nil {
		sessionBackend = middleware.NewMemoryBackend()
	}

	return sessionBackend, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Warn().Err(err).Msg("Failed to close service connection")
			}
		}
	}, nil
}
