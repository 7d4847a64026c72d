// Command server runs the Site 24h backend: the HTTP API, the generation
// worker, and their shared infrastructure (database, object storage, queue).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ozires/site24h-backend/internal/config"
	httpapi "github.com/ozires/site24h-backend/internal/http"
	"github.com/ozires/site24h-backend/internal/jobs"
	"github.com/ozires/site24h-backend/internal/observability"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/secrets"
	"github.com/ozires/site24h-backend/internal/services"
	"github.com/ozires/site24h-backend/internal/storage"
	"github.com/ozires/site24h-backend/internal/sysutil"
	"github.com/ozires/site24h-backend/internal/webhook"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(sctx)
	}()

	db, err := repo.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	box, err := secrets.New(cfg.EncryptionSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("encryption secret")
	}

	deps := httpapi.Deps{Box: box}

	if cfg.Minio.Endpoint != "" {
		store, err := storage.NewMinioStore(
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.UseSSL, cfg.Minio.PublicURL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("object storage")
		}
		deps.Store = store
		log.Info().Str("bucket", cfg.Minio.Bucket).Msg("object storage ready")
	} else {
		log.Warn().Msg("MINIO_ENDPOINT not set; uploads disabled")
	}

	settings := services.NewSettingsService(db)

	dispatcher := webhook.NewDispatcher(cfg.Webhook.URL, cfg.Webhook.SecretToken, cfg.Webhook.Timeout)
	dispatcher.Resolve = func(ctx context.Context) string {
		v, err := settings.Get(ctx, services.SettingWebhookURL)
		if err != nil {
			return ""
		}
		return v
	}
	deps.Dispatcher = dispatcher
	if cfg.Webhook.URL == "" {
		log.Warn().Msg("N8N_WEBHOOK_URL not set; dispatch relies on the admin settings override")
	}

	var queue *jobs.RedisJobQueue
	if cfg.Queue.Addr != "" {
		queue, err = jobs.NewRedisJobQueue(jobs.RedisQueueConfig{
			Addr:       cfg.Queue.Addr,
			Password:   cfg.Queue.Password,
			Stream:     cfg.Queue.Stream,
			Group:      cfg.Queue.Group,
			Consumer:   sysutil.FirstNonEmpty(os.Getenv("HOSTNAME"), "site24h-worker"),
			MaxRetries: cfg.Queue.MaxRetries,
			RetryDelay: cfg.Queue.RetryDelay,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis queue")
		}
		defer queue.Close()
		deps.Queue = queue

		notifs := services.NewNotificationService(db)
		gen := services.NewGenerationService(db,
			services.NewAiConfigService(db, box),
			services.NewPromptService(db),
			notifs,
			cfg.Queue.MaxRetries,
		)
		queue.Start(ctx, cfg.Queue.Concurrency, gen.Handle)
		log.Info().Int("concurrency", cfg.Queue.Concurrency).Msg("generation worker started")
	} else {
		log.Warn().Msg("REDIS_ADDR not set; generation jobs disabled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
}
