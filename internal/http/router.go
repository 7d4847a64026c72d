// Package httpapi wires the HTTP transport (Gin) to the application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, idempotency, and rate limiting.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS and security headers
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/config"
	"github.com/ozires/site24h-backend/internal/http/handlers"
	"github.com/ozires/site24h-backend/internal/http/middleware"
	"github.com/ozires/site24h-backend/internal/repo"
	"github.com/ozires/site24h-backend/internal/secrets"
	"github.com/ozires/site24h-backend/internal/services"
	"github.com/ozires/site24h-backend/internal/storage"
)

// Deps carries the external collaborators injected into the HTTP layer.
// Queue and Dispatcher may be nil in deployments without Redis or a
// configured site generator; the services degrade accordingly.
type Deps struct {
	Queue      services.GenerationQueue
	Dispatcher services.SiteDispatcher
	Store      storage.ObjectStore
	Box        *secrets.Box
}

// RegisterRoutes attaches all middleware and endpoints to the given engine.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit. Briefings are small, but uploads arrive as
	// base64 data URLs, so the cap follows the upload limit with headroom.
	limit := cfg.MaxUploadBytes*4/3 + 64<<10
	if limit < 1<<20 {
		limit = 1 << 20
	}
	r.Use(limitBody(limit))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, repo.ScopeSubmitBriefing, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		"X-API-Key", middleware.HeaderIdempotencyKey,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db and external collaborators
	auth := services.NewAuthService(db, cfg.JWTSecret, cfg.SessionTTL)
	notifs := services.NewNotificationService(db)
	projects := services.NewProjectService(db, deps.Queue, deps.Dispatcher, notifs,
		cfg.IdempotencyTTL, cfg.Webhook.URL)
	h := &handlers.Handlers{
		Auth:      auth,
		Users:     services.NewUserService(db),
		Projects:  projects,
		Notifs:    notifs,
		Tickets:   services.NewTicketService(db, notifs),
		AiConfigs: services.NewAiConfigService(db, deps.Box),
		Prompts:   services.NewPromptService(db),
		ApiKeys:   services.NewApiKeyService(db),
		Uploads:   services.NewUploadService(deps.Store, cfg.MaxUploadBytes),
		Reports:   services.NewReportService(db),
		Settings:  services.NewSettingsService(db),
	}

	api := groupWithPrefix(r, cfg.APIBasePath)

	// Public
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// Authenticated client routes
	session := api.Group("", middleware.SessionAuth(auth))
	{
		session.GET("/auth/me", h.Me)

		session.POST("/projects", h.SubmitBriefing)
		session.GET("/projects", h.ListProjects)
		session.GET("/projects/:id", h.GetProject)
		session.PUT("/projects/:id", h.UpdateBriefing)
		session.GET("/projects/:id/briefing", h.GetBriefing)
		session.POST("/projects/:id/approve", h.ApprovePreview)
		session.POST("/projects/:id/revision", h.RequestRevision)
		session.POST("/projects/:id/cancel", h.CancelProject)
		session.GET("/projects/:id/chat", h.ProjectChat)
		session.POST("/projects/:id/chat", h.PostChatMessage)

		session.GET("/notifications", h.ListNotifications)
		session.PUT("/notifications/:id/read", h.MarkNotificationRead)
		session.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		session.DELETE("/notifications/:id", h.DeleteNotification)
		session.DELETE("/notifications/read", h.DeleteReadNotifications)

		session.POST("/tickets", h.CreateTicket)
		session.GET("/tickets", h.ListTickets)
		session.GET("/tickets/:id", h.GetTicket)
		session.POST("/tickets/:id/reply", h.ReplyTicket)
		session.POST("/tickets/:id/close", h.CloseTicket)

		session.POST("/uploads", h.Upload)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.SessionAuth(auth), middleware.RequireAdmin())
	{
		admin.GET("/projects", h.AdminListProjects)
		admin.GET("/projects/:id", h.AdminGetProject)
		admin.POST("/projects/:id/approve-briefing", h.ApproveBriefing)
		admin.PUT("/projects/:id/copy", h.SaveCopy)
		admin.POST("/projects/:id/copy/generate", h.GenerateCopy)
		admin.POST("/projects/:id/copy/revision", h.RequestCopyRevision)
		admin.POST("/projects/:id/html/generate", h.GenerateHTML)
		admin.PUT("/projects/:id/html", h.SaveHTML)
		admin.POST("/projects/:id/html/revision", h.RequestHTMLRevision)
		admin.POST("/projects/:id/preview", h.SendPreview)
		admin.PUT("/projects/:id/status", h.SetProjectStatus)
		admin.PUT("/projects/:id/assign", h.AssignProject)
		admin.POST("/projects/:id/dispatch", h.DispatchProject)
		admin.GET("/projects/:id/logs", h.ProjectLogs)
		admin.GET("/jobs/:jobID", h.JobStatus)

		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id/role", h.UpdateUserRole)
		admin.PUT("/users/:id/name", h.RenameUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.POST("/ai-configs", h.CreateAiConfig)
		admin.GET("/ai-configs", h.ListAiConfigs)
		admin.POST("/ai-configs/:id/activate", h.ActivateAiConfig)
		admin.PUT("/ai-configs/:id", h.UpdateAiConfig)
		admin.DELETE("/ai-configs/:id", h.DeleteAiConfig)

		admin.POST("/prompts", h.CreatePrompt)
		admin.GET("/prompts", h.ListPrompts)
		admin.GET("/prompts/:id", h.GetPrompt)
		admin.PUT("/prompts/:id", h.UpdatePrompt)
		admin.DELETE("/prompts/:id", h.DeletePrompt)

		admin.POST("/api-keys", h.CreateApiKey)
		admin.GET("/api-keys", h.ListApiKeys)
		admin.POST("/api-keys/:id/revoke", h.RevokeApiKey)
		admin.DELETE("/api-keys/:id", h.DeleteApiKey)

		admin.GET("/reports/overview", h.ReportOverview)
		admin.GET("/reports/usage", h.ReportUsage)

		admin.GET("/settings", h.ListSettings)
		admin.PUT("/settings/:key", h.PutSetting)
	}

	// Machine callbacks from the site generator
	callbacks := api.Group("/callbacks", middleware.ApiKeyAuth(h.ApiKeys))
	{
		callbacks.POST("/projects/:id", h.GeneratorCallback)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body
// reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
