package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cv-generator-backend/config"
	_ "cv-generator-backend/docs" // Important for Swagger
	"cv-generator-backend/internal/delivery/http/api"
	"cv-generator-backend/internal/delivery/http/middleware"
	"cv-generator-backend/internal/export"
	"cv-generator-backend/internal/repository/postgres"
	"cv-generator-backend/internal/session"
	"cv-generator-backend/internal/usecase"
	"cv-generator-backend/pkg/audit"
	"cv-generator-backend/pkg/auth"
	"cv-generator-backend/pkg/database"
	"cv-generator-backend/pkg/llm"
	"cv-generator-backend/pkg/logger"
	"cv-generator-backend/pkg/redis"
	"cv-generator-backend/pkg/validation"
)

// @title           CV Generator API
// @version         1.0
// @description     Multi-tenant CV generation backend.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init()
	logger.Log.Info("Starting cv generator backend", "port", cfg.Port)

	environment := "development"
	if os.Getenv("GIN_MODE") == "release" {
		environment = "production"
	}
	auditLog := audit.Init("cv-generator-backend", environment)
	defer func() { _ = auditLog.Sync() }()

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.AuditLogToDB {
		auditLog.SetPersistFunc(postgres.NewAuditPersister(dbPool))
	}

	// 4. Setup Redis (optional)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, falling back to in-memory stores", "error", err)
		} else {
			defer func() { _ = redis.Close() }()
		}
	}

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	templateRepo := postgres.NewTemplateRepository(dbPool)
	documentRepo := postgres.NewDocumentRepository(dbPool)
	usageRepo := postgres.NewUsageRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 6. Session cache: process memory first, Redis second
	sessionCache := session.NewMemoryCache(cfg.SessionCacheSize, cfg.SessionCacheTTL)
	if rdb := redis.Client(); rdb != nil {
		sessionCache = session.NewTieredCache(sessionCache, session.NewRedisCache(rdb, cfg.SessionCacheTTL))
	}

	// 7. Model backends
	if cfg.AnthropicAPIKey == "" {
		logger.Log.Warn("ANTHROPIC_API_KEY not set - document generation will fail")
	}
	generator := llm.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.GenerationModel, cfg.AnthropicBaseURL)
	chat := llm.NewChatClient(llm.ChatConfig{
		APIKey:    cfg.OpenAIAPIKey,
		Endpoint:  cfg.ChatAPIURL,
		Model:     cfg.ChatModel,
		MaxTokens: cfg.ChatMaxTokens,
		Timeout:   cfg.ChatTimeout,
	})

	// 8. Export
	var renderer export.Renderer
	if cfg.PDFExportEnabled {
		pdf := export.NewPlaywrightRenderer()
		defer func() { _ = pdf.Close() }()
		renderer = pdf
	}
	exporter := export.NewExporter(renderer)

	// 9. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(userRepo, sessionCache)
	userUC := usecase.NewUserUsecase(userRepo, companyRepo, sessionCache, validate)
	companyUC := usecase.NewCompanyUsecase(companyRepo, userRepo, documentRepo, sessionCache, validate)
	templateUC := usecase.NewTemplateUsecase(templateRepo, companyRepo, usageRepo, generator, validate)
	documentUC := usecase.NewDocumentUsecase(userRepo, templateRepo, documentRepo, usageRepo, generator, exporter, validate)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, userRepo, jobRepo, documentRepo, usageRepo, chat, validate)
	jobUC := usecase.NewJobUsecase(jobRepo, validate)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, documentRepo, validate)

	checks := map[string]usecase.Check{
		"database": dbPool.Ping,
	}
	if rdb := redis.Client(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	healthUC := usecase.NewHealthUsecase(checks)

	// 10. Setup Auth
	var keys *auth.KeySet
	if cfg.JWKSURL != "" {
		keys = auth.NewKeySet(cfg.JWKSURL)
	}
	verifier := auth.NewVerifier(cfg.JWTSecret, keys)

	// 11. Setup Router
	router := api.NewRouter(api.RouterDeps{
		AuthUC:          authUC,
		UserUC:          userUC,
		CompanyUC:       companyUC,
		TemplateUC:      templateUC,
		DocumentUC:      documentUC,
		CandidateUC:     candidateUC,
		JobUC:           jobUC,
		ApplicationUC:   applicationUC,
		Health:          healthUC,
		Verifier:        verifier,
		AllowedOrigins:  []string{cfg.FrontendURL},
		GenerationLimit: middleware.GenerationRateLimitConfig(cfg.GenerationRateLimit, time.Duration(cfg.RateLimitWindowSeconds)*time.Second),
	})

	// 12. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Generation requests can run for minutes
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
