package api

import (
	"cv-generator-backend/internal/delivery/http/middleware"
	"cv-generator-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	UserUC        domain.UserUsecase
	CompanyUC     domain.CompanyUsecase
	TemplateUC    domain.TemplateUsecase
	DocumentUC    domain.DocumentUsecase
	CandidateUC   domain.CandidateUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	Health        HealthChecker
	Verifier      middleware.TokenVerifier
	// AllowedOrigins are the frontend origins accepted by CORS
	AllowedOrigins []string
	// GenerationLimit guards every endpoint that calls a model backend
	GenerationLimit middleware.RateLimitConfig
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// CORS must be first
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins...))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()))

	api.GET("/health", healthHandler(deps.Health))
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	tokenOnly := api.Group("")
	tokenOnly.Use(middleware.TokenMiddleware(deps.Verifier))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))

	generationLimit := middleware.RateLimitMiddleware(deps.GenerationLimit)

	NewAuthHandler(tokenOnly, protected, deps.AuthUC)
	NewUserHandler(protected, deps.UserUC)
	NewCompanyHandler(protected, deps.CompanyUC)
	NewTemplateHandler(protected, deps.TemplateUC, generationLimit)
	NewDocumentHandler(protected, deps.DocumentUC, generationLimit)
	NewCandidateHandler(protected, deps.CandidateUC, deps.ApplicationUC, generationLimit)
	NewJobHandler(api, protected, deps.JobUC, deps.ApplicationUC)
	NewApplicationHandler(protected, deps.ApplicationUC)

	return r
}
