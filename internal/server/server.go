// Package server implements the UserAPI: registration, login, profiles,
// admin tooling and recruiter links under /api/v1.
//
// @title TalentFit UserAPI
// @version 2.0
// @description Accounts and authentication for the TalentFit job board
// @host localhost:8000
// @BasePath /api/v1
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/talentfit/talentfit/internal/accounts"
	"github.com/talentfit/talentfit/internal/auth"
	"github.com/talentfit/talentfit/internal/config"
	"github.com/talentfit/talentfit/internal/database"
	"github.com/talentfit/talentfit/internal/models"
	"github.com/talentfit/talentfit/internal/ratelimit"
	"github.com/talentfit/talentfit/internal/tasks"
	"github.com/talentfit/talentfit/internal/uploads"
)

const serviceName = "UserAPI"

// Server represents the HTTP server
type Server struct {
	router      *gin.Engine
	db          *gorm.DB
	config      *config.Config
	logger      zerolog.Logger
	validator   *validator.Validate
	tokens      *auth.TokenIssuer
	accounts    *accounts.Service
	asynqClient *asynq.Client
	redis       *redis.Client
	version     string
}

// New creates a new server instance with its database, queue and limiter connections
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := database.Open(cfg.Database.URL, zlog)
	if err != nil {
		return nil, err
	}

	files, err := uploads.NewStore(
		uploads.ProfilePictures(cfg.Uploads.ProfilePicturesDir),
		uploads.CVs(cfg.Uploads.CVDir),
	)
	if err != nil {
		return nil, err
	}

	// Initialize Asynq client for enqueueing verification e-mails
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})
	limiter := ratelimit.New(rdb, "resend_verification", cfg.Auth.ResendLimit, cfg.Auth.ResendWindow)

	accountsService := accounts.NewService(db, files, tasks.NewQueueMailer(asynqClient), limiter, accounts.Options{
		RequireEmailVerification: cfg.Auth.RequireEmailVerification,
		VerificationCodeTTL:      cfg.Auth.VerificationCodeTTL,
	}, zlog)

	if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
		if _, err := accountsService.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, "Administrador"); err != nil {
			return nil, err
		}
	}

	server := newServer(cfg, db, accountsService, zlog, version)
	server.asynqClient = asynqClient
	server.redis = rdb

	return server, nil
}

func newServer(cfg *config.Config, db *gorm.DB, accountsService *accounts.Service, zlog zerolog.Logger, version string) *Server {
	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: newValidator(),
		tokens:    auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		accounts:  accountsService,
		version:   version,
	}

	server.setupRouter()
	return server
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", internalKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s.router.Static("/profile_pictures", s.config.Uploads.ProfilePicturesDir)
	s.router.Static("/uploaded_cvs", s.config.Uploads.CVDir)

	v1 := s.router.Group("/api/v1")

	// Public endpoints
	v1.GET("/health", s.healthCheck)
	v1.POST("/register-candidato", s.registerCandidate)
	v1.POST("/register-empresa", s.registerCompany)
	v1.POST("/login", s.login)
	v1.POST("/complete-registration", s.completeRegistration)
	v1.POST("/verify-email", s.verifyEmail)
	v1.POST("/resend-verification", s.resendVerification)

	// Service-to-service endpoints
	internal := v1.Group("/internal")
	internal.Use(InternalAPIKeyMiddleware(s.config.Auth.InternalAPIKey, s.logger))
	{
		internal.GET("/users/:id", s.getUserInternal)
	}

	// Authenticated endpoints (JWT required)
	api := v1.Group("")
	api.Use(JWTAuthMiddleware(s.tokens, s.accounts, s.logger))
	{
		api.GET("/me", s.getCurrentUser)
		api.PUT("/me/candidato", RequireRole(s.logger, models.RoleCandidate), s.updateCandidateProfile)
		api.PUT("/me/empresa", RequireRole(s.logger, models.RoleCompany), s.updateCompanyProfile)

		// Recruiter side
		api.GET("/me/recruiting-for", s.recruitingFor)
		api.DELETE("/me/resign-from-company/:company_id", s.resignFromCompany)

		companies := api.Group("/companies")
		companies.Use(RequireRole(s.logger, models.RoleCompany))
		{
			companies.POST("/add-recruiter", s.addRecruiter)
			companies.GET("/my-recruiters", s.listRecruiters)
			companies.DELETE("/remove-recruiter", s.removeRecruiter)
		}

		admin := api.Group("/admin")
		admin.Use(RequireRole(s.logger, models.RoleAdmin))
		{
			admin.GET("/users", s.listUsers)
			admin.GET("/candidates", s.listCandidates)
			admin.GET("/companies/pending", s.listPendingCompanies)
			admin.POST("/companies/verify", s.verifyCompany)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("origin", c.GetHeader("Origin")).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"version":   s.version,
		"timestamp": time.Now().UTC(),
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.HTTP.Address,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", srv.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.logger.Error().Err(err).Msg("HTTP server error")
		s.close()
		return err
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.close()
	s.logger.Info().Msg("Server shutdown complete")
	return nil
}

func (s *Server) close() {
	if s.asynqClient != nil {
		if err := s.asynqClient.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing Asynq client")
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing Redis client")
		}
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}
}
