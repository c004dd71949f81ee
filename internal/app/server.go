// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/api"
	"github.com/vueltra/vueltra-property2-sub000/internal/config"
	"github.com/vueltra/vueltra-property2-sub000/internal/jobs"
	"github.com/vueltra/vueltra-property2-sub000/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the HTTP API process: router, listener and background jobs.
type Server struct {
	httpServer  *http.Server
	router      *gin.Engine
	cfg         *config.Config
	logger      *zap.Logger
	snapshotJob *jobs.SnapshotJob
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handler *api.Handler,
	snapshotJob *jobs.SnapshotJob,
) *Server {
	router := NewRouter(cfg, logger, handler)

	timeout := cfg.ServerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:  httpServer,
		router:      router,
		cfg:         cfg,
		logger:      logger,
		snapshotJob: snapshotJob,
	}
}

// NewRouter builds the gin engine with the global middleware and every route.
func NewRouter(cfg *config.Config, logger *zap.Logger, handler *api.Handler) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	if !cfg.CloudinaryEnabled() && cfg.UploadDir != "" {
		router.Static("/uploads", cfg.UploadDir)
	}

	handler.RegisterRoutes(router)
	return router
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	if s.snapshotJob != nil {
		if err := s.snapshotJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to start snapshot job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if s.snapshotJob != nil {
		s.snapshotJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
