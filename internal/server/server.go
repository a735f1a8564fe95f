package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/internal/infrastructure/database"
	"github.com/bravo68web/odinpkg/internal/transport/http/middleware"
	"github.com/bravo68web/odinpkg/pkg/logger"
	"github.com/bravo68web/odinpkg/pkg/openapi"
)

// Version is reported in the OpenAPI document and the service logs
var Version = "dev"

type Server struct {
	*gin.Engine

	Config           *config.Config
	DB               *database.Database
	OpenAPIGenerator *openapi.Generator
	log              *logger.Logger
}

// New builds the gin engine with the logging and recovery middleware installed
func New(cfg *config.Config, db *database.Database) *Server {
	// Set Gin mode based on configuration
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RecoveryMiddleware(),
		middleware.LoggerMiddleware(),
	)

	generator := openapi.NewGenerator(engine, openapi.Info{
		Title:       "odinpkg API",
		Description: "Package registry for Odin libraries",
		Version:     Version,
	}, []openapi.Server{{URL: "/"}}, []openapi.Tag{
		{Name: "Auth", Description: "Login and sessions"},
		{Name: "Tokens", Description: "CLI tokens"},
		{Name: "Packages", Description: "Publishing and package lookups"},
		{Name: "Versions", Description: "Published versions"},
		{Name: "Catalog", Description: "Browsing, search and readme previews"},
		{Name: "Flags", Description: "Package reports and moderation"},
		{Name: "Users", Description: "Account listings"},
	})

	return &Server{
		Engine:           engine,
		Config:           cfg,
		DB:               db,
		OpenAPIGenerator: generator,
		log:              logger.Get().WithFields(logger.Component("server")),
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.ServerAddress(),
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
