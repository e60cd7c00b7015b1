package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"dashboard/internal/config"
	"dashboard/internal/handler"
	"dashboard/internal/middleware"
	"dashboard/internal/session"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	sessions *session.Manager
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

func NewServer(cfg *config.Config, sessions *session.Manager, gatherer prometheus.Gatherer, logger *zap.Logger) (*Server, error) {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	templates, err := handler.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	s := &Server{
		router:   router,
		cfg:      cfg,
		sessions: sessions,
		gatherer: gatherer,
		logger:   logger.Named("server"),
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	h := handler.NewHandler(s.cfg, s.logger)

	s.router.Use(middleware.RequestLogger(s.logger), gin.Recovery())

	s.router.GET("/health", h.HealthCheck)
	if s.gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	// routes below belong to a browser session
	s.router.Use(middleware.SessionMiddleware(s.sessions, s.logger))
	h.RegisterRoutes(s.router)
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
