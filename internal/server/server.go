// Package server runs the remote view of the shopping list.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/shoppinglist/internal/auth"
	"github.com/vyrodovalexey/shoppinglist/internal/config"
	"github.com/vyrodovalexey/shoppinglist/internal/handler"
	"github.com/vyrodovalexey/shoppinglist/internal/middleware"
)

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	config     *config.Config
	logger     *zap.Logger
	wsHandler  *handler.WebSocketHandler
}

// New creates a Server that drives screen. A nil authenticator disables
// authentication.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	screen handler.Broadcaster,
	authenticator auth.Authenticator,
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.setupMiddleware(authenticator)
	s.setupRoutes(screen)
	s.setupCORS()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures the middleware chain. The first one applied
// is the outermost.
func (s *Server) setupMiddleware(authenticator auth.Authenticator) {
	s.router.Use(mux.MiddlewareFunc(middleware.Recovery(s.logger)))
	s.router.Use(mux.MiddlewareFunc(middleware.RequestID()))

	if s.config.Metrics.Enabled {
		s.router.Use(mux.MiddlewareFunc(middleware.Metrics()))
	}

	s.router.Use(mux.MiddlewareFunc(middleware.Logging(s.logger)))

	if authenticator != nil {
		s.logger.Info("remote view authentication enabled",
			zap.String("method", string(authenticator.Method())),
		)
		s.router.Use(mux.MiddlewareFunc(middleware.Auth(authenticator, s.logger)))
	}
}

func (s *Server) setupRoutes(screen handler.Broadcaster) {
	handler.NewRESTHandler(screen, s.logger).RegisterRoutes(s.router)

	s.wsHandler = handler.NewWebSocketHandler(screen, s.logger)
	s.wsHandler.RegisterRoutes(s.router)

	if s.config.Metrics.Enabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
}

// setupCORS wraps the router so that preflights are answered before route
// matching. Unknown paths still reach the router and get 404.
func (s *Server) setupCORS() {
	allowedOrigins := []string{"*"}
	allowedMethods := []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowedHeaders := []string{
		"Content-Type",
		"Authorization",
		auth.APIKeyHeader,
		middleware.RequestIDHeader,
	}

	s.handler = middleware.CORS(allowedOrigins, allowedMethods, allowedHeaders)(s.router)
}

func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.Metrics.Enabled),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen and serve: %w", err)
	}

	return nil
}

// Shutdown closes WebSocket clients and then stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if s.wsHandler != nil {
		s.wsHandler.CloseAllConnections()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Router returns the server's router for testing purposes.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler returns the full HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}
