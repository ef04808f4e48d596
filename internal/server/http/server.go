// Package http exposes the service over HTTP: session transport,
// authentication and authorization middleware, and the auth/users handlers.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/config"
	"github.com/dmitrijs2005/gatekeeper/internal/server/ratelimit"
	"github.com/dmitrijs2005/gatekeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg     *config.Config
	log     logging.Logger
	users   *services.UserService
	session *SessionTransport
	limiter ratelimit.Limiter
	engine  *gin.Engine
}

func NewServer(cfg *config.Config, log logging.Logger, users *services.UserService, limiter ratelimit.Limiter) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:     cfg,
		log:     log,
		users:   users,
		session: NewSessionTransport(cfg.CookieValidityDuration, cfg.IsProduction()),
		limiter: limiter,
		engine:  engine,
	}
	engine.Use(s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", s.rateLimit("signup"), s.handleSignup)
		auth.POST("/login", s.rateLimit("login"), s.handleLogin)
		auth.POST("/logout", s.handleLogout)
	}

	users := api.Group("/users", s.authenticate())
	{
		users.GET("", s.requireAdmin(), s.handleListUsers)
		users.GET("/:id", s.requireSelfOrAdmin(), s.handleGetUser)
		users.PUT("/:id", s.requireSelfOrAdmin(), s.handleUpdateUser)
		users.DELETE("/:id", s.requireSelfOrAdmin(), s.handleDeleteUser)
	}
}

// Handler returns the routing tree, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.EndpointAddr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info(ctx, "http server started", "addr", s.cfg.EndpointAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// writeError sends the uniform error envelope and aborts the chain. The code
// is a stable machine-readable string; msg is for humans and never carries
// internal detail.
func writeError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": msg})
}
