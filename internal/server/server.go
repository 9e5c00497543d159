// Package server exposes a draft session over HTTP: a REST API under /api
// and the MCP streamable endpoint, both behind the same API-key check.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"auction-draft-mcp/internal/app"
	"auction-draft-mcp/internal/config"
)

// Version is reported in the MCP handshake.
const Version = "0.3.0"

type Server struct {
	app    *app.App
	cfg    config.ServerConfig
	apiKey string
	log    *logrus.Logger

	router *gin.Engine
	mcp    *mcp.Server
	tools  []toolInfo
}

// New builds the router. apiKey may be empty only when cfg.RequireAuth is
// false.
func New(a *app.App, cfg config.ServerConfig, apiKey string) (*Server, error) {
	apiKey = strings.TrimSpace(apiKey)
	if cfg.RequireAuth && apiKey == "" {
		return nil, fmt.Errorf("%s is required (set env var or run with --require-auth=false)", config.APIKeyEnv)
	}
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		app:    a,
		cfg:    cfg,
		apiKey: apiKey,
		log:    a.Log,
		router: gin.New(),
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "auction-draft-mcp",
			Version: Version,
		}, nil),
		tools: make([]toolInfo, 0, 16),
	}
	registerTools(s.mcp, &s.tools, a)
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLog())

	authed := s.router.Group("/", s.withAuth())
	authed.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	authed.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": s.tools})
	})

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
	authed.Any(s.cfg.MCPPath, gin.WrapH(handler))

	s.registerAPI(authed.Group("/api"))
}

// withAuth accepts the key in the configured header or as a bearer token.
func (s *Server) withAuth() gin.HandlerFunc {
	header := s.cfg.AuthHeader
	if header == "" {
		header = "X-API-Key"
	}
	return func(c *gin.Context) {
		if s.apiKey == "" {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(header))
		if key == "" {
			if authz := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Debug("request")
	}
}

// Handler is the root http.Handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{"addr": s.cfg.Addr, "mcp_path": s.cfg.MCPPath}).Info("MCP HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
