package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/internal/config"
	"github.com/kubev2v/taskpool/internal/server/middlewares"
)

const (
	apiPrefix   = "/api/v1"
	metricsPath = "/metrics"
	healthPath  = "/health"
)

type Server struct {
	srv    *http.Server
	engine *gin.Engine
	tls    bool
	cert   string
	key    string
}

// NewServer builds the gin engine. registerHandlerFn receives the /api/v1
// group, which carries the auth middleware when auth is enabled. gatherer
// backs /metrics; a nil gatherer uses the default registry.
func NewServer(cfg *config.Configuration, gatherer prometheus.Gatherer, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	if cfg.Auth.Enabled && cfg.Auth.Secret == "" {
		return nil, errors.New("auth is enabled but no secret is set")
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	switch cfg.Server.ServerMode {
	case config.ServerModeProd:
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	logger := zap.L().Named("http")

	engine := gin.New()
	engine.Use(
		ginzap.GinzapWithConfig(logger, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			SkipPaths:  []string{healthPath, metricsPath},
		}),
		ginzap.RecoveryWithZap(logger, true),
	)

	engine.GET(healthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := engine.Group(apiPrefix)
	if cfg.Auth.Enabled {
		api.Use(middlewares.Authenticator([]byte(cfg.Auth.Secret), cfg.Auth.Issuer))
	}
	registerHandlerFn(api)

	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, apiPrefix) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Status(http.StatusNotFound)
	})

	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		tls:    cfg.Server.TLSCertFile != "" && cfg.Server.TLSKeyFile != "",
		cert:   cfg.Server.TLSCertFile,
		key:    cfg.Server.TLSKeyFile,
	}, nil
}

// Handler exposes the engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the server fails or is stopped. A stopped server
// returns http.ErrServerClosed. Request contexts derive from ctx.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	zap.S().Named("http").Infow("starting server", "addr", s.srv.Addr, "tls", s.tls)
	if s.tls {
		return s.srv.ListenAndServeTLS(s.cert, s.key)
	}
	return s.srv.ListenAndServe()
}

// Stop waits for in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
