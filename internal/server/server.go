// Package server exposes the preview engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/chihoangvnn/postpreview/internal/auth"
	"github.com/chihoangvnn/postpreview/internal/cache"
	"github.com/chihoangvnn/postpreview/internal/logutil"
	"github.com/chihoangvnn/postpreview/internal/metrics"
	"github.com/chihoangvnn/postpreview/internal/preview"
	"github.com/chihoangvnn/postpreview/internal/telemetry"
)

// BasePath is where the preview API is mounted.
const BasePath = "/api/content-preview"

// Options configures a Server. Verifier may be nil to serve without
// authentication, and Cache may be nil to disable response caching.
type Options struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	Verifier        *auth.Verifier
	Cache           cache.Store
	CacheTTL        time.Duration
	Metrics         *metrics.Metrics
}

// Server is the HTTP front of the preview engine.
type Server struct {
	opts     Options
	engine   *gin.Engine
	previews *preview.Service
	metrics  *metrics.Metrics
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		opts:     opts,
		engine:   gin.New(),
		previews: preview.New(),
		metrics:  opts.Metrics,
	}
	s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(otelgin.Middleware(telemetry.ServiceName))
	r.Use(requestLogger())
	r.Use(observeRequests(s.metrics))
	r.Use(cors.New(corsConfig(s.opts.AllowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group(BasePath)
	if s.opts.Verifier != nil {
		api.Use(auth.Middleware(s.opts.Verifier))
	}
	{
		api.POST("/generate", s.generate)
		api.POST("/multi-platform", s.multiPlatform)
		api.GET("/limits", s.allLimits)
		api.GET("/limits/:platform", s.platformLimits)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", headerRequestID}
	cfg.ExposeHeaders = []string{headerRequestID, headerCache}
	return cfg
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logutil.Info("listening", "addr", s.opts.Addr, "auth", s.opts.Verifier != nil, "cache", s.opts.Cache != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logutil.Infof("shutting down (timeout %s)", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
