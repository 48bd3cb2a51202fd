/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/chihoangvnn/postpreview/internal/auth"
	"github.com/chihoangvnn/postpreview/internal/cache"
	"github.com/chihoangvnn/postpreview/internal/config"
	"github.com/chihoangvnn/postpreview/internal/logutil"
	"github.com/chihoangvnn/postpreview/internal/metrics"
	"github.com/chihoangvnn/postpreview/internal/server"
	"github.com/chihoangvnn/postpreview/internal/telemetry"
)

var serveAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview HTTP service",
		Long: "Serve exposes the preview engine under " + server.BasePath + " with JWT authentication, " +
			"Prometheus metrics on /metrics and optional Redis caching of multi-platform previews.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := settings
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	if err := setGinMode(cfg.Server.Mode); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Environment:  cfg.Telemetry.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logutil.Warn("flush traces", "err", err)
		}
	}()

	opts := server.Options{
		Addr:            cfg.Server.Addr,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CacheTTL:        cfg.Redis.CacheTTL,
		Metrics:         metrics.New(),
	}

	if cfg.Auth.Disabled {
		logutil.Warn("authentication disabled", "env", config.EnvName("auth.disabled"))
	} else {
		opts.Verifier, err = auth.NewVerifier([]byte(cfg.Auth.JWTSecret))
		if err != nil {
			return err
		}
	}

	if cfg.Redis.URL != "" {
		store, err := cache.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			logutil.Warn("redis unavailable, serving without cache", "err", err)
		} else {
			defer store.Close()
			opts.Cache = store
		}
	}

	return server.New(opts).Run(ctx)
}

func setGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(mode)
		return nil
	default:
		return fmt.Errorf("unknown server mode %q (expected debug, release or test)", mode)
	}
}
