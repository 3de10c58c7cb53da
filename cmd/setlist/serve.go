package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aretw0/setlist"
	"github.com/aretw0/setlist/internal/config"
	httpAdapter "github.com/aretw0/setlist/internal/adapters/http"
	"github.com/aretw0/setlist/internal/presentation/tui"
	"github.com/aretw0/setlist/pkg/lang"
	"github.com/aretw0/setlist/pkg/observability"
	"github.com/aretw0/setlist/pkg/tokencache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves form decoding, the token cache, /metrics and /healthz over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			tokens, closeTokens, err := newTokenCache(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeTokens()

			detector, err := lang.NewDetector(cfg.Lang.Cookie, cfg.Lang.Supported...)
			if err != nil {
				return err
			}

			handler := httpAdapter.NewHandler(httpAdapter.Options{
				Tokens:   tokens,
				Lang:     detector,
				Metrics:  observability.NewMetrics(prometheus.DefaultRegisterer),
				Gatherer: prometheus.DefaultGatherer,
				Logger:   logger,
			})

			srv := &http.Server{
				Addr:              cfg.Listen,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			if term.IsTerminal(int(os.Stderr.Fd())) {
				tui.PrintBanner(os.Stderr, strings.TrimSpace(setlist.Version))
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("starting setlist server", "addr", srv.Addr, "tokens", cfg.Tokens.Backend)
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-serverErrors:
				return fmt.Errorf("server error: %w", err)

			case sig := <-shutdown:
				logger.Info("shutting down", "signal", sig.String())

				// Give outstanding requests a deadline for completion.
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					logger.Warn("graceful shutdown did not complete", "error", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
				}
				logger.Info("setlist server stopped gracefully")
				return nil
			}
		},
	}
}

func newTokenCache(ctx context.Context, cfg config.Config, logger *slog.Logger) (tokencache.Cache, func(), error) {
	cache, closeFn, err := newTokenBackend(ctx, cfg, logger)
	if err != nil || cfg.Tokens.EncryptionKey == "" {
		return cache, closeFn, err
	}

	key, err := tokencache.ParseKey(cfg.Tokens.EncryptionKey)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	mw, err := tokencache.NewEncryption(tokencache.EncryptionConfig{ActiveKey: key})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.Info("token encryption enabled")
	return mw(cache), closeFn, nil
}

func newTokenBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (tokencache.Cache, func(), error) {
	if cfg.Tokens.Backend != config.BackendRedis {
		return tokencache.NewMemory(), func() {}, nil
	}

	r := tokencache.NewRedis(cfg.Tokens.Redis.Addr, cfg.Tokens.Redis.Password, cfg.Tokens.Redis.DB)
	if ctx == nil {
		ctx = context.Background()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		_ = r.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.Tokens.Redis.Addr, err)
	}
	logger.Info("token cache connected", "backend", "redis", "addr", cfg.Tokens.Redis.Addr)

	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("closing redis", "error", err)
		}
	}, nil
}
