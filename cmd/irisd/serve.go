package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"irisd/internal/artifact"
	"irisd/internal/config"
	"irisd/internal/httpapi"
	"irisd/internal/inference"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr         string
		cacheSize    int
		maxBodyBytes int64
		corsOrigins  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("addr") {
				cfg.Addr = addr
			}
			if f.Changed("cache-size") {
				cfg.CacheSize = cacheSize
			}
			if f.Changed("max-body-bytes") {
				cfg.MaxBodyBytes = maxBodyBytes
			}
			if f.Changed("cors-origins") {
				cfg.CORS.Origins = splitCSV(corsOrigins)
				cfg.CORS.Enabled = len(cfg.CORS.Origins) > 0
			}
			log, closer, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", config.DefaultAddr, "HTTP listen address (env IRISD_ADDR)")
	f.IntVar(&cacheSize, "cache-size", 0, "Cache up to N prediction results (0 disables)")
	f.Int64Var(&maxBodyBytes, "max-body-bytes", config.DefaultMaxBodyBytes, "Maximum request body size")
	f.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated origins allowed by CORS; enables CORS when set")
	return cmd
}

// buildService opens the artifact store and initializes the service. A load
// failure is logged and leaves the service degraded; only setup errors are returned.
func buildService(cfg config.Config, log zerolog.Logger) (*inference.Service, error) {
	store, err := artifact.NewStore(cfg.Root, cfg.ModelName)
	if err != nil {
		return nil, err
	}
	svc, err := inference.New(inference.StoreLoader{Store: store},
		inference.WithLogger(log),
		inference.WithCacheSize(cfg.CacheSize),
	)
	if err != nil {
		return nil, err
	}
	if err := svc.Initialize(); err != nil {
		if artifact.IsNotFound(err) {
			log.Warn().Str("path", store.Path()).Msg("no model artifact; run `irisd train` first")
		}
	}
	return svc, nil
}

// newHandler applies the HTTP settings from cfg and builds the router.
func newHandler(cfg config.Config, log zerolog.Logger, svc httpapi.Service) http.Handler {
	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, nil, nil)
	return httpapi.NewMux(svc)
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	svc, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, log, svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("state", string(svc.State())).Msg("irisd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
