// Command evidently-local serves a local stand-in for the CloudWatch Evidently
// EvaluateFeature API. Point the CLI at it with EVIDENTLY_ENDPOINT_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/goevidently/internal/api"
	"github.com/TimurManjosov/goevidently/internal/config"
	"github.com/TimurManjosov/goevidently/internal/logging"
	"github.com/TimurManjosov/goevidently/internal/store"
	"github.com/TimurManjosov/goevidently/internal/telemetry"
)

const (
	serviceName     = "evidently-local"
	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout); err != nil {
		logger := logging.New(os.Stderr, serviceName, "info")
		logger.Fatal().Err(err).Msg("exiting")
	}
}

// run starts the API and metrics listeners and blocks until ctx is done or
// one of the listeners fails.
func run(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := logging.New(logOut, serviceName, cfg.LogLevel)
	if cfg.RolloutSaltGenerated() {
		logger.Warn().Msg("ROLLOUT_SALT not configured, generated a random salt. Launch assignments will change on restart.")
	}

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.DataDir, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("store %s: %w", cfg.StoreType, err)
	}
	defer st.Close()
	logger.Info().Str("store", cfg.StoreType).Str("data_dir", cfg.DataDir).Msg("store ready")

	telemetry.Init()
	srv, metricsSrv := newServers(cfg, st, logger)

	errc := make(chan error, 2)
	serve(logger, "api", srv, errc)
	serve(logger, "metrics", metricsSrv, errc)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errc:
	}

	ctxShut, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(ctxShut)
	_ = metricsSrv.Shutdown(ctxShut)
	logger.Info().Msg("stopped")
	return runErr
}

// newServers builds the Evidently API server and the metrics server.
func newServers(cfg *config.Config, st store.Store, logger zerolog.Logger) (*http.Server, *http.Server) {
	srvAPI := api.NewServer(st, api.Options{
		RolloutSalt:    cfg.RolloutSalt,
		RateLimitPerIP: cfg.RateLimitPerIP,
		Logger:         logger,
	})
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srvAPI.Router(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", telemetry.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return srv, metricsSrv
}

func serve(logger zerolog.Logger, name string, srv *http.Server, errc chan<- error) {
	go func() {
		logger.Info().Str("server", name).Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("%s server: %w", name, err)
		}
	}()
}
