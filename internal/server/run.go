package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"go.uber.org/zap"
)

// Run serves the comparison API on cfg.Address until ctx is cancelled, then
// shuts down gracefully within the configured timeout.
func Run(ctx context.Context, logger *zap.Logger, cfg *Config, version string) error {
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}
	return Serve(ctx, logger, listener, cfg, version)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, logger *zap.Logger, listener net.Listener, cfg *Config, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Handler:           NewHandler(logger, cfg.UploadSizeBytes(), version),
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "server.Serve"),
			zap.String("address", listener.Addr().String()),
		)
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server", zap.String("op", "server.Serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed",
			zap.String("op", "server.Serve"),
			zap.Error(err),
		)
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("failed to close HTTP server: %w", closeErr)
		}
	}
	return nil
}
