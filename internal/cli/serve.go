package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/server"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison HTTP API",
		Long: `Serve starts an HTTP server exposing plan comparison over JSON and multipart
uploads. Settings are read from the server configuration file; a missing file
means defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version)
		},
	}

	cmd.Flags().String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().String("address", "", "listen address override (e.g. :8080)")
	cmd.Flags().String("max-upload-size", "", "upload size limit override (e.g. 256K, 4M)")
	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	path, _ := cmd.Flags().GetString("server-config")
	cfg, err := server.LoadConfig(path)
	if err != nil {
		return err
	}

	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.Address = address
	}
	if size, _ := cmd.Flags().GetString("max-upload-size"); size != "" {
		bytes, err := server.ParseSize(size)
		if err != nil {
			return err
		}
		cfg.SetUploadSizeBytes(bytes)
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	logger, err := InitializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("server configuration loaded",
		zap.String("op", "cli.serve"),
		zap.String("address", cfg.Address),
		zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, logger, cfg, version)
}
