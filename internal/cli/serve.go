package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/ledgerclean/internal/adapters/export"
	"github.com/eshaffer321/ledgerclean/internal/api"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/logging"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// shutdownTimeout bounds graceful shutdown after a signal.
const shutdownTimeout = 30 * time.Second

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port int
}

func newServeCommand(root *RootFlags) *cobra.Command {
	flags := &ServeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for uploading and reviewing ledgers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(cmd.Context(), root, flags)
		},
	}

	cmd.Flags().IntVar(&flags.Port, "port", 0, "Port to listen on (default from config api.port)")
	return cmd
}

// RunServe runs the API server until ctx is cancelled or SIGINT/SIGTERM arrives.
func RunServe(ctx context.Context, root *RootFlags, flags *ServeFlags) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	// Set up logging
	logger := logging.NewLoggerWithSystem(root.loggingConfig(cfg), "api")

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		logger.Warn("ignoring configured export format", "format", cfg.Export.Format)
		format = export.DefaultFormat
	}

	// Create API config
	apiCfg := api.Config{
		Port:           cfg.API.Port,
		AllowedOrigins: cfg.API.AllowedOrigins,
		CleanDefaults:  cfg.CleanOptions(),
		ExportFormat:   format,
	}
	if flags.Port > 0 {
		apiCfg.Port = flags.Port
	}

	server := api.NewServer(apiCfg, runstore.NewStore(), logger)

	// Handle graceful shutdown
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
	}()

	// Start server (blocks until shutdown)
	if err := server.Start(); err != nil {
		stop()
		<-done
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
