package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/querylens/internal/config"
	"github.com/roach88/querylens/internal/explain"
	"github.com/roach88/querylens/internal/grammar"
	"github.com/roach88/querylens/internal/server"
	"github.com/roach88/querylens/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	ConfigPath   string
	Addr         string
	DatabasePath string
}

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the query explanation HTTP server",
		Long: `Start the HTTP server exposing the parse endpoints and, when a
database is configured, the saved-search endpoints. Flags override the
config file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := loadServeConfig(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var searches *store.Store
	if cfg.DatabasePath != "" {
		searches, err = store.Open(cfg.DatabasePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening store", err)
		}
		defer searches.Close()
		logger.Info("saved-search store open", "path", cfg.DatabasePath)
	} else {
		logger.Info("no database configured, saved-search endpoints disabled")
	}

	srv := server.New(explain.New(grammar.Default(), explain.WithLogger(logger)), searches, logger, Version)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "version", Version)
		errCh <- srv.Start(cfg.Addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitCommandError, "server failed", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return WrapExitError(ExitCommandError, "shutdown failed", err)
	}
	return nil
}

// loadServeConfig merges the config file with flag overrides.
func loadServeConfig(opts *ServeOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return cfg, err
		}
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	if opts.DatabasePath != "" {
		cfg.DatabasePath = opts.DatabasePath
	}
	return cfg, nil
}
