package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/zedny-portal/internal/config"
)

type rootFlags struct {
	port     string
	dbPath   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "zedny",
		Short:         "Zedny portal web server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.port, "port", "", "HTTP port (overrides PORT)")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite path (overrides DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newSeedAdminCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.port != "" {
		cfg.Port = flags.port
	}
	if flags.dbPath != "" {
		cfg.DatabasePath = flags.dbPath
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogger(level slog.Level) {
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)
}
