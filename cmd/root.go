package cmd

import (
	"fmt"
	"os"

	"s3kit/core/config"
	"s3kit/core/logger"
	"s3kit/feature/s3"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s3kit",
	Short: "S3-style object storage client",
	Long: `s3kit talks to S3-compatible object storage services.
It lists, creates and deletes buckets, stores and retrieves objects,
and can run a local in-memory endpoint for development.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 output
		// for a CLI tool.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger and client every command
// needs.
func setup() (*config.Config, *zap.Logger, *s3.Client, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := s3.NewFromConfig(cfg.Storage, cfg.Transport, s3.WithLogger(logg))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return cfg, logg, client, nil
}
