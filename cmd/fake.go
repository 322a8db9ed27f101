package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"s3kit/core/config"
	"s3kit/core/logger"
	"s3kit/feature/fakes3"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// fakeCmd runs the in-memory endpoint for local development.
var fakeCmd = &cobra.Command{
	Use:   "fake",
	Short: "Run a local in-memory storage endpoint",
	Long: `Starts an S3-wire-compatible endpoint that keeps all state in memory.
When storage credentials are configured, incoming request signatures are
verified against them; otherwise anonymous requests are accepted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		srv := fakes3.New(cfg.Fake, cfg.Storage.Credentials(), logg)

		go func() {
			logg.Info("Starting fake endpoint",
				zap.String("addr", cfg.Fake.Addr),
				zap.String("base_host", cfg.Fake.BaseHost),
				zap.Bool("signed", cfg.Storage.Credentials() != nil))
			if err := srv.Listen(); err != nil {
				logg.Fatal("Endpoint failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down endpoint...")
		_ = srv.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(fakeCmd)
}
