package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-paynow/app/service"
	"github.com/vibast-solutions/ms-go-paynow/config"
)

var workerMode bool

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Run expiration-related commands",
}

var expirePendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Place long-running pending orders on hold",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"expire_pending",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ExpirePendingInterval },
			func(s *service.GatewayService, ctx context.Context) error {
				return s.RunExpirePendingBatch(ctx)
			},
		)
	},
}

func init() {
	expireCmd.AddCommand(expirePendingCmd)
	rootCmd.AddCommand(expireCmd)

	expirePendingCmd.Flags().BoolVar(&workerMode, "worker", false, "run continuously on the configured interval")
}

func runCommand(
	name string,
	intervalFn func(cfg *config.Config) time.Duration,
	batchFn func(s *service.GatewayService, ctx context.Context) error,
) {
	cfg, gatewayService, cleanup := mustCreateGatewayService()
	defer cleanup()

	logger := logrus.WithField("job", name)

	runOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := batchFn(gatewayService, ctx); err != nil {
			logger.WithError(err).Error("Job batch failed")
		}
	}

	if !workerMode {
		runOnce()
		return
	}

	interval := intervalFn(cfg)
	if interval <= 0 {
		interval = time.Minute
	}

	logger.WithField("interval", interval.String()).Info("Starting job worker")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	runOnce()
	for {
		select {
		case <-ticker.C:
			runOnce()
		case <-quit:
			logger.Info("Job worker stopped")
			return
		}
	}
}
