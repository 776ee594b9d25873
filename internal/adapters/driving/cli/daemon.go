package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/logger"
	"github.com/marciozomb13/FBEventSync/internal/metrics"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run periodic sync passes until interrupted",
	Long: `Runs a sync pass immediately and then on the configured interval
(sync_interval_seconds, default 3600) until SIGINT or SIGTERM.

When metrics_addr is set, Prometheus metrics are served on that address
under /metrics. An interval of 0 disables periodic syncing; the daemon then
only serves metrics and waits for a signal.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	if syncEngine == nil {
		return errors.New("sync engine not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			logger.Info("serving metrics on %s", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server: %v", err)
			}
		}()
	}

	if cfg.SyncIntervalSeconds > 0 {
		runPass(ctx)

		c := cron.New()
		spec := fmt.Sprintf("@every %ds", cfg.SyncIntervalSeconds)
		if _, err := c.AddFunc(spec, func() { runPass(ctx) }); err != nil {
			return fmt.Errorf("scheduling sync: %w", err)
		}
		c.Start()
		defer c.Stop()

		logger.Info("daemon started, syncing every %ds", cfg.SyncIntervalSeconds)
	} else {
		logger.Info("daemon started with periodic sync disabled")
	}

	<-ctx.Done()
	cmd.Println("Shutting down.")

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown: %v", err)
		}
	}
	return nil
}

// runPass triggers one pass and swallows the expected skip conditions; the
// daemon keeps running regardless of individual pass outcomes.
func runPass(ctx context.Context) {
	stats, err := syncEngine.TriggerSync(ctx, cfg.Account)
	switch {
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrSyncInProgress):
		logger.Debug("pass skipped: %v", err)
	case errors.Is(err, domain.ErrReauthRequired):
		// Already surfaced through the notifier.
	case err != nil:
		logger.Error("sync pass failed: %v", err)
	default:
		logger.Info("pass complete: %s", stats.Summary())
	}
}
