package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync pass",
	Long: `Triggers one sync pass for the configured account: fetches the enabled
feeds, reconciles them into the local calendar store, and prints a summary.

Passes are rate limited to one per minute and five per clock hour. Use
--force to bypass the limiter for a manually requested sync.`,
	RunE: runSync,
}

var syncForce bool

func init() {
	syncCmd.Flags().BoolVar(&syncForce, "force", false, "Bypass the sync rate limiter")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncEngine == nil {
		return errors.New("sync engine not configured")
	}

	engine := syncEngine
	if syncForce {
		engine = newEngine(true)
	}

	stats, err := engine.TriggerSync(context.Background(), cfg.Account)
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		cmd.Println("Sync skipped: rate limited. Use --force to override.")
		return nil
	case errors.Is(err, domain.ErrSyncInProgress):
		cmd.Println("Sync skipped: another pass is already running.")
		return nil
	case errors.Is(err, domain.ErrReauthRequired):
		return fmt.Errorf("credentials missing or expired: run 'fbeventsync auth set' first")
	case err != nil:
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Sync done: %s\n", stats.Summary())
	return nil
}
