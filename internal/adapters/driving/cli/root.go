// Package cli implements the fbeventsync command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marciozomb13/FBEventSync/internal/adapters/driven/config/file"
	"github.com/marciozomb13/FBEventSync/internal/adapters/driven/notify"
	"github.com/marciozomb13/FBEventSync/internal/adapters/driven/storage/sqlite"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driving"
	"github.com/marciozomb13/FBEventSync/internal/core/services"
	"github.com/marciozomb13/FBEventSync/internal/feeds/graph"
	"github.com/marciozomb13/FBEventSync/internal/feeds/ical"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flags.
var (
	flagConfig  string
	flagVerbose bool
)

// Services wired by initServices for the subcommands.
var (
	cfg         *file.Config
	store       *sqlite.Store
	credentials driven.CredentialStore
	syncEngine  driving.SyncEngine
)

var rootCmd = &cobra.Command{
	Use:   "fbeventsync",
	Short: "Sync events and birthdays from a social network feed into a local calendar store",
	Long: `fbeventsync periodically pulls upcoming events and friend birthdays
from a remote feed and reconciles them into a local calendar database.

Run 'fbeventsync auth set' once to store credentials, then 'fbeventsync sync'
for a one-shot pass or 'fbeventsync daemon' for periodic syncing.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return initServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the config file (default ~/.fbeventsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")
}

// initServices loads configuration and wires the sync engine and its
// collaborators.
func initServices() error {
	var err error
	cfg, err = file.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err = sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	credentials = store.CredentialStore()

	syncEngine = newEngine(cfg.BypassRateLimit)
	return nil
}

// newEngine wires a sync engine against the opened store. bypass disables
// the pass rate limiter.
func newEngine(bypass bool) driving.SyncEngine {
	return services.NewEngine(
		version,
		services.NewPassGate(bypass),
		services.NewAuthGate(credentials),
		graph.NewClient(""),
		ical.NewClient(""),
		store.CalendarStore(),
		store.SyncStateStore(),
		cfg,
		notify.NewStderrNotifier(),
	)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
