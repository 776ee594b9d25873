package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored credentials",
	Long: `Store and inspect the credentials sync passes run under.

Three secrets are involved:
  - an access token for the JSON feed
  - a uid and key pair authorising the iCal exports

All three are stored locally and never printed back or logged.

Examples:
  fbeventsync auth set --access-token "xxx" --feed-uid "123" --feed-key "yyy"
  fbeventsync auth status`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store credentials for the configured account",
	RunE:  runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials are stored",
	RunE:  runAuthStatus,
}

var authInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Discard all stored credentials for the configured account",
	Long: `Removes every stored credential so the next sync pass requests
re-authentication. Use this when a token is known to be expired or revoked.`,
	RunE: runAuthInvalidate,
}

// Flags for auth set.
var (
	authAccessToken string
	authFeedUID     string
	authFeedKey     string
)

func init() {
	authSetCmd.Flags().StringVar(&authAccessToken, "access-token", "", "Access token for the JSON feed")
	authSetCmd.Flags().StringVar(&authFeedUID, "feed-uid", "", "User id for the iCal feed URLs")
	authSetCmd.Flags().StringVar(&authFeedKey, "feed-key", "", "Secret key for the iCal feed URLs")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authInvalidateCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, _ []string) error {
	if credentials == nil {
		return errors.New("credential store not configured")
	}
	if authAccessToken == "" && authFeedUID == "" && authFeedKey == "" {
		return errors.New("nothing to store: pass at least one of --access-token, --feed-uid, --feed-key")
	}

	ctx := context.Background()
	pairs := []struct {
		kind  driven.TokenKind
		value string
	}{
		{driven.TokenAccess, authAccessToken},
		{driven.TokenFeedUID, authFeedUID},
		{driven.TokenFeedKey, authFeedKey},
	}

	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if err := credentials.SaveToken(ctx, cfg.Account, p.kind, p.value); err != nil {
			return err
		}
		cmd.Printf("Stored %s for account %s.\n", p.kind, cfg.Account)
	}
	return nil
}

func runAuthInvalidate(cmd *cobra.Command, _ []string) error {
	if credentials == nil {
		return errors.New("credential store not configured")
	}

	ctx := context.Background()
	removed := 0
	for _, kind := range []driven.TokenKind{driven.TokenAccess, driven.TokenFeedUID, driven.TokenFeedKey} {
		token, err := credentials.GetToken(ctx, cfg.Account, kind)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := credentials.InvalidateToken(ctx, cfg.Account, token); err != nil {
			return err
		}
		removed++
	}

	if removed == 0 {
		cmd.Printf("No credentials stored for account %s.\n", cfg.Account)
		return nil
	}
	cmd.Printf("Discarded %d credential(s) for account %s.\n", removed, cfg.Account)
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if credentials == nil {
		return errors.New("credential store not configured")
	}

	ctx := context.Background()
	for _, kind := range []driven.TokenKind{driven.TokenAccess, driven.TokenFeedUID, driven.TokenFeedKey} {
		_, err := credentials.GetToken(ctx, cfg.Account, kind)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			cmd.Printf("%-12s missing\n", kind)
		case err != nil:
			return err
		default:
			cmd.Printf("%-12s stored\n", kind)
		}
	}
	return nil
}
