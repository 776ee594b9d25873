package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

// AuthGate decides whether a valid credential is present or whether the
// pass must abort and request re-authentication. It never forces an
// interactive prompt; a missing token surfaces as domain.ErrReauthRequired.
type AuthGate struct {
	store driven.CredentialStore
}

// NewAuthGate creates an auth gate over the given credential store.
func NewAuthGate(store driven.CredentialStore) *AuthGate {
	return &AuthGate{store: store}
}

// Acquire obtains the access token for the account. Failure kinds are
// preserved for statistics: ErrReauthRequired (no usable token),
// ErrAuthCancelled, ErrAuthUnavailable, and everything else mapped to
// ErrAuthIO. None of them corrupt persisted state.
func (g *AuthGate) Acquire(ctx context.Context, account string) (*domain.Credential, error) {
	token, err := g.store.GetToken(ctx, account, driven.TokenAccess)
	if err != nil {
		return nil, classifyAuthErr(err)
	}
	if token == "" {
		return nil, domain.ErrReauthRequired
	}

	logger.Debug("access token received for %s", account)
	return &domain.Credential{Account: account, AccessToken: token}, nil
}

// AcquireFeedCredentials fills in the uid/key pair that authorises the
// iCalendar export. If either token is missing the access token is
// invalidated so the next pass forces re-authentication, and the pass
// aborts with ErrReauthRequired.
func (g *AuthGate) AcquireFeedCredentials(ctx context.Context, cred *domain.Credential) error {
	uid, err := g.store.GetToken(ctx, cred.Account, driven.TokenFeedUID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return classifyAuthErr(err)
	}
	key, err := g.store.GetToken(ctx, cred.Account, driven.TokenFeedKey)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return classifyAuthErr(err)
	}

	if uid == "" || key == "" {
		logger.Warn("failed to obtain feed uid/key tokens for %s", cred.Account)
		// Invalidating one token is enough to force a full re-sync of the
		// credential set.
		if invErr := g.store.InvalidateToken(ctx, cred.Account, cred.AccessToken); invErr != nil {
			logger.Error("failed to invalidate access token: %v", invErr)
		}
		return domain.ErrReauthRequired
	}

	cred.FeedUID = uid
	cred.FeedKey = key
	return nil
}

// classifyAuthErr maps a credential store error onto the auth failure
// taxonomy. Unrecognised errors count as transport failures.
func classifyAuthErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrReauthRequired
	case errors.Is(err, domain.ErrAuthCancelled),
		errors.Is(err, domain.ErrAuthUnavailable),
		errors.Is(err, domain.ErrAuthIO):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrAuthIO, err)
	}
}
