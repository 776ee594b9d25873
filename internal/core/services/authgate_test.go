package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciozomb13/FBEventSync/internal/adapters/driven/storage/memory"
	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

func TestAuthGate_AcquireReturnsStoredToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCredentialStore()
	require.NoError(t, store.SaveToken(ctx, "acc", driven.TokenAccess, "tok-123"))

	cred, err := NewAuthGate(store).Acquire(ctx, "acc")

	require.NoError(t, err)
	assert.Equal(t, "acc", cred.Account)
	assert.Equal(t, "tok-123", cred.AccessToken)
}

func TestAuthGate_AcquireMissingTokenRequestsReauth(t *testing.T) {
	store := memory.NewCredentialStore()

	_, err := NewAuthGate(store).Acquire(context.Background(), "acc")

	assert.ErrorIs(t, err, domain.ErrReauthRequired)
}

func TestAuthGate_AcquireFeedCredentialsFillsUIDAndKey(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCredentialStore()
	require.NoError(t, store.SaveToken(ctx, "acc", driven.TokenAccess, "tok"))
	require.NoError(t, store.SaveToken(ctx, "acc", driven.TokenFeedUID, "12345"))
	require.NoError(t, store.SaveToken(ctx, "acc", driven.TokenFeedKey, "secret"))

	gate := NewAuthGate(store)
	cred, err := gate.Acquire(ctx, "acc")
	require.NoError(t, err)

	require.NoError(t, gate.AcquireFeedCredentials(ctx, cred))
	assert.Equal(t, "12345", cred.FeedUID)
	assert.Equal(t, "secret", cred.FeedKey)
}

func TestAuthGate_MissingFeedKeyInvalidatesAccessToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCredentialStore()
	require.NoError(t, store.SaveToken(ctx, "acc", driven.TokenAccess, "tok"))
	require.NoError(t, store.SaveToken(ctx, "acc", driven.TokenFeedUID, "12345"))
	// Feed key deliberately absent.

	gate := NewAuthGate(store)
	cred, err := gate.Acquire(ctx, "acc")
	require.NoError(t, err)

	err = gate.AcquireFeedCredentials(ctx, cred)
	assert.ErrorIs(t, err, domain.ErrReauthRequired)

	// The access token must be gone so the next pass forces reauth.
	_, err = store.GetToken(ctx, "acc", driven.TokenAccess)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
