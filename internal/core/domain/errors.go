package domain

import "errors"

// Domain errors represent sync-pass failures. Every failure path in the
// engine maps to exactly one of these so callers can dispatch with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a pass is already running. Concurrent
	// triggers are dropped, not queued.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrRateLimited indicates the pass gate rejected the trigger. This is
	// an expected, silent skip, not a fault.
	ErrRateLimited = errors.New("rate limited")

	// ErrReauthRequired indicates no usable credential exists and the user
	// must re-authenticate. The pass aborts after raising a notification.
	ErrReauthRequired = errors.New("reauthentication required")

	// Credential acquisition failure kinds. All three abort the pass and
	// are counted separately on the statistics accumulator.

	// ErrAuthCancelled indicates the user cancelled the credential request.
	ErrAuthCancelled = errors.New("credential request cancelled")

	// ErrAuthUnavailable indicates the authenticator itself failed.
	ErrAuthUnavailable = errors.New("authenticator unavailable")

	// ErrAuthIO indicates a transport failure while obtaining a credential.
	ErrAuthIO = errors.New("credential transport failure")

	// ErrParseFailure indicates a single feed entry could not be decoded.
	// The entry is skipped and counted; the pass continues.
	ErrParseFailure = errors.New("parse failure")

	// ErrTransportFailure indicates a feed fetch failed. The affected
	// calendar's walk stops (and is not finalized); other calendars proceed.
	ErrTransportFailure = errors.New("transport failure")

	// ErrStoreFailure indicates the local calendar store is unreachable.
	// The pass aborts and no finalize runs for the affected calendar.
	ErrStoreFailure = errors.New("local store failure")
)
