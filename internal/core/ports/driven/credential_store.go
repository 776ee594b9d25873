package driven

import "context"

// TokenKind identifies the kind of token held by the credential store.
type TokenKind string

const (
	// TokenAccess is the OAuth access token for the JSON feed.
	TokenAccess TokenKind = "access-token"

	// TokenFeedUID and TokenFeedKey authorise the iCalendar export.
	TokenFeedUID TokenKind = "feed-uid"
	TokenFeedKey TokenKind = "feed-key"
)

// CredentialStore is the credential collaborator. Lookups are
// non-interactive: a missing token is reported as domain.ErrNotFound, never
// by prompting the user.
type CredentialStore interface {
	// GetToken returns the stored token of the given kind for an account.
	// Returns an error wrapping domain.ErrNotFound when no usable token
	// exists.
	GetToken(ctx context.Context, account string, kind TokenKind) (string, error)

	// SaveToken stores a token, replacing any previous one of the same kind.
	SaveToken(ctx context.Context, account string, kind TokenKind, token string) error

	// InvalidateToken discards a token known to be unusable so the next
	// pass triggers re-authentication.
	InvalidateToken(ctx context.Context, account string, token string) error
}
