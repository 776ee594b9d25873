package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

// Ensure CredentialStore implements the interface.
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-memory implementation of driven.CredentialStore.
type CredentialStore struct {
	mu     sync.RWMutex
	tokens map[string]string // "account/kind" -> token
}

// NewCredentialStore creates a new in-memory credential store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		tokens: make(map[string]string),
	}
}

func tokenKey(account string, kind driven.TokenKind) string {
	return account + "/" + string(kind)
}

// GetToken retrieves one stored token by account and kind.
func (s *CredentialStore) GetToken(_ context.Context, account string, kind driven.TokenKind) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[tokenKey(account, kind)]
	if !ok {
		return "", fmt.Errorf("%w: no %s for account %s", domain.ErrNotFound, kind, account)
	}
	return token, nil
}

// SaveToken stores or replaces one token.
func (s *CredentialStore) SaveToken(_ context.Context, account string, kind driven.TokenKind, token string) error {
	if account == "" || token == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(account, kind)] = token
	return nil
}

// InvalidateToken removes any stored token matching the given value for the
// account, regardless of kind.
func (s *CredentialStore) InvalidateToken(_ context.Context, account, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, stored := range s.tokens {
		if stored == token && strings.HasPrefix(key, account+"/") {
			delete(s.tokens, key)
		}
	}
	return nil
}
