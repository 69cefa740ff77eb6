package kroger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/recipecart/backend/internal/domain"
	"golang.org/x/oauth2"
)

// TokenKey is the cache key holding the session token
const TokenKey = "token"

// TokenStore keeps the single session token in a cache store
type TokenStore struct {
	store domain.CacheStore
}

// NewTokenStore creates a token store backed by store
func NewTokenStore(store domain.CacheStore) *TokenStore {
	return &TokenStore{store: store}
}

// Load returns the stored token. The bool is false when no token was saved yet.
func (s *TokenStore) Load(ctx context.Context) (*oauth2.Token, bool, error) {
	raw, ok := s.store.Get(ctx, TokenKey)
	if !ok {
		return nil, false, nil
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, false, fmt.Errorf("%w: decode stored token: %v", domain.ErrStorage, err)
	}
	return &token, true, nil
}

// Save replaces the stored token
func (s *TokenStore) Save(ctx context.Context, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", domain.ErrInvalidRequest)
	}

	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("%w: encode token: %v", domain.ErrStorage, err)
	}
	return s.store.Put(ctx, TokenKey, string(raw))
}
