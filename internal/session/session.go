// Package session persists the networked-mode credentials: the bearer token
// and the user it was issued for, kept apart from the state blob.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vueltra/vueltra-property2-sub000/internal/model"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"
)

const DefaultKeyPrefix = "vueltra_"

// Session is an authenticated remote identity.
type Session struct {
	Token string
	User  model.User
}

type Store struct {
	repo     storage.Repository
	tokenKey string
	userKey  string
}

func NewStore(repo storage.Repository, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{repo: repo, tokenKey: prefix + "token", userKey: prefix + "user"}
}

// Load returns nil when no complete session is stored.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	token, found, err := s.repo.Get(ctx, s.tokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}
	if !found || len(token) == 0 {
		return nil, nil
	}
	raw, found, err := s.repo.Get(ctx, s.userKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}
	if !found {
		return nil, nil
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		// A half-written session is as good as none.
		return nil, nil
	}
	return &Session{Token: string(token), User: u}, nil
}

// Token returns the stored bearer token, or "".
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.repo.Get(ctx, s.tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return string(token), nil
}

func (s *Store) Save(ctx context.Context, token string, u model.User) error {
	if err := s.SaveUser(ctx, u); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, s.tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("failed to write session token: %w", err)
	}
	return nil
}

// SaveUser replaces the stored user and keeps the token.
func (s *Store) SaveUser(ctx context.Context, u model.User) error {
	raw, err := json.Marshal(u.Sanitized())
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	if err := s.repo.Set(ctx, s.userKey, raw); err != nil {
		return fmt.Errorf("failed to write session user: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.tokenKey); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	if err := s.repo.Delete(ctx, s.userKey); err != nil {
		return fmt.Errorf("failed to clear session user: %w", err)
	}
	return nil
}
