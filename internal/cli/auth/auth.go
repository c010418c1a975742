// Package auth stores the CLI's bearer token in the OS keychain.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"
)

const (
	service = "talentfit-cli"
)

// TokenStore holds at most one bearer token. Implementations never fail:
// an unavailable backend behaves as an empty store.
type TokenStore interface {
	Save(token string)
	Get() (string, bool)
	Clear()
}

// getKeyringKey returns a unique key for storing the token of one backend
func getKeyringKey(baseURL string) string {
	host := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("token-%s", strings.ToLower(host))
}

// KeyringStore persists the token in the OS keychain/credential manager
type KeyringStore struct {
	key    string
	logger zerolog.Logger
}

// NewKeyringStore creates a store for the backend at baseURL
func NewKeyringStore(baseURL string, logger zerolog.Logger) *KeyringStore {
	return &KeyringStore{
		key:    getKeyringKey(baseURL),
		logger: logger.With().Str("component", "token_store").Logger(),
	}
}

// Save overwrites the stored token
func (s *KeyringStore) Save(token string) {
	if err := keyring.Set(service, s.key, token); err != nil {
		s.logger.Debug().Err(err).Str("key", s.key).Msg("Keychain unavailable, token not saved")
	}
}

// Get returns the stored token, or false if none is stored or the keychain is unavailable
func (s *KeyringStore) Get() (string, bool) {
	token, err := keyring.Get(service, s.key)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			s.logger.Debug().Err(err).Str("key", s.key).Msg("Keychain unavailable, treating token as absent")
		}
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (s *KeyringStore) Clear() {
	if err := keyring.Delete(service, s.key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		s.logger.Debug().Err(err).Str("key", s.key).Msg("Keychain unavailable, token not cleared")
	}
}

// MemoryStore keeps the token for the lifetime of the process
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
