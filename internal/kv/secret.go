package kv

import (
	"context"
	"errors"
	"log/slog"

	"github.com/zalando/go-keyring"

	"github.com/nextlevelbuilder/anyctl/internal/crypto"
)

// KeyringService is the service name used for OS keyring entries.
const KeyringService = "anyctl"

// Keyring is the subset of the OS keyring used by SecretStore.
type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeyring) Set(service, user, pw string) error       { return keyring.Set(service, user, pw) }
func (osKeyring) Delete(service, user string) error        { return keyring.Delete(service, user) }

// OSKeyring returns the platform keyring.
func OSKeyring() Keyring { return osKeyring{} }

// SecretStore routes secret keys to the OS keyring and everything else to
// the wrapped store. When the keyring is unavailable, secrets fall back to
// the wrapped store, sealed with the encryption key if one is set.
type SecretStore struct {
	next    Store
	ring    Keyring // nil disables the keyring
	encKey  string
	secrets map[string]bool
}

// NewSecretStore wraps next. ring may be nil.
func NewSecretStore(next Store, ring Keyring, encryptionKey string) *SecretStore {
	return &SecretStore{
		next:   next,
		ring:   ring,
		encKey: encryptionKey,
		secrets: map[string]bool{
			KeyAPIKey:       true,
			KeyLegacyAppKey: true,
		},
	}
}

func (s *SecretStore) Get(ctx context.Context, key string) (string, bool, error) {
	if !s.secrets[key] {
		return s.next.Get(ctx, key)
	}
	if s.ring != nil {
		v, err := s.ring.Get(KeyringService, key)
		if err == nil {
			return v, true, nil
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			slog.Warn("keyring read failed, using local store", "key", key, "error", err)
		}
	}
	v, ok, err := s.next.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	plain, err := crypto.Open(v, s.encKey)
	if err != nil {
		return "", false, err
	}
	return plain, true, nil
}

func (s *SecretStore) Set(ctx context.Context, key, value string) error {
	if !s.secrets[key] {
		return s.next.Set(ctx, key, value)
	}
	if s.ring != nil {
		err := s.ring.Set(KeyringService, key, value)
		if err == nil {
			// drop any older copy so reads cannot see a stale value
			return s.next.Delete(ctx, key)
		}
		slog.Warn("keyring write failed, using local store", "key", key, "error", err)
	}
	sealed, err := crypto.Seal(value, s.encKey)
	if err != nil {
		return err
	}
	return s.next.Set(ctx, key, sealed)
}

func (s *SecretStore) Delete(ctx context.Context, key string) error {
	if s.secrets[key] && s.ring != nil {
		if err := s.ring.Delete(KeyringService, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			slog.Warn("keyring delete failed", "key", key, "error", err)
		}
	}
	return s.next.Delete(ctx, key)
}

func (s *SecretStore) Close() error {
	return s.next.Close()
}
