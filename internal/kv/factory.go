package kv

import (
	"fmt"
	"path/filepath"

	"github.com/nextlevelbuilder/anyctl/internal/config"
)

// DBFileName is the SQLite file created under storage.data_dir.
const DBFileName = "anyctl.db"

// New builds the configured store, wrapped so that secret keys go through
// the keyring (when enabled) or are sealed with storage.encryption_key.
func New(cfg config.StorageConfig) (Store, error) {
	var base Store
	switch cfg.Driver {
	case "memory":
		base = NewMemoryStore()
	case "sqlite", "":
		s, err := OpenSQLite(filepath.Join(cfg.DataDir, DBFileName))
		if err != nil {
			return nil, fmt.Errorf("open kv store: %w", err)
		}
		base = s
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	var ring Keyring
	if cfg.UseKeyring {
		ring = OSKeyring()
	}
	return NewSecretStore(base, ring, cfg.EncryptionKey), nil
}
