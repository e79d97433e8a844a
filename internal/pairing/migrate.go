package pairing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nextlevelbuilder/anyctl/internal/kv"
)

// Migrate moves a key stored under the legacy "app_key" name to "api_key".
// The absence of the legacy key is the idempotence guard, so calling it on
// every start is safe. If both keys exist the current one wins and the
// legacy key is dropped. Reports whether anything changed.
func Migrate(ctx context.Context, store kv.Store) (bool, error) {
	legacy, ok, err := store.Get(ctx, kv.KeyLegacyAppKey)
	if err != nil {
		return false, fmt.Errorf("read legacy key: %w", err)
	}
	if !ok {
		return false, nil
	}

	_, hasCurrent, err := store.Get(ctx, kv.KeyAPIKey)
	if err != nil {
		return false, fmt.Errorf("read api key: %w", err)
	}
	if !hasCurrent {
		if err := store.Set(ctx, kv.KeyAPIKey, legacy); err != nil {
			return false, fmt.Errorf("write api key: %w", err)
		}
	}
	if err := store.Delete(ctx, kv.KeyLegacyAppKey); err != nil {
		return false, fmt.Errorf("delete legacy key: %w", err)
	}

	slog.Info("migrated legacy api key", "copied", !hasCurrent)
	return true, nil
}
