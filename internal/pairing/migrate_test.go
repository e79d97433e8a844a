package pairing

import (
	"context"
	"testing"

	"github.com/nextlevelbuilder/anyctl/internal/kv"
)

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	store.Set(ctx, kv.KeyLegacyAppKey, "old")

	changed, err := Migrate(ctx, store)
	if err != nil || !changed {
		t.Fatalf("Migrate = %v, %v", changed, err)
	}
	if v, ok, _ := store.Get(ctx, kv.KeyAPIKey); !ok || v != "old" {
		t.Errorf("api_key = %q %v", v, ok)
	}
	if _, ok, _ := store.Get(ctx, kv.KeyLegacyAppKey); ok {
		t.Error("legacy key not removed")
	}

	writes := store.Writes()
	changed, err = Migrate(ctx, store)
	if err != nil || changed {
		t.Fatalf("second Migrate = %v, %v", changed, err)
	}
	if store.Writes() != writes {
		t.Error("second run must not write")
	}
}

func TestMigrate_CurrentKeyWins(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	store.Set(ctx, kv.KeyLegacyAppKey, "old")
	store.Set(ctx, kv.KeyAPIKey, "new")

	if _, err := Migrate(ctx, store); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := store.Get(ctx, kv.KeyAPIKey); v != "new" {
		t.Errorf("api_key = %q, want new", v)
	}
	if _, ok, _ := store.Get(ctx, kv.KeyLegacyAppKey); ok {
		t.Error("legacy key not removed")
	}
}

func TestMigrate_Nothing(t *testing.T) {
	changed, err := Migrate(context.Background(), kv.NewMemoryStore())
	if err != nil || changed {
		t.Fatalf("Migrate = %v, %v", changed, err)
	}
}
