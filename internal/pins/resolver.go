package pins

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
)

// ObjectGetter fetches a single object.
type ObjectGetter interface {
	GetObject(ctx context.Context, spaceID, objectID string) (*anytype.Object, error)
}

// Resolver turns pinned entries into live objects.
type Resolver struct {
	store *Store
	api   ObjectGetter
	// Concurrency bounds parallel fetches. Zero means MaxPinned.
	Concurrency int
}

func NewResolver(store *Store, api ObjectGetter) *Resolver {
	return &Resolver{store: store, api: api}
}

// Resolve fetches every pinned object of a list. Entries whose object is
// gone (404 or 410) are pruned silently. Any other failure aborts and is
// returned. The result keeps the pin order.
func (r *Resolver) Resolve(ctx context.Context, suffix string) ([]*anytype.Object, error) {
	entries, err := r.store.List(ctx, suffix)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	objects := make([]*anytype.Object, len(entries))
	gone := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = MaxPinned
	}
	g.SetLimit(limit)
	for i, e := range entries {
		g.Go(func() error {
			obj, err := r.api.GetObject(gctx, e.SpaceID, e.ObjectID)
			if err != nil {
				if anytype.IsGone(err) {
					gone[i] = true
					return nil
				}
				return err
			}
			objects[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Pruning runs after the fetches so list rewrites happen one at a time.
	out := make([]*anytype.Object, 0, len(entries))
	for i, e := range entries {
		if gone[i] {
			slog.Info("pruning stale pin", "suffix", suffix, "space", e.SpaceID, "object", e.ObjectID)
			if err := r.store.RemoveSilent(ctx, e.SpaceID, e.ObjectID, suffix); err != nil {
				slog.Warn("prune pin failed", "suffix", suffix, "error", err)
			}
			continue
		}
		out = append(out, objects[i])
	}
	return out, nil
}
