// Package pins keeps small, user-ordered lists of pinned objects, one list
// per view. Lists live in the KV store as JSON arrays.
//
// Each operation reads the list, changes it and writes it back. Nothing
// makes that atomic across processes: two anyctl invocations racing on the
// same list can lose one of the updates.
package pins

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nextlevelbuilder/anyctl/internal/kv"
	"github.com/nextlevelbuilder/anyctl/internal/notify"
)

// MaxPinned is the size cap of every list.
const MaxPinned = 5

// SuffixGlobalSearch scopes the list shown above global search results.
const SuffixGlobalSearch = "search"

// SpaceSuffix scopes a list to one view of a space, e.g. "objects".
func SpaceSuffix(spaceID, view string) string {
	return spaceID + "_" + view
}

// Entry references a pinned object.
type Entry struct {
	SpaceID  string `json:"spaceId"`
	ObjectID string `json:"objectId"`
}

// Store manages pinned lists.
type Store struct {
	kv       kv.Store
	notifier notify.Notifier
}

func NewStore(store kv.Store, n notify.Notifier) *Store {
	if n == nil {
		n = notify.Discard{}
	}
	return &Store{kv: store, notifier: n}
}

func key(suffix string) string { return kv.PinnedPrefix + suffix }

// List returns the pinned entries in order. A missing list is empty.
func (s *Store) List(ctx context.Context, suffix string) ([]Entry, error) {
	raw, ok, err := s.kv.Get(ctx, key(suffix))
	if err != nil {
		return nil, fmt.Errorf("read pins %q: %w", suffix, err)
	}
	if !ok || raw == "" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode pins %q: %w", suffix, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, suffix string, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode pins %q: %w", suffix, err)
	}
	if err := s.kv.Set(ctx, key(suffix), string(data)); err != nil {
		return fmt.Errorf("write pins %q: %w", suffix, err)
	}
	return nil
}

func indexOf(entries []Entry, spaceID, objectID string) int {
	for i, e := range entries {
		if e.SpaceID == spaceID && e.ObjectID == objectID {
			return i
		}
	}
	return -1
}

// Add appends an entry. A duplicate or a full list is reported as a
// failure notice and leaves the list untouched; the returned error is
// reserved for storage problems.
func (s *Store) Add(ctx context.Context, spaceID, objectID, suffix, title, label string) error {
	entries, err := s.List(ctx, suffix)
	if err != nil {
		return err
	}
	if indexOf(entries, spaceID, objectID) >= 0 {
		s.notifier.Notify(notify.Notice{Style: notify.Failure, Title: label + " is already pinned"})
		return nil
	}
	if len(entries) >= MaxPinned {
		s.notifier.Notify(notify.Notice{
			Style: notify.Failure,
			Title: fmt.Sprintf("Can't pin more than %d items", MaxPinned),
		})
		return nil
	}

	entries = append(entries, Entry{SpaceID: spaceID, ObjectID: objectID})
	if err := s.save(ctx, suffix, entries); err != nil {
		s.notifier.Notify(notify.Notice{Style: notify.Failure, Title: "Failed to pin " + label, Message: err.Error()})
		return err
	}
	slog.Debug("pinned", "suffix", suffix, "space", spaceID, "object", objectID)
	s.notifier.Notify(notify.Notice{Style: notify.Success, Title: label + " pinned", Message: title})
	return nil
}

// Remove deletes an entry and reports the outcome as a notice.
func (s *Store) Remove(ctx context.Context, spaceID, objectID, suffix, title, label string) error {
	return s.remove(ctx, spaceID, objectID, suffix, title, label, true)
}

// RemoveSilent deletes an entry without any notice. It is used to prune
// pins whose object no longer exists.
func (s *Store) RemoveSilent(ctx context.Context, spaceID, objectID, suffix string) error {
	return s.remove(ctx, spaceID, objectID, suffix, "", "", false)
}

func (s *Store) remove(ctx context.Context, spaceID, objectID, suffix, title, label string, loud bool) error {
	entries, err := s.List(ctx, suffix)
	if err != nil {
		return err
	}
	i := indexOf(entries, spaceID, objectID)
	if i < 0 {
		if loud {
			s.notifier.Notify(notify.Notice{Style: notify.Failure, Title: label + " is not pinned"})
		}
		return nil
	}

	entries = append(entries[:i], entries[i+1:]...)
	if err := s.save(ctx, suffix, entries); err != nil {
		if loud {
			s.notifier.Notify(notify.Notice{Style: notify.Failure, Title: "Failed to unpin " + label, Message: err.Error()})
		}
		return err
	}
	slog.Debug("unpinned", "suffix", suffix, "space", spaceID, "object", objectID)
	if loud {
		s.notifier.Notify(notify.Notice{Style: notify.Success, Title: label + " unpinned", Message: title})
	}
	return nil
}

// MoveUp swaps the entry with its predecessor. Nothing is written when the
// entry is missing or already first.
func (s *Store) MoveUp(ctx context.Context, spaceID, objectID, suffix string) error {
	return s.move(ctx, spaceID, objectID, suffix, -1)
}

// MoveDown swaps the entry with its successor. Nothing is written when the
// entry is missing or already last.
func (s *Store) MoveDown(ctx context.Context, spaceID, objectID, suffix string) error {
	return s.move(ctx, spaceID, objectID, suffix, 1)
}

func (s *Store) move(ctx context.Context, spaceID, objectID, suffix string, dir int) error {
	entries, err := s.List(ctx, suffix)
	if err != nil {
		return err
	}
	i := indexOf(entries, spaceID, objectID)
	j := i + dir
	if i < 0 || j < 0 || j >= len(entries) {
		return nil
	}
	entries[i], entries[j] = entries[j], entries[i]
	return s.save(ctx, suffix, entries)
}
