package pins

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
)

type fakeGetter struct {
	mu   sync.Mutex
	errs map[string]error
	hits int
}

func (f *fakeGetter) GetObject(_ context.Context, spaceID, objectID string) (*anytype.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	if err := f.errs[objectID]; err != nil {
		return nil, err
	}
	return &anytype.Object{ID: objectID, SpaceID: spaceID, Name: "name-" + objectID}, nil
}

func TestResolve_PrunesGone(t *testing.T) {
	s, _, rec := newTestStore()
	ctx := context.Background()
	seed(t, s, "x", 4)
	before := len(rec.Notices())

	api := &fakeGetter{errs: map[string]error{
		"obj1": &anytype.APIError{Status: 404},
		"obj3": &anytype.APIError{Status: 410},
	}}
	objs, err := NewResolver(s, api).Resolve(ctx, "x")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(objs) != 2 || objs[0].ID != "obj0" || objs[1].ID != "obj2" {
		t.Fatalf("objects = %+v", objs)
	}
	if api.hits != 4 {
		t.Errorf("hits = %d", api.hits)
	}

	left := mustList(t, s, "x")
	if len(left) != 2 || left[0].ObjectID != "obj0" || left[1].ObjectID != "obj2" {
		t.Errorf("remaining pins = %v", left)
	}
	if len(rec.Notices()) != before {
		t.Error("pruning must be silent")
	}
}

func TestResolve_OtherErrorKeepsPins(t *testing.T) {
	s, _, _ := newTestStore()
	seed(t, s, "x", 2)

	api := &fakeGetter{errs: map[string]error{"obj0": anytype.ErrConnection}}
	if _, err := NewResolver(s, api).Resolve(context.Background(), "x"); !errors.Is(err, anytype.ErrConnection) {
		t.Fatalf("err = %v", err)
	}
	if n := len(mustList(t, s, "x")); n != 2 {
		t.Errorf("pins = %d, want 2", n)
	}
}

func TestResolve_Empty(t *testing.T) {
	s, _, _ := newTestStore()
	objs, err := NewResolver(s, &fakeGetter{}).Resolve(context.Background(), "x")
	if err != nil || len(objs) != 0 {
		t.Fatalf("Resolve = %v, %v", objs, err)
	}
}
