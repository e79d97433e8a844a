package anytype

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolveIcon(t *testing.T) {
	fetchOK := func(_ context.Context, id string) (string, bool) { return "/cache/" + id, true }
	fetchFail := func(context.Context, string) (string, bool) { return "", false }

	tests := []struct {
		name   string
		icon   *Icon
		layout string
		fetch  FileFetcher
		want   ResolvedIcon
	}{
		{"emoji", &Icon{Format: IconFormatEmoji, Emoji: "🚀"}, "basic", nil, ResolvedIcon{Kind: IconEmoji, Value: "🚀"}},
		{"file", &Icon{Format: IconFormatFile, File: "bafy"}, "basic", fetchOK, ResolvedIcon{Kind: IconFile, Value: "/cache/bafy"}},
		{"file_fetch_fails", &Icon{Format: IconFormatFile, File: "bafy"}, "note", fetchFail, ResolvedIcon{Kind: IconLayoutDefault, Value: "📝"}},
		{"file_no_fetcher", &Icon{Format: IconFormatFile, File: "bafy"}, "todo", nil, ResolvedIcon{Kind: IconLayoutDefault, Value: "☑️"}},
		{"named", &Icon{Format: IconFormatIcon, Name: "document", Color: "blue"}, "", nil, ResolvedIcon{Kind: IconNamed, Value: "document", Color: "blue"}},
		{"nil_known_layout", nil, "bookmark", nil, ResolvedIcon{Kind: IconLayoutDefault, Value: "🔖"}},
		{"nil_unknown_layout", nil, "mystery", nil, ResolvedIcon{Kind: IconLayoutDefault, Value: DefaultGlyph}},
		{"nothing", nil, "", nil, ResolvedIcon{Kind: IconNone}},
		{"empty_emoji", &Icon{Format: IconFormatEmoji}, "", nil, ResolvedIcon{Kind: IconNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIcon(context.Background(), tt.icon, tt.layout, tt.fetch)
			if got != tt.want {
				t.Errorf("ResolveIcon = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIconFetcher_CachesAndFailsSoft(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/image/ok":
			w.Write([]byte("png-bytes"))
		case "/image/slow":
			time.Sleep(2 * bestEffortTimeout)
			w.Write([]byte("late"))
		default:
			w.WriteHeader(404)
		}
	}))
	defer srv.Close()

	f, err := NewIconFetcher(srv.URL, t.TempDir(), 8)
	if err != nil {
		t.Fatal(err)
	}

	path, ok := f.Fetch(context.Background(), "ok")
	if !ok {
		t.Fatal("expected icon")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("cached file = %q, %v", data, err)
	}
	if _, ok := f.Fetch(context.Background(), "ok"); !ok {
		t.Fatal("second fetch failed")
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1 (second fetch cached)", hits.Load())
	}

	if _, ok := f.Fetch(context.Background(), "missing"); ok {
		t.Error("404 should fail soft")
	}
	if _, ok := f.Fetch(context.Background(), "slow"); ok {
		t.Error("slow fetch should time out")
	}
}
