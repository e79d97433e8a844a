package anytype

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// IconFormat tags the wire shape of an icon.
type IconFormat string

const (
	IconFormatEmoji IconFormat = "emoji"
	IconFormatFile  IconFormat = "file"
	IconFormatIcon  IconFormat = "icon"
)

// Icon is the icon object as sent by the API.
type Icon struct {
	Format IconFormat `json:"format"`
	Emoji  string     `json:"emoji,omitempty"`
	File   string     `json:"file,omitempty"`
	Name   string     `json:"name,omitempty"`
	Color  string     `json:"color,omitempty"`
}

// IconKind is the resolved icon variant.
type IconKind int

const (
	IconNone IconKind = iota
	IconEmoji
	IconFile
	IconNamed
	IconLayoutDefault
)

// ResolvedIcon is what the UI renders. Value holds the emoji, the local
// file path, the icon name, or the layout glyph depending on Kind.
type ResolvedIcon struct {
	Kind  IconKind
	Value string
	Color string
}

// FileFetcher turns a file id into something displayable (a local path).
// It reports ok=false instead of failing.
type FileFetcher func(ctx context.Context, fileID string) (string, bool)

var layoutGlyphs = map[string]string{
	"basic":       "📄",
	"profile":     "👤",
	"participant": "👤",
	"todo":        "☑️",
	"note":        "📝",
	"bookmark":    "🔖",
	"set":         "🗂️",
	"collection":  "🗂️",
	"chat":        "💬",
	"file":        "📎",
	"image":       "🖼️",
	"video":       "🎞️",
	"audio":       "🎵",
	"pdf":         "📕",
	"space":       "🪐",
	"type":        "🏷️",
}

// DefaultGlyph is used when nothing better is known.
const DefaultGlyph = "📄"

// ResolveIcon maps an API icon to a displayable variant. fetch may be nil,
// in which case file icons fall back to the layout default.
func ResolveIcon(ctx context.Context, icon *Icon, layout string, fetch FileFetcher) ResolvedIcon {
	if icon != nil {
		switch icon.Format {
		case IconFormatEmoji:
			if icon.Emoji != "" {
				return ResolvedIcon{Kind: IconEmoji, Value: icon.Emoji}
			}
		case IconFormatFile:
			if icon.File != "" && fetch != nil {
				if path, ok := fetch(ctx, icon.File); ok {
					return ResolvedIcon{Kind: IconFile, Value: path}
				}
			}
		case IconFormatIcon:
			if icon.Name != "" {
				return ResolvedIcon{Kind: IconNamed, Value: icon.Name, Color: icon.Color}
			}
		}
	}
	if glyph, ok := layoutGlyphs[layout]; ok {
		return ResolvedIcon{Kind: IconLayoutDefault, Value: glyph}
	}
	if layout == "" {
		return ResolvedIcon{Kind: IconNone}
	}
	return ResolvedIcon{Kind: IconLayoutDefault, Value: DefaultGlyph}
}

// Glyph returns a single terminal-friendly symbol for the icon.
func (r ResolvedIcon) Glyph() string {
	switch r.Kind {
	case IconEmoji, IconLayoutDefault:
		return r.Value
	case IconFile:
		return "🖼️"
	case IconNamed:
		return "◆"
	}
	return " "
}

// IconFetcher downloads file icons from the local gateway into a cache dir.
// Fetches are bounded by a short timeout and never return errors.
type IconFetcher struct {
	gatewayURL string
	dir        string
	http       *http.Client
	cache      *lru.Cache[string, string]
}

// NewIconFetcher caches up to size icons under dir.
func NewIconFetcher(gatewayURL, dir string, size int) (*IconFetcher, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("icon cache: %w", err)
	}
	return &IconFetcher{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		dir:        dir,
		http:       &http.Client{},
		cache:      cache,
	}, nil
}

// Fetch satisfies FileFetcher.
func (f *IconFetcher) Fetch(ctx context.Context, fileID string) (string, bool) {
	if path, ok := f.cache.Get(fileID); ok {
		return path, true
	}

	ctx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.gatewayURL+"/image/"+esc(fileID)+"?width=64", nil)
	if err != nil {
		return "", false
	}
	resp, err := f.http.Do(req)
	if err != nil {
		slog.Debug("icon fetch failed", "file", fileID, "error", err)
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", false
	}

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return "", false
	}
	path := filepath.Join(f.dir, safeFileName(fileID))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", false
	}
	f.cache.Add(fileID, path)
	return path, true
}

func safeFileName(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
