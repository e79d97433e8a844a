package anytype

import (
	"context"
	"log/slog"
	"net/http"
)

type objectEnvelope struct {
	Object Object `json:"object"`
}

func objectPath(spaceID, objectID string) string {
	return "/spaces/" + esc(spaceID) + "/objects/" + esc(objectID)
}

func (c *Client) ListObjects(ctx context.Context, spaceID string, p Page) (*List[Object], error) {
	var out List[Object]
	if _, err := c.get(ctx, pageQuery("/spaces/"+esc(spaceID)+"/objects", p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetObject fetches one object. A deleted object yields an error for which
// IsGone reports true.
func (c *Client) GetObject(ctx context.Context, spaceID, objectID string) (*Object, error) {
	var out objectEnvelope
	if _, err := c.get(ctx, objectPath(spaceID, objectID), &out); err != nil {
		return nil, err
	}
	return &out.Object, nil
}

func (c *Client) CreateObject(ctx context.Context, spaceID string, req CreateObjectRequest) (*Object, error) {
	var out objectEnvelope
	if _, err := c.Do(ctx, http.MethodPost, "/spaces/"+esc(spaceID)+"/objects", req, &out); err != nil {
		return nil, err
	}
	return &out.Object, nil
}

func (c *Client) UpdateObject(ctx context.Context, spaceID, objectID string, req UpdateObjectRequest) (*Object, error) {
	var out objectEnvelope
	if _, err := c.Do(ctx, http.MethodPatch, objectPath(spaceID, objectID), req, &out); err != nil {
		return nil, err
	}
	return &out.Object, nil
}

// DeleteObject archives the object and returns its final state.
func (c *Client) DeleteObject(ctx context.Context, spaceID, objectID string) (*Object, error) {
	var out objectEnvelope
	if _, err := c.Do(ctx, http.MethodDelete, objectPath(spaceID, objectID), nil, &out); err != nil {
		return nil, err
	}
	return &out.Object, nil
}

// ExportMarkdown returns the object body as markdown. It is best-effort:
// it gives up after a short timeout and reports ok=false instead of an error.
func (c *Client) ExportMarkdown(ctx context.Context, spaceID, objectID string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, bestEffortTimeout)
	defer cancel()

	var out objectEnvelope
	if _, err := c.get(ctx, objectPath(spaceID, objectID)+"?format=md", &out); err != nil {
		if isTimeout(err) {
			slog.Debug("markdown export timed out", "space", spaceID, "object", objectID)
		} else {
			slog.Debug("markdown export failed", "space", spaceID, "object", objectID, "error", err)
		}
		return "", false
	}
	return out.Object.Markdown, true
}
