package anytype

import (
	"context"
	"net/http"
)

// ListSpaces returns a page of spaces along with the response headers,
// which carry the server's API version.
func (c *Client) ListSpaces(ctx context.Context, p Page) (*List[Space], http.Header, error) {
	var out List[Space]
	h, err := c.get(ctx, pageQuery("/spaces", p), &out)
	if err != nil {
		return nil, h, err
	}
	return &out, h, nil
}

func (c *Client) GetSpace(ctx context.Context, spaceID string) (*Space, error) {
	var out struct {
		Space Space `json:"space"`
	}
	if _, err := c.get(ctx, "/spaces/"+esc(spaceID), &out); err != nil {
		return nil, err
	}
	return &out.Space, nil
}

func (c *Client) CreateSpace(ctx context.Context, req CreateSpaceRequest) (*Space, error) {
	var out struct {
		Space Space `json:"space"`
	}
	if _, err := c.Do(ctx, http.MethodPost, "/spaces", req, &out); err != nil {
		return nil, err
	}
	return &out.Space, nil
}

func (c *Client) UpdateSpace(ctx context.Context, spaceID string, req UpdateSpaceRequest) (*Space, error) {
	var out struct {
		Space Space `json:"space"`
	}
	if _, err := c.Do(ctx, http.MethodPatch, "/spaces/"+esc(spaceID), req, &out); err != nil {
		return nil, err
	}
	return &out.Space, nil
}

func (c *Client) ListMembers(ctx context.Context, spaceID string, p Page) (*List[Member], error) {
	var out List[Member]
	if _, err := c.get(ctx, pageQuery("/spaces/"+esc(spaceID)+"/members", p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
