package anytype

import (
	"context"
	"net/http"
)

// SearchGlobal searches across every space.
func (c *Client) SearchGlobal(ctx context.Context, req SearchRequest, p Page) (*List[Object], error) {
	var out List[Object]
	if _, err := c.Do(ctx, http.MethodPost, pageQuery("/search", p), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSpace searches within one space.
func (c *Client) SearchSpace(ctx context.Context, spaceID string, req SearchRequest, p Page) (*List[Object], error) {
	var out List[Object]
	if _, err := c.Do(ctx, http.MethodPost, pageQuery("/spaces/"+esc(spaceID)+"/search", p), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
