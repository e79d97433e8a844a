package anytype

import (
	"context"
	"net/http"
)

func listPath(spaceID, listID string) string {
	return "/spaces/" + esc(spaceID) + "/lists/" + esc(listID)
}

// AddToList adds objects to a collection.
func (c *Client) AddToList(ctx context.Context, spaceID, listID string, objectIDs []string) error {
	body := map[string][]string{"objects": objectIDs}
	_, err := c.Do(ctx, http.MethodPost, listPath(spaceID, listID)+"/objects", body, nil)
	return err
}

// RemoveFromList removes one object from a collection.
func (c *Client) RemoveFromList(ctx context.Context, spaceID, listID, objectID string) error {
	_, err := c.Do(ctx, http.MethodDelete, listPath(spaceID, listID)+"/objects/"+esc(objectID), nil, nil)
	return err
}

func (c *Client) ListViews(ctx context.Context, spaceID, listID string, p Page) (*List[View], error) {
	var out List[View]
	if _, err := c.get(ctx, pageQuery(listPath(spaceID, listID)+"/views", p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListObjectsInView(ctx context.Context, spaceID, listID, viewID string, p Page) (*List[Object], error) {
	var out List[Object]
	path := listPath(spaceID, listID) + "/views/" + esc(viewID) + "/objects"
	if _, err := c.get(ctx, pageQuery(path, p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
