package anytype

import (
	"context"
	"net/http"
)

func (c *Client) ListTypes(ctx context.Context, spaceID string, p Page) (*List[Type], error) {
	var out List[Type]
	if _, err := c.get(ctx, pageQuery("/spaces/"+esc(spaceID)+"/types", p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetType(ctx context.Context, spaceID, typeID string) (*Type, error) {
	var out struct {
		Type Type `json:"type"`
	}
	if _, err := c.get(ctx, "/spaces/"+esc(spaceID)+"/types/"+esc(typeID), &out); err != nil {
		return nil, err
	}
	return &out.Type, nil
}

func (c *Client) CreateType(ctx context.Context, spaceID string, req CreateTypeRequest) (*Type, error) {
	var out struct {
		Type Type `json:"type"`
	}
	if _, err := c.Do(ctx, http.MethodPost, "/spaces/"+esc(spaceID)+"/types", req, &out); err != nil {
		return nil, err
	}
	return &out.Type, nil
}

func (c *Client) ListProperties(ctx context.Context, spaceID string, p Page) (*List[Property], error) {
	var out List[Property]
	if _, err := c.get(ctx, pageQuery("/spaces/"+esc(spaceID)+"/properties", p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProperty(ctx context.Context, spaceID string, req CreatePropertyRequest) (*Property, error) {
	if !req.Format.Valid() {
		return nil, &UnknownFormatError{Format: string(req.Format)}
	}
	var out struct {
		Property Property `json:"property"`
	}
	if _, err := c.Do(ctx, http.MethodPost, "/spaces/"+esc(spaceID)+"/properties", req, &out); err != nil {
		return nil, err
	}
	return &out.Property, nil
}

func tagsPath(spaceID, propertyID string) string {
	return "/spaces/" + esc(spaceID) + "/properties/" + esc(propertyID) + "/tags"
}

func (c *Client) ListTags(ctx context.Context, spaceID, propertyID string, p Page) (*List[Tag], error) {
	var out List[Tag]
	if _, err := c.get(ctx, pageQuery(tagsPath(spaceID, propertyID), p), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTag(ctx context.Context, spaceID, propertyID string, req CreateTagRequest) (*Tag, error) {
	var out struct {
		Tag Tag `json:"tag"`
	}
	if _, err := c.Do(ctx, http.MethodPost, tagsPath(spaceID, propertyID), req, &out); err != nil {
		return nil, err
	}
	return &out.Tag, nil
}
