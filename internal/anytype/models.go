package anytype

// DefaultPageSize is used when a Page has no limit.
const DefaultPageSize = 100

// Page selects a window of a paginated listing.
type Page struct {
	Offset int
	Limit  int
}

// Pagination is the server's paging envelope.
type Pagination struct {
	Total   int  `json:"total"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

// List is a page of results.
type List[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        *Icon  `json:"icon,omitempty"`
	GatewayURL  string `json:"gateway_url,omitempty"`
	NetworkID   string `json:"network_id,omitempty"`
}

type Object struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SpaceID    string          `json:"space_id"`
	Icon       *Icon           `json:"icon,omitempty"`
	Layout     string          `json:"layout,omitempty"`
	Snippet    string          `json:"snippet,omitempty"`
	Archived   bool            `json:"archived,omitempty"`
	Type       *Type           `json:"type,omitempty"`
	Properties []PropertyValue `json:"properties,omitempty"`
	Markdown   string          `json:"markdown,omitempty"`
}

type Type struct {
	ID         string     `json:"id"`
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	PluralName string     `json:"plural_name,omitempty"`
	Icon       *Icon      `json:"icon,omitempty"`
	Layout     string     `json:"layout,omitempty"`
	Archived   bool       `json:"archived,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Property describes a property definition in a space.
type Property struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Name   string         `json:"name"`
	Format PropertyFormat `json:"format"`
}

// PropertyValue is a property as attached to an object. Exactly one of
// the value fields is set, chosen by Format.
type PropertyValue struct {
	ID          string         `json:"id,omitempty"`
	Key         string         `json:"key"`
	Name        string         `json:"name,omitempty"`
	Format      PropertyFormat `json:"format"`
	Text        *string        `json:"text,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *Tag           `json:"select,omitempty"`
	MultiSelect []Tag          `json:"multi_select,omitempty"`
	Date        *string        `json:"date,omitempty"`
	Files       []string       `json:"files,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Email       *string        `json:"email,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Objects     []string       `json:"objects,omitempty"`
}

type Tag struct {
	ID    string `json:"id,omitempty"`
	Key   string `json:"key,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type Member struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	GlobalName string `json:"global_name,omitempty"`
	Identity   string `json:"identity,omitempty"`
	Icon       *Icon  `json:"icon,omitempty"`
	Role       string `json:"role,omitempty"`
	Status     string `json:"status,omitempty"`
}

type View struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

// Sort orders search results.
type Sort struct {
	PropertyKey string `json:"property_key"`
	Direction   string `json:"direction"` // "asc" or "desc"
}

type SearchRequest struct {
	Query string   `json:"query"`
	Types []string `json:"types,omitempty"`
	Sort  *Sort    `json:"sort,omitempty"`
}

type CreateSpaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateSpaceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateObjectRequest struct {
	Name       string          `json:"name"`
	TypeKey    string          `json:"type_key"`
	Icon       *Icon           `json:"icon,omitempty"`
	Body       string          `json:"body,omitempty"`
	TemplateID string          `json:"template_id,omitempty"`
	Properties []PropertyValue `json:"properties,omitempty"`
}

type UpdateObjectRequest struct {
	Name       *string         `json:"name,omitempty"`
	Icon       *Icon           `json:"icon,omitempty"`
	Markdown   *string         `json:"markdown,omitempty"`
	Properties []PropertyValue `json:"properties,omitempty"`
}

type CreateTypeRequest struct {
	Key        string     `json:"key,omitempty"`
	Name       string     `json:"name"`
	PluralName string     `json:"plural_name"`
	Layout     string     `json:"layout"`
	Icon       *Icon      `json:"icon,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

type CreatePropertyRequest struct {
	Key    string         `json:"key,omitempty"`
	Name   string         `json:"name"`
	Format PropertyFormat `json:"format"`
}

type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
