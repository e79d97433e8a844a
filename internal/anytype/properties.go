package anytype

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PropertyFormat is the closed set of property formats the API knows.
type PropertyFormat string

const (
	FormatText        PropertyFormat = "text"
	FormatNumber      PropertyFormat = "number"
	FormatSelect      PropertyFormat = "select"
	FormatMultiSelect PropertyFormat = "multi_select"
	FormatDate        PropertyFormat = "date"
	FormatFiles       PropertyFormat = "files"
	FormatCheckbox    PropertyFormat = "checkbox"
	FormatURL         PropertyFormat = "url"
	FormatEmail       PropertyFormat = "email"
	FormatPhone       PropertyFormat = "phone"
	FormatObjects     PropertyFormat = "objects"
)

// DateLayout is how dates are shown to the user.
const DateLayout = "Jan 2, 2006"

// DateTimeLayout is used when the stored date carries a time of day.
const DateTimeLayout = "Jan 2, 2006 15:04"

// UnknownFormatError is returned for formats outside the closed set.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown property format %q", e.Format)
}

// formatCodec converts between user input, the wire value and display text.
type formatCodec struct {
	parse   func(v *PropertyValue, raw string) error
	display func(v PropertyValue) string
}

// formatOrder fixes the order formats are offered in prompts.
var formatOrder = []PropertyFormat{
	FormatText, FormatNumber, FormatSelect, FormatMultiSelect, FormatDate,
	FormatFiles, FormatCheckbox, FormatURL, FormatEmail, FormatPhone, FormatObjects,
}

var codecs = map[PropertyFormat]formatCodec{
	FormatText: {
		parse:   func(v *PropertyValue, raw string) error { v.Text = &raw; return nil },
		display: func(v PropertyValue) string { return deref(v.Text) },
	},
	FormatNumber: {
		parse: func(v *PropertyValue, raw string) error {
			n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", raw)
			}
			v.Number = &n
			return nil
		},
		display: func(v PropertyValue) string {
			if v.Number == nil {
				return ""
			}
			return strconv.FormatFloat(*v.Number, 'f', -1, 64)
		},
	},
	FormatSelect: {
		parse: func(v *PropertyValue, raw string) error {
			id := strings.TrimSpace(raw)
			if id == "" {
				return fmt.Errorf("select requires a tag id")
			}
			v.Select = &Tag{ID: id}
			return nil
		},
		display: func(v PropertyValue) string {
			if v.Select == nil {
				return ""
			}
			return tagLabel(*v.Select)
		},
	},
	FormatMultiSelect: {
		parse: func(v *PropertyValue, raw string) error {
			for _, id := range splitList(raw) {
				v.MultiSelect = append(v.MultiSelect, Tag{ID: id})
			}
			return nil
		},
		display: func(v PropertyValue) string {
			names := make([]string, len(v.MultiSelect))
			for i, t := range v.MultiSelect {
				names[i] = tagLabel(t)
			}
			return strings.Join(names, ", ")
		},
	},
	FormatDate: {
		parse: func(v *PropertyValue, raw string) error {
			t, err := parseDate(raw)
			if err != nil {
				return err
			}
			s := t.Format(time.RFC3339)
			v.Date = &s
			return nil
		},
		display: func(v PropertyValue) string { return DisplayDate(deref(v.Date)) },
	},
	FormatFiles: {
		parse:   func(v *PropertyValue, raw string) error { v.Files = splitList(raw); return nil },
		display: func(v PropertyValue) string { return strings.Join(v.Files, ", ") },
	},
	FormatCheckbox: {
		parse: func(v *PropertyValue, raw string) error {
			b, err := parseBool(raw)
			if err != nil {
				return err
			}
			v.Checkbox = &b
			return nil
		},
		display: func(v PropertyValue) string {
			if v.Checkbox != nil && *v.Checkbox {
				return "yes"
			}
			return "no"
		},
	},
	FormatURL: {
		parse: func(v *PropertyValue, raw string) error {
			raw = strings.TrimSpace(raw)
			u, err := url.Parse(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("%q is not a valid URL", raw)
			}
			v.URL = &raw
			return nil
		},
		display: func(v PropertyValue) string { return deref(v.URL) },
	},
	FormatEmail: {
		parse: func(v *PropertyValue, raw string) error {
			raw = strings.TrimSpace(raw)
			if _, err := mail.ParseAddress(raw); err != nil {
				return fmt.Errorf("%q is not a valid email", raw)
			}
			v.Email = &raw
			return nil
		},
		display: func(v PropertyValue) string { return deref(v.Email) },
	},
	FormatPhone: {
		parse: func(v *PropertyValue, raw string) error {
			raw = strings.TrimSpace(raw)
			v.Phone = &raw
			return nil
		},
		display: func(v PropertyValue) string { return deref(v.Phone) },
	},
	FormatObjects: {
		parse:   func(v *PropertyValue, raw string) error { v.Objects = splitList(raw); return nil },
		display: func(v PropertyValue) string { return strings.Join(v.Objects, ", ") },
	},
}

// Valid reports whether f is a known format.
func (f PropertyFormat) Valid() bool {
	_, ok := codecs[f]
	return ok
}

// Formats lists every known format in prompt order.
func Formats() []PropertyFormat {
	out := make([]PropertyFormat, len(formatOrder))
	copy(out, formatOrder)
	return out
}

// ParsePropertyFormat validates a user-supplied format name.
func ParsePropertyFormat(s string) (PropertyFormat, error) {
	f := PropertyFormat(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", &UnknownFormatError{Format: s}
	}
	return f, nil
}

// ParsePropertyValue builds the wire value for key from user input.
func ParsePropertyValue(key string, f PropertyFormat, raw string) (PropertyValue, error) {
	codec, ok := codecs[f]
	if !ok {
		return PropertyValue{}, &UnknownFormatError{Format: string(f)}
	}
	v := PropertyValue{Key: key, Format: f}
	if err := codec.parse(&v, raw); err != nil {
		return PropertyValue{}, fmt.Errorf("property %s: %w", key, err)
	}
	return v, nil
}

// DisplayPropertyValue renders a property value for humans. Unknown
// formats render as an empty string.
func DisplayPropertyValue(v PropertyValue) string {
	codec, ok := codecs[v.Format]
	if !ok {
		return ""
	}
	return codec.display(v)
}

// DisplayDate renders an RFC 3339 timestamp with DateLayout, or
// DateTimeLayout when it has a time of day. Unparseable input is returned as-is.
func DisplayDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date (use YYYY-MM-DD)", raw)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off", "":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", raw)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func tagLabel(t Tag) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
