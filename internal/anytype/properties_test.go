package anytype

import (
	"errors"
	"testing"
)

func TestFormatsAreClosed(t *testing.T) {
	for _, f := range Formats() {
		if !f.Valid() {
			t.Errorf("format %q listed but has no codec", f)
		}
	}
	if len(Formats()) != len(codecs) {
		t.Errorf("Formats() has %d entries, codecs %d", len(Formats()), len(codecs))
	}
	var ufe *UnknownFormatError
	if _, err := ParsePropertyFormat("rich_text"); !errors.As(err, &ufe) {
		t.Errorf("expected UnknownFormatError, got %v", err)
	}
	if f, err := ParsePropertyFormat(" Multi_Select "); err != nil || f != FormatMultiSelect {
		t.Errorf("ParsePropertyFormat = %q, %v", f, err)
	}
}

func TestParseAndDisplay(t *testing.T) {
	tests := []struct {
		format PropertyFormat
		raw    string
		want   string
	}{
		{FormatText, "hello", "hello"},
		{FormatNumber, " 42.5 ", "42.5"},
		{FormatSelect, "tag1", "tag1"},
		{FormatMultiSelect, "a, b,,c", "a, b, c"},
		{FormatDate, "2024-03-05", "Mar 5, 2024"},
		{FormatDate, "2024-03-05T14:30", "Mar 5, 2024 14:30"},
		{FormatFiles, "f1,f2", "f1, f2"},
		{FormatCheckbox, "yes", "yes"},
		{FormatCheckbox, "false", "no"},
		{FormatURL, "https://anytype.io", "https://anytype.io"},
		{FormatEmail, "me@example.com", "me@example.com"},
		{FormatPhone, "+1 555", "+1 555"},
		{FormatObjects, "o1", "o1"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format)+"/"+tt.raw, func(t *testing.T) {
			v, err := ParsePropertyValue("k", tt.format, tt.raw)
			if err != nil {
				t.Fatalf("ParsePropertyValue: %v", err)
			}
			if v.Key != "k" || v.Format != tt.format {
				t.Errorf("value = %+v", v)
			}
			if got := DisplayPropertyValue(v); got != tt.want {
				t.Errorf("display = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		format PropertyFormat
		raw    string
	}{
		{FormatNumber, "abc"},
		{FormatDate, "tomorrow"},
		{FormatURL, "not a url"},
		{FormatEmail, "nobody"},
		{FormatCheckbox, "maybe"},
		{FormatSelect, "  "},
		{PropertyFormat("bogus"), "x"},
	}
	for _, tt := range tests {
		if _, err := ParsePropertyValue("k", tt.format, tt.raw); err == nil {
			t.Errorf("ParsePropertyValue(%s, %q) should fail", tt.format, tt.raw)
		}
	}
}

func TestDisplayNamedTags(t *testing.T) {
	v := PropertyValue{Format: FormatMultiSelect, MultiSelect: []Tag{{ID: "1", Name: "Work"}, {ID: "2"}}}
	if got := DisplayPropertyValue(v); got != "Work, 2" {
		t.Errorf("display = %q", got)
	}
	if DisplayDate("garbage") != "garbage" {
		t.Error("unparseable date should pass through")
	}
}
