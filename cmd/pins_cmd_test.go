package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nextlevelbuilder/anyctl/internal/anytype"
	"github.com/nextlevelbuilder/anyctl/internal/pins"
)

func TestPinSuffix(t *testing.T) {
	tests := []struct {
		list, space, want string
	}{
		{"", "", pins.SuffixGlobalSearch},
		{"", "sp1", pins.SpaceSuffix("sp1", spaceView)},
		{"custom", "sp1", "custom"},
	}
	for _, tt := range tests {
		if got := pinSuffix(tt.list, tt.space); got != tt.want {
			t.Errorf("pinSuffix(%q, %q) = %q, want %q", tt.list, tt.space, got, tt.want)
		}
	}
}

func TestObjectLabel(t *testing.T) {
	if got := objectLabel(nil); got != "Object" {
		t.Errorf("nil type: %q", got)
	}
	if got := objectLabel(&anytype.Type{Name: "Task"}); got != "Task" {
		t.Errorf("named type: %q", got)
	}
}

func TestFailureTitle(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{anytype.ErrConnection, "Anytype is not reachable"},
		{fmt.Errorf("get: %w", &anytype.APIError{Status: 403}), "Permission denied"},
		{&anytype.APIError{Status: 404}, "Not found"},
		{&anytype.ValidationError{Field: "code", Message: "x"}, "Invalid input"},
		{errors.New("boom"), "Error"},
	}
	for _, tt := range tests {
		if got := failureTitle(tt.err); got != tt.want {
			t.Errorf("failureTitle(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
