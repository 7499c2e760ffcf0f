package fragment

import (
	"errors"
	"testing"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		tag     string
		want    Role
		wantErr bool
	}{
		{"h1", Heading1, false},
		{"h6", Heading6, false},
		{"p", Paragraph, false},
		{"li", ListItem, false},
		{"blockquote", Quote, false},
		{"strong", Strong, false},
		{"em", Emphasis, false},
		{"div", 0, true},
		{"H1", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseRole(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRole(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %v, want %v", tt.tag, got, tt.want)
			}
			if err != nil && !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for r := Heading1; r <= Emphasis; r++ {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, err)
		}
	}
	if Role(0).Valid() || Role(42).Valid() {
		t.Error("out-of-range roles reported valid")
	}
	if Role(42).String() != "Role(42)" {
		t.Errorf("String() = %q", Role(42).String())
	}
}

func TestHeadingDepth(t *testing.T) {
	tests := []struct {
		role Role
		want int
	}{
		{Heading1, 1},
		{Heading2, 2},
		{Heading3, 3},
		{Heading6, 6},
		{Paragraph, 0},
		{Strong, 0},
	}
	for _, tt := range tests {
		if got := tt.role.HeadingDepth(); got != tt.want {
			t.Errorf("%v.HeadingDepth() = %d, want %d", tt.role, got, tt.want)
		}
	}

	if r, ok := HeadingRole(4); !ok || r != Heading4 {
		t.Errorf("HeadingRole(4) = %v, %v", r, ok)
	}
	if _, ok := HeadingRole(7); ok {
		t.Error("HeadingRole(7) should fail")
	}
}

func TestInvalidFragmentError(t *testing.T) {
	err := error(&InvalidFragmentError{Index: 2, Field: "role", Value: "Role(99)"})
	if !errors.Is(err, ErrInvalidFragment) {
		t.Error("should match ErrInvalidFragment")
	}
	if !errors.Is(err, apperr.ErrValidation) {
		t.Error("should match apperr.ErrValidation")
	}
	want := `invalid fragment at index 2: role "Role(99)"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
