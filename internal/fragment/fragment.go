// Package fragment defines the structural pieces of a document that feed narration.
package fragment

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// Role is the structural classification of a piece of extracted text.
// The zero value is not a valid role.
type Role uint8

const (
	Heading1 Role = iota + 1
	Heading2
	Heading3
	Heading4
	Heading5
	Heading6
	Paragraph
	ListItem
	Quote
	Strong
	Emphasis
)

var roleTags = map[Role]string{
	Heading1:  "h1",
	Heading2:  "h2",
	Heading3:  "h3",
	Heading4:  "h4",
	Heading5:  "h5",
	Heading6:  "h6",
	Paragraph: "p",
	ListItem:  "li",
	Quote:     "blockquote",
	Strong:    "strong",
	Emphasis:  "em",
}

var tagRoles = func() map[string]Role {
	m := make(map[string]Role, len(roleTags))
	for r, tag := range roleTags {
		m[tag] = r
	}
	return m
}()

// ParseRole maps a markup tag name to its Role.
func ParseRole(tag string) (Role, error) {
	r, ok := tagRoles[tag]
	if !ok {
		return 0, apperr.Validation("unknown fragment role %q", tag)
	}
	return r, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r >= Heading1 && r <= Emphasis
}

// HeadingDepth returns 1..6 for headings and 0 for every other role.
func (r Role) HeadingDepth() int {
	if r >= Heading1 && r <= Heading6 {
		return int(r-Heading1) + 1
	}
	return 0
}

// HeadingRole returns the heading role for depth 1..6.
func HeadingRole(depth int) (Role, bool) {
	if depth < 1 || depth > 6 {
		return 0, false
	}
	return Heading1 + Role(depth-1), true
}

func (r Role) String() string {
	if tag, ok := roleTags[r]; ok {
		return tag
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Fragment is one (role, text) pair produced by the markup extractor.
type Fragment struct {
	Role Role
	Text string
}

// New builds a Fragment from a markup tag and its text.
func New(tag, text string) (Fragment, error) {
	r, err := ParseRole(tag)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Role: r, Text: text}, nil
}

// ErrInvalidFragment is matched by every *InvalidFragmentError.
var ErrInvalidFragment = errors.New("invalid fragment")

// InvalidFragmentError identifies the offending fragment and value.
// Index is -1 when the sequence as a whole is rejected.
type InvalidFragmentError struct {
	Index int
	Field string
	Value string
}

func (e *InvalidFragmentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid fragment sequence: %s %s", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid fragment at index %d: %s %q", e.Index, e.Field, e.Value)
}

// Is lets callers match both ErrInvalidFragment and apperr.ErrValidation.
func (e *InvalidFragmentError) Is(target error) bool {
	return target == ErrInvalidFragment || target == apperr.ErrValidation
}
