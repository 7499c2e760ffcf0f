// Package narration turns extracted fragments into a single utterance for speech synthesis.
//
// Synthesis backends do not accept structural markup, so heading importance is
// re-expressed as pause density: literal ". " tokens around the heading text.
package narration

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/narration-flow/internal/fragment"
)

// Assemble renders fragments into one pause-annotated narration string.
func Assemble(frags []fragment.Fragment) (string, error) {
	if len(frags) == 0 {
		return "", &fragment.InvalidFragmentError{Index: -1, Field: "fragments", Value: "empty"}
	}

	parts := make([]string, 0, len(frags))
	for i, f := range frags {
		if err := validate(i, f); err != nil {
			return "", err
		}
		parts = append(parts, render(f))
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func validate(i int, f fragment.Fragment) error {
	if !f.Role.Valid() {
		return &fragment.InvalidFragmentError{Index: i, Field: "role", Value: f.Role.String()}
	}
	if !utf8.ValidString(f.Text) {
		return &fragment.InvalidFragmentError{Index: i, Field: "text", Value: strings.ToValidUTF8(f.Text, "�")}
	}
	if strings.TrimSpace(f.Text) == "" {
		return &fragment.InvalidFragmentError{Index: i, Field: "text", Value: f.Text}
	}
	return nil
}

func render(f fragment.Fragment) string {
	switch f.Role {
	case fragment.Heading1:
		return ". . . " + f.Text + ". . ."
	case fragment.Heading2:
		return ". . " + f.Text + ". ."
	case fragment.Heading3, fragment.Heading4, fragment.Heading5, fragment.Heading6:
		return ". " + f.Text + ". "
	case fragment.Paragraph, fragment.ListItem, fragment.Quote, fragment.Strong, fragment.Emphasis:
		return f.Text + ". "
	}
	panic("narration: unvalidated role " + f.Role.String())
}
