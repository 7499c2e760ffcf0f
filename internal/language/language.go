// Package language guesses whether narration text is Spanish or English from lexical signal.
package language

import (
	"fmt"

	"github.com/nguyentantai21042004/narration-flow/internal/apperr"
)

// Code is a supported narration language.
type Code string

const (
	Spanish Code = "es"
	English Code = "en"
)

// ErrUnsupported is wrapped by ParseCode for codes outside the supported set.
var ErrUnsupported = fmt.Errorf("%w: language must be 'es' or 'en'", apperr.ErrValidation)

// ParseCode validates a language code supplied by configuration or the CLI.
func ParseCode(s string) (Code, error) {
	switch Code(s) {
	case Spanish, English:
		return Code(s), nil
	}
	return "", fmt.Errorf("%w, got %q", ErrUnsupported, s)
}

// Valid reports whether c is a supported code.
func (c Code) Valid() bool {
	return c == Spanish || c == English
}

func (c Code) String() string { return string(c) }
