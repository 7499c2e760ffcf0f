package language

import (
	"fmt"
	"sync"

	"github.com/dlclark/regexp2"
)

// phraseBonus is added once for every canonical phrase found in the input.
const phraseBonus = 3

// SignalSpec is the uncompiled lexical signal for one language.
type SignalSpec struct {
	// Patterns are regular expressions whose non-overlapping matches each add one point.
	Patterns []string
	// Phrases are lower-case greetings or closings that add phraseBonus when present.
	Phrases []string
}

var (
	spanishSpec = SignalSpec{
		Patterns: []string{
			`[áéíóúñü]`,
			`\b(y|el|la|los|las|un|una|unos|unas|es|son|soy|eres|somos|sois)\b`,
			`\b(que|de|no|a|en|por|con|para|mi|tu|su|nuestro|vuestro)\b`,
		},
		Phrases: []string{"hola", "gracias", "por favor", "adiós", "buenos días", "buenas tardes", "buenas noches"},
	}

	englishSpec = SignalSpec{
		Patterns: []string{
			`\b(the|and|you|that|for|with|are|this|from|have)\b`,
			`\b(ing|ed|tion|ment|able|ible|ness|ship|hood|dom)\b`,
		},
		Phrases: []string{"hello", "thank you", "please", "goodbye", "good morning", "good afternoon", "good evening"},
	}
)

type signals struct {
	patterns []*regexp2.Regexp
	phrases  []string
}

// Lexicon is compiled, read-only classifier configuration.
// A Lexicon is never mutated after construction and may be shared freely.
type Lexicon struct {
	spanish signals
	english signals
}

// NewLexicon compiles the signal tables for both languages.
func NewLexicon(spanish, english SignalSpec) (*Lexicon, error) {
	es, err := compile(spanish)
	if err != nil {
		return nil, fmt.Errorf("compile spanish signals: %w", err)
	}
	en, err := compile(english)
	if err != nil {
		return nil, fmt.Errorf("compile english signals: %w", err)
	}
	return &Lexicon{spanish: es, english: en}, nil
}

// DefaultLexicon returns the built-in tables, compiled on first use.
var DefaultLexicon = sync.OnceValue(func() *Lexicon {
	lex, err := NewLexicon(spanishSpec, englishSpec)
	if err != nil {
		panic(err)
	}
	return lex
})

func compile(spec SignalSpec) (signals, error) {
	s := signals{
		patterns: make([]*regexp2.Regexp, 0, len(spec.Patterns)),
		phrases:  append([]string(nil), spec.Phrases...),
	}
	for _, p := range spec.Patterns {
		// Default (non-RE2) syntax keeps \b Unicode-aware, so "aún" is one word.
		re, err := regexp2.Compile(p, regexp2.IgnoreCase)
		if err != nil {
			return signals{}, fmt.Errorf("pattern %q: %w", p, err)
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}
