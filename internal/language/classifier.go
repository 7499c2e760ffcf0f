package language

import (
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

// decisionThreshold is the minimum score a language must exceed to win.
const decisionThreshold = 2

// Classifier scores text against a Lexicon.
type Classifier struct {
	lex *Lexicon
}

// New returns a Classifier over lex. A nil lex selects DefaultLexicon.
func New(lex *Lexicon) *Classifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Classifier{lex: lex}
}

// Detect returns Spanish only when its score beats English and exceeds the
// threshold, English under the mirrored rule, and English for ties or weak signal.
func (c *Classifier) Detect(text string) Code {
	es, en := c.Scores(text)
	switch {
	case es > en && es > decisionThreshold:
		return Spanish
	case en > es && en > decisionThreshold:
		return English
	default:
		return English
	}
}

// Scores returns the raw Spanish and English scores for text.
func (c *Classifier) Scores(text string) (spanish, english int) {
	lower := strings.ToLower(norm.NFC.String(text))
	return score(c.lex.spanish, lower), score(c.lex.english, lower)
}

func score(s signals, text string) int {
	total := 0
	for _, re := range s.patterns {
		total += countMatches(re, text)
	}
	for _, phrase := range s.phrases {
		if strings.Contains(text, phrase) {
			total += phraseBonus
		}
	}
	return total
}

func countMatches(re *regexp2.Regexp, text string) int {
	n := 0
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		n++
		m, err = re.FindNextMatch(m)
	}
	return n
}

// Detect classifies text with the default lexicon.
func Detect(text string) Code {
	return New(nil).Detect(text)
}
