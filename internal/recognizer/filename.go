package recognizer

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nguyentantai21042004/narration-flow/internal/language"
)

var filenameHints = map[string]language.Code{
	"es":      language.Spanish,
	"spanish": language.Spanish,
	"español": language.Spanish,
	"espanol": language.Spanish,
	"en":      language.English,
	"english": language.English,
	"ingles":  language.English,
	"inglés":  language.English,
}

// LanguageFromFilename guesses the narration language from name tokens
// such as "story_es.wav" or "chapter.english.wav". Spanish hints win over
// English ones and the fallback is English.
func LanguageFromFilename(path string) language.Code {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	tokens := strings.FieldsFunc(base, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	found := language.English
	for _, tok := range tokens {
		if code, ok := filenameHints[tok]; ok {
			if code == language.Spanish {
				return code
			}
			found = code
		}
	}
	return found
}
