package synthesizer

import "github.com/nguyentantai21042004/narration-flow/internal/language"

// DefaultEdgeVoices holds one neural voice per narration language.
var DefaultEdgeVoices = map[language.Code]string{
	language.Spanish: "es-MX-DaliaNeural",
	language.English: "en-US-AriaNeural",
}

// DefaultGeminiVoices are prebuilt Gemini TTS voices.
var DefaultGeminiVoices = map[language.Code]string{
	language.Spanish: "Kore",
	language.English: "Puck",
}

// voiceTable resolves a voice per language, falling back to English.
type voiceTable map[language.Code]string

func newVoiceTable(defaults map[language.Code]string, overrides map[string]string) voiceTable {
	t := make(voiceTable, len(defaults))
	for lang, v := range defaults {
		t[lang] = v
	}
	for lang, v := range overrides {
		if code := language.Code(lang); code.Valid() && v != "" {
			t[code] = v
		}
	}
	return t
}

func (t voiceTable) voice(lang language.Code) string {
	if v, ok := t[lang]; ok {
		return v
	}
	return t[language.English]
}
