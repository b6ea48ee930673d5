package pulsetrans

import "strings"

// LanguageNames maps supported target language codes to human-readable names
// used in provider prompts. This is the full set of supported targets.
var LanguageNames = map[string]string{
	"uk": "Ukrainian",
	"es": "Spanish",
	"de": "German",
	"fr": "French",
	"pl": "Polish",
	"ja": "Japanese",
}

// DefaultSourceLang is the assumed source language of feed content.
const DefaultSourceLang = "en"

// NormalizeLang converts locale spellings to the short language code used as
// part of the cache fingerprint (e.g. "uk_UA" or "uk-UA" → "uk").
func NormalizeLang(code string) string {
	code = strings.ReplaceAll(code, "-", "_")
	base := strings.Split(code, "_")[0]
	return strings.ToLower(strings.TrimSpace(base))
}

// IsSupported reports whether code names a supported target language.
// Locale spellings like "uk_UA" are accepted.
func IsSupported(code string) bool {
	_, ok := LanguageNames[NormalizeLang(code)]
	return ok
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(code string) string {
	if name, ok := LanguageNames[NormalizeLang(code)]; ok {
		return name
	}
	return code
}

// SupportedLanguages returns the supported target language codes in no
// particular order.
func SupportedLanguages() []string {
	codes := make([]string, 0, len(LanguageNames))
	for code := range LanguageNames {
		codes = append(codes, code)
	}
	return codes
}
