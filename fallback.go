package pulsetrans

import (
	"sort"
	"strings"
)

// Fallback produces a deterministic local substitute when the external
// provider is unavailable. Substitutes are returned flagged as
// QualityDegraded and are never cached.
type Fallback interface {
	Substitute(text, targetLang, category string) string
}

// RuleFallback is a glossary-based substitute translator. It replaces known
// phrases from a per-language glossary and tags the result with a category
// prefix, so degraded output is recognizable while staying readable.
type RuleFallback struct {
	glossaries map[string]map[string]string
	prefixes   map[string]map[string]string
}

// ukrainianGlossary covers recurring phrases in AI company feeds. Product and
// company names stay untranslated.
var ukrainianGlossary = map[string]string{
	"Introducing":           "Представляємо",
	"AI Safety":             "Безпека ШІ",
	"Large Language Models": "великі мовні моделі",
	"Language Models":       "мовні моделі",
	"raises":                "залучає",
	"Series E":              "Серія E",
	"valuation":             "оцінка",
	"board of directors":    "рада директорів",
	"appointed":             "призначений",
	"Safety Level":          "рівень безпеки",
	"Protections":           "захист",
	"National Security":     "національна безпека",
	"Best practices":        "найкращі практики",
	"Multi-agent":           "мульти-агентна",
	"Research system":       "дослідницька система",
	"Desktop Extensions":    "розширення для робочого столу",
	"One-click":             "в один клік",
	"Installation":          "встановлення",
}

var ukrainianPrefixes = map[string]string{
	"News":              "[Новини]",
	"Engineering":       "[Інженерія]",
	"Alignment Science": "[Безпека ШІ]",
	"Announcements":     "[Оголошення]",
	"Product":           "[Продукт]",
	"Policy":            "[Політика]",
	"Changelog":         "[Зміни]",
}

// NewRuleFallback creates a fallback with the built-in glossaries.
func NewRuleFallback() *RuleFallback {
	return &RuleFallback{
		glossaries: map[string]map[string]string{
			"uk": ukrainianGlossary,
		},
		prefixes: map[string]map[string]string{
			"uk": ukrainianPrefixes,
		},
	}
}

// Substitute returns a degraded translation of text. For languages without a
// glossary the source text is returned unchanged; a readable original beats
// an empty string or a crashed pipeline.
func (f *RuleFallback) Substitute(text, targetLang, category string) string {
	lang := NormalizeLang(targetLang)

	out := text
	if glossary, ok := f.glossaries[lang]; ok {
		// Longest phrases first so "Large Language Models" wins over
		// "Language Models".
		for _, phrase := range sortedByLength(glossary) {
			out = strings.ReplaceAll(out, phrase, glossary[phrase])
		}
	}

	if prefixes, ok := f.prefixes[lang]; ok && category != "" {
		if prefix, ok := prefixes[category]; ok && !strings.HasPrefix(out, prefix) {
			out = prefix + " " + out
		}
	}

	return out
}

// AddGlossary registers or extends the glossary for a language.
func (f *RuleFallback) AddGlossary(lang string, glossary map[string]string) {
	lang = NormalizeLang(lang)
	if f.glossaries[lang] == nil {
		f.glossaries[lang] = make(map[string]string, len(glossary))
	}
	for src, dst := range glossary {
		f.glossaries[lang][src] = dst
	}
}

func sortedByLength(glossary map[string]string) []string {
	phrases := make([]string, 0, len(glossary))
	for phrase := range glossary {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}

// Verify RuleFallback implements Fallback
var _ Fallback = (*RuleFallback)(nil)
