package pulsetrans

import (
	"context"

	"github.com/ai-pulse/pulsetrans/htmltext"
)

// HTMLResult is the outcome of translating an HTML fragment.
type HTMLResult struct {
	Content       string // Fragment with translated text applied
	SegmentCount  int    // Translatable segments found
	CachedCount   int    // Segments served from the cache
	DegradedCount int    // Segments that fell back to the local substitute
}

// TranslateHTML translates the text content of an HTML fragment, leaving
// markup untouched. Each unique text segment goes through the cache
// individually, so repeated runs over overlapping feeds only pay for new
// text. A fragment without translatable text is returned unchanged.
func (e *Engine) TranslateHTML(ctx context.Context, fragment, targetLang, category string) (*HTMLResult, error) {
	if !IsSupported(targetLang) {
		return nil, &InputError{Field: "targetLang", Message: "unsupported language " + targetLang}
	}

	parsed, segments, err := htmltext.Extract(fragment)
	if err != nil {
		return nil, err
	}

	if len(segments) == 0 {
		return &HTMLResult{Content: fragment}, nil
	}

	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	results, err := e.TranslateBatch(ctx, texts, targetLang, category)
	if err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(segments))
	out := &HTMLResult{SegmentCount: len(segments)}
	for i, res := range results {
		translations[texts[i]] = res.Text
		if res.Cached {
			out.CachedCount++
		}
		if res.Quality == QualityDegraded {
			out.DegradedCount++
		}
	}

	content, err := parsed.Apply(translations)
	if err != nil {
		return nil, err
	}
	out.Content = content

	return out, nil
}
