// Package htmltext extracts translatable text segments from HTML fragments
// and re-applies translations. Feed summaries arrive as HTML; the engine
// only caches and translates plain text, so fragments are split into
// segments first and reassembled after.
package htmltext

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Segment is a translatable unit of text found in a fragment.
type Segment struct {
	Text      string // Trimmed text content
	ParentTag string // Enclosing element name, for prompt context
}

// Fragment is a parsed HTML fragment awaiting translation.
type Fragment struct {
	doc         *goquery.Document
	ignoredTags map[string]bool
}

// ignoredTags contains tags whose content is never translated.
var ignoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}

// Extract parses an HTML fragment and returns the unique translatable text
// segments in document order. Whitespace-only text is skipped.
func Extract(fragment string) (*Fragment, []Segment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, nil, fmt.Errorf("parsing HTML fragment: %w", err)
	}

	f := &Fragment{doc: doc, ignoredTags: ignoredTags}

	var segments []Segment
	seen := make(map[string]bool)

	f.walk(func(n *html.Node) {
		text := strings.TrimSpace(n.Data)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true

		seg := Segment{Text: text}
		if n.Parent != nil && n.Parent.Type == html.ElementNode {
			seg.ParentTag = n.Parent.Data
		}
		segments = append(segments, seg)
	})

	return f, segments, nil
}

// Apply replaces each extracted segment with its translation and serializes
// the fragment. Translations is keyed by the trimmed source text; segments
// without a translation are left as-is. Original leading and trailing
// whitespace around each text node is preserved.
//
// The output is a fragment, not a document: the html/head/body wrapper the
// parser adds is stripped again on serialization.
func (f *Fragment) Apply(translations map[string]string) (string, error) {
	f.walk(func(n *html.Node) {
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return
		}
		if translated, ok := translations[text]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	})

	body := f.doc.Find("body")
	if body.Length() == 0 {
		out, err := f.doc.Html()
		if err != nil {
			return "", fmt.Errorf("serializing HTML fragment: %w", err)
		}
		return out, nil
	}

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serializing HTML fragment: %w", err)
	}
	return out, nil
}

// walk visits every text node not under an ignored or data-no-translate
// element.
func (f *Fragment) walk(visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if f.ignoredTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			visit(n)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}

	f.doc.Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			rec(n)
		}
	})
}

// preserveWhitespace keeps the original leading/trailing whitespace around
// the translated text.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}
