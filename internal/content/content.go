// Package content cleans rich-text bodies and derives plain-text
// summaries and reading times from them.
package content

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ExcerptLength is the maximum summary length in runes.
	ExcerptLength = 200
	// WordsPerMinute is the assumed reading speed.
	WordsPerMinute = 200
)

// blockedSelectors are removed together with their content.
const blockedSelectors = "script, style, iframe, object, embed, frame, frameset, link, meta, base, form"

// urlAttributes may not carry script URLs.
var urlAttributes = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true, "xlink:href": true, "srcset": true,
}

// Sanitize strips executable markup from an HTML fragment: blocked elements,
// on* event handler attributes and javascript:/vbscript:/data: URLs (data:
// images excepted). The result is the cleaned fragment.
func Sanitize(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	body := doc.Find("body").First()
	body.Find(blockedSelectors).Remove()

	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		keys := make([]string, 0, len(node.Attr))
		for _, attr := range node.Attr {
			keys = append(keys, attr.Key)
		}
		for _, key := range keys {
			lower := strings.ToLower(key)
			if strings.HasPrefix(lower, "on") {
				s.RemoveAttr(key)
				continue
			}
			if urlAttributes[lower] {
				if value, _ := s.Attr(key); unsafeURL(value) {
					s.RemoveAttr(key)
				}
			}
		}
	})

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func unsafeURL(value string) bool {
	v := strings.ToLower(strings.Join(strings.Fields(value), ""))
	switch {
	case strings.HasPrefix(v, "javascript:"), strings.HasPrefix(v, "vbscript:"):
		return true
	case strings.HasPrefix(v, "data:"):
		return !strings.HasPrefix(v, "data:image/")
	default:
		return false
	}
}

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	body := doc.Find("body").First()
	body.Find("script, style").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}

// Excerpt returns up to ExcerptLength runes of the fragment's text, cut at a
// word boundary and suffixed with an ellipsis when shortened.
func Excerpt(html string) string {
	text := PlainText(html)
	if utf8.RuneCountInString(text) <= ExcerptLength {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:ExcerptLength])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// ReadingMinutes estimates reading time, never less than one minute.
func ReadingMinutes(html string) int {
	words := len(strings.Fields(PlainText(html)))
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	return max(minutes, 1)
}

// Body is a sanitized rich-text body with its derived summary and reading time.
type Body struct {
	HTML           string
	Summary        string
	ReadingMinutes int
}

// Prepare sanitizes html and derives the summary when summary is blank.
func Prepare(html, summary string) (Body, error) {
	clean, err := Sanitize(html)
	if err != nil {
		return Body{}, err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = Excerpt(clean)
	}

	return Body{
		HTML:           clean,
		Summary:        summary,
		ReadingMinutes: ReadingMinutes(clean),
	}, nil
}
