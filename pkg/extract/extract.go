// Package extract pulls notice links out of fetched HTML pages.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

const defaultSelector = "a[href]"

// Extractor parses notice-board HTML and returns the anchors whose text
// matches a site's keywords.
type Extractor struct {
	selector string
}

// Option configures the Extractor.
type Option func(*Extractor)

// WithSelector overrides the CSS selector used to find candidate links.
func WithSelector(sel string) Option {
	return func(e *Extractor) {
		e.selector = sel
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{selector: defaultSelector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse reads an HTML document and returns the notices whose anchor text
// contains any of the keywords (case-insensitive). Anchor text is
// whitespace-collapsed and hrefs are resolved against baseURL. Anchors with
// empty text, fragment-only hrefs, javascript: hrefs, or unparsable hrefs
// are skipped. Duplicate (title, url) pairs collapse to a single notice;
// document order is preserved otherwise.
//
// An empty keyword list matches nothing.
func (e *Extractor) Parse(r io.Reader, baseURL string, keywords []string) ([]domain.Notice, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}

	var notices []domain.Notice
	seen := make(map[domain.Notice]struct{})

	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		title := CollapseWhitespace(sel.Text())
		if title == "" {
			return
		}
		if !matchesAny(strings.ToLower(title), lowered) {
			return
		}

		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		if strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		n := domain.Notice{Title: title, URL: base.ResolveReference(ref).String()}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		notices = append(notices, n)
	})

	return notices, nil
}

// CollapseWhitespace trims s and collapses every run of whitespace,
// including newlines, to a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func matchesAny(loweredTitle string, loweredKeywords []string) bool {
	for _, k := range loweredKeywords {
		if k == "" {
			continue
		}
		if strings.Contains(loweredTitle, k) {
			return true
		}
	}
	return false
}
