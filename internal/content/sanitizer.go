// Package content cleans author-supplied course page HTML before it is stored.
//
// The policy is an allow list: headings, paragraphs, lists, quotes, code
// blocks, emphasis, links and https images pass through; everything else
// (script, iframe, style, on* handlers) is stripped.
package content

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the course page policy.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4",
		"p", "br", "hr", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// Relative links let pages point at each other inside the site.
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	p.AllowAttrs("alt").OnElements("img")
	p.AllowAttrs("src").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(*url.URL) bool { return true })

	return &Sanitizer{policy: p}
}

// Sanitize returns the safe subset of rawHTML. It is idempotent.
func (s *Sanitizer) Sanitize(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}
