package hotel

import "github.com/microcosm-cc/bluemonday"

// Sanitizer strips unsafe HTML from backend-supplied text before it reaches
// the presentation layer. Basic formatting tags survive; scripts, iframes
// and event attributes do not.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer builds the allow-list policy: paragraph and list formatting,
// emphasis, and links (forced to safe rel attributes).
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "ul", "ol", "li", "strong", "em", "b", "i")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return &Sanitizer{policy: p}
}

// Sanitize returns html with everything outside the allow-list removed. It
// is idempotent and safe for concurrent use.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
