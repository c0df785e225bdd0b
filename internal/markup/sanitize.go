package markup

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// contentPolicy allows the small set of tags the site renders from
// stored bios and posts. Everything else is dropped, text kept.
func contentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("h2", "h3", "h4", "p", "br", "strong", "b", "em", "i", "u",
			"ul", "ol", "li", "blockquote", "hr", "code", "pre")
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		p.AllowImages()
		p.AllowAttrs("alt").OnElements("img")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers and any markup outside the
// allowlist. It degrades content rather than rejecting it.
func Sanitize(html string) string {
	return contentPolicy().Sanitize(html)
}
