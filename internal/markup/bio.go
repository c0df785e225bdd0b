// Package markup turns editor input into HTML that is safe to render.
package markup

import (
	"encoding/json"
	"strings"
)

// NormalizeBio accepts a bio as either one string or a list of
// paragraphs. Missing, null or non-string values become empty paragraphs.
func NormalizeBio(raw json.RawMessage) []string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []string{""}
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{""}
	}
	out := make([]string, len(items))
	for i, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out[i] = s
		}
	}
	return out
}

func isConverted(p string) bool {
	lower := strings.ToLower(p)
	for _, prefix := range []string{"<h3>", "<h3 ", "<p>", "<p "} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Fragments converts each paragraph to one HTML fragment, in order.
//
//	# Heading      -> <h3>Heading</h3>
//	*Emphasis*     -> <p><strong>Emphasis</strong></p>
//	anything else  -> <p>anything else</p>
//
// Fragments that are already <h3>/<p> HTML pass through unchanged.
func Fragments(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for _, raw := range paragraphs {
		p := strings.TrimSpace(raw)
		switch {
		case isConverted(p):
			out = append(out, p)
		case strings.HasPrefix(p, "#"):
			out = append(out, "<h3>"+strings.TrimSpace(strings.TrimLeft(p, "#"))+"</h3>")
		case strings.HasPrefix(p, "*"):
			out = append(out, "<p><strong>"+strings.TrimSpace(strings.Trim(p, "*"))+"</strong></p>")
		default:
			out = append(out, "<p>"+p+"</p>")
		}
	}
	return out
}

// Transpile converts a bio to sanitized HTML.
func Transpile(paragraphs []string) string {
	return Sanitize(strings.Join(Fragments(paragraphs), ""))
}

// TranspileRaw is Transpile over a JSON bio (string or list).
func TranspileRaw(raw json.RawMessage) string {
	return Transpile(NormalizeBio(raw))
}
