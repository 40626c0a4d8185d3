// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every tag. Shared because policies are safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// Text strips all markup from s and returns plain text.
// Entities produced by the policy are decoded so "Tom & Jerry" survives intact;
// JSON encoding handles escaping on the way out.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
