// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/flickhub/internal/domain/models"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Provider lowercases a provider name, defaulting to "local".
func Provider(s string) string {
	p := strings.ToLower(strings.TrimSpace(s))
	if p == "" {
		return models.ProviderLocal
	}
	return p
}
