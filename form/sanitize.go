package form

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func plainTextPolicy() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// Sanitize reduces a submitted value to plain text: markup is stripped, the
// entity escaping the policy introduces is undone, control characters are
// dropped and runs of whitespace collapse to single spaces. HTML is never
// accepted as-is.
func Sanitize(raw string) string {
	// control characters go first, before the policy's HTML parser gets a
	// chance to reinterpret them
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, raw)

	clean = plainTextPolicy().Sanitize(clean)
	clean = html.UnescapeString(clean)

	return strings.Join(strings.Fields(clean), " ")
}
