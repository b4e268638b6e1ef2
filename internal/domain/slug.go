package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugSpaces    = regexp.MustCompile(`\s+`)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRun = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases, drops accents and anything outside [a-z0-9-], and
// turns whitespace into hyphens. "Complete E-commerce Platform" becomes
// "complete-e-commerce-platform".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(strings.TrimSpace(out))
	out = slugSpaces.ReplaceAllString(out, "-")
	out = slugInvalid.ReplaceAllString(out, "")
	out = slugHyphenRun.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
