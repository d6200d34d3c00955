package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// apostrophes are dropped rather than turned into separators, so
// "men's clothing" becomes "mens-clothing".
var apostrophes = strings.NewReplacer("'", "", "’", "", "`", "")

var latinFold = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
	"ç", "c",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n",
	"ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o", "ø", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ß", "ss",
)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "men's clothing" → "mens-clothing"
//   - "Crème Brûlée" → "creme-brulee"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = apostrophes.Replace(slug)
	slug = latinFold.Replace(slug)

	// Any run of other characters becomes a single hyphen.
	slug = slugRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Resolve finds the name in names that key refers to, either verbatim
// (case-insensitive) or by slug. It returns false when nothing matches.
func Resolve(key string, names []string) (string, bool) {
	for _, name := range names {
		if strings.EqualFold(name, key) {
			return name, true
		}
	}
	want := Generate(key)
	if want == "" {
		return "", false
	}
	for _, name := range names {
		if Generate(name) == want {
			return name, true
		}
	}
	return "", false
}
