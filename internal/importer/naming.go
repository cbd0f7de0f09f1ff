package importer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Singularize strips a plural suffix from a category name so that "Books" and
// "Book" resolve to the same category. Suffix checks ignore case.
func Singularize(name string) string {
	lower := strings.ToLower(name)
	switch {
	case len(name) > 3 && strings.HasSuffix(lower, "ies") && !strings.HasSuffix(lower, "eies"):
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(lower, "ess"), strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"):
		return name
	case len(name) > 3 && strings.HasSuffix(lower, "s"):
		return name[:len(name)-1]
	}
	return name
}

// Slugify lower-cases name, replaces every run of characters outside a-z and
// 0-9 with one hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// HandleFromTitle derives a product handle: lower-cased, whitespace runs become "-".
func HandleFromTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), "-")
}

// capitalize upper-cases the first character and leaves the rest as is.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
