// Package language provides language code normalization and matching for
// rendition filtering, plus the RTL language set used by subtitle fixes.
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// Languages whose scripts run right to left. Not user-configurable.
var rtlLanguages = map[string]struct{}{
	"ar": {},
	"he": {},
	"fa": {},
	"ur": {},
}

// Canonical normalizes a language code to its canonical BCP 47 form,
// lowercased (e.g. "ENG" -> "en", "iw" -> "he"). Unparseable codes are
// returned lowercased as-is so unusual playlist values still compare.
func Canonical(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	return strings.ToLower(tag.String())
}

// Base returns the primary language subtag of a code ("pt-BR" -> "pt").
func Base(code string) string {
	code = Canonical(code)
	if i := strings.IndexByte(code, '-'); i >= 0 {
		return code[:i]
	}
	return code
}

// IsRTL reports whether the code belongs to a right-to-left language.
func IsRTL(code string) bool {
	_, ok := rtlLanguages[Base(code)]
	return ok
}

// Matches reports whether a rendition's language code passes the filter.
// An empty filter matches everything. Filter entries match the full code
// case-insensitively, and a bare base code also matches any of its
// regional variants ("en" matches "en-US").
func Matches(code string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}

	canonical := Canonical(code)
	base := Base(code)

	for _, want := range filter {
		want = Canonical(want)
		if want == canonical || want == base {
			return true
		}
	}
	return false
}
