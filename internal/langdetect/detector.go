// Package langdetect classifies transcript text by dominant language and
// provides the locale equivalence rules shared by the filtering and
// translation stages.
package langdetect

import "strings"

// Detector classifies text by its dominant language.
type Detector interface {
	// Detect returns the dominant ISO 639-1 language code (lowercase) and
	// its confidence in [0, 1]. ok is false when no dominant language could
	// be determined; callers are expected to fail open in that case.
	Detect(text string) (lang string, confidence float64, ok bool)
}

// PrimarySubtag maps a locale tag to its bare language code: "en-US" gives "en",
// "fr_CA" gives "fr". Bare codes are returned unchanged.
func PrimarySubtag(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		return locale[:i]
	}
	return locale
}

// Equivalent reports whether two language tags denote the same language,
// tolerating a bare code against a dialect-qualified form in either
// direction ("fr" matches "fr-CA" and vice versa).
func Equivalent(a, b string) bool {
	pa, pb := PrimarySubtag(a), PrimarySubtag(b)
	return pa != "" && pa == pb
}
