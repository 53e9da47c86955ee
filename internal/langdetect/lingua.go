package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/dougbradbury/pentecost-sub000/internal/observability/logging"
)

// Lingua is a Detector backed by the offline lingua-go models.
type Lingua struct {
	detector lingua.LanguageDetector
}

// NewLingua builds a detector restricted to the languages of the given
// locale tags. Restricting the set keeps classification fast and its
// confidence values discriminative. Unrecognized tags are skipped; with
// fewer than two usable languages the full spoken-language set is used
// instead, since a single-language detector cannot produce a meaningful
// confidence.
func NewLingua(locales []string) *Lingua {
	logger := logging.WithComponent("langdetect")

	seen := make(map[lingua.Language]bool)
	var langs []lingua.Language
	for _, tag := range locales {
		code := PrimarySubtag(tag)
		lang, ok := languageForCode(code)
		if !ok {
			logger.Warn().Str("locale", tag).Msg("No detection model for locale, skipping")
			continue
		}
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}

	var builder lingua.LanguageDetectorBuilder
	if len(langs) < 2 {
		builder = lingua.NewLanguageDetectorBuilder().FromAllSpokenLanguages()
	} else {
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(langs...)
	}

	return &Lingua{detector: builder.Build()}
}

// Detect returns the most confident language for text.
func (l *Lingua) Detect(text string) (string, float64, bool) {
	values := l.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 {
		return "", 0, false
	}
	top := values[0]
	if top.Value() <= 0 {
		return "", 0, false
	}
	return strings.ToLower(top.Language().IsoCode639_1().String()), top.Value(), true
}

func languageForCode(code string) (lingua.Language, bool) {
	for _, lang := range lingua.AllLanguages() {
		if strings.EqualFold(lang.IsoCode639_1().String(), code) {
			return lang, true
		}
	}
	return lingua.Unknown, false
}
