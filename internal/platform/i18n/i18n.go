// Package i18n defines the locales the documentation site is exported in and
// the fallback rule used for every locale-keyed value.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the locale used when a requested locale has no value.
	DefaultLocale = "en"
	// LocaleZH is the simplified Chinese locale.
	LocaleZH = "zh"
)

// Ordered with the default locale first so static export emits it first.
var supportedLocales = []string{DefaultLocale, LocaleZH}

var supportedTags = []language.Tag{
	language.English,
	language.Chinese,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Locales returns all supported locale identifiers, default first.
func Locales() []string {
	out := make([]string, len(supportedLocales))
	copy(out, supportedLocales)
	return out
}

// IsSupported reports whether locale is one of the exported locales.
func IsSupported(locale string) bool {
	for _, candidate := range supportedLocales {
		if candidate == locale {
			return true
		}
	}
	return false
}

// Resolve returns table[locale] when present, otherwise table[fallback].
// The zero value is returned when neither key exists.
func Resolve[T any](table map[string]T, locale string, fallback string) T {
	if value, ok := table[locale]; ok {
		return value
	}
	if value, ok := table[fallback]; ok {
		return value
	}
	var zero T
	return zero
}

// DefaultTag returns the language tag of the default locale.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// TagForLocale returns the language tag of a supported locale, or the default tag.
func TagForLocale(locale string) language.Tag {
	for i, candidate := range supportedLocales {
		if candidate == locale {
			return supportedTags[i]
		}
	}
	return DefaultTag()
}

// ParseLocale parses a language tag and matches it against the supported set.
// The bool is false when the tag cannot be parsed or matches nothing.
func ParseLocale(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	_, index, confidence := tagMatcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return supportedLocales[index], true
}

// MatchTags returns the supported locale that best matches tags, in
// preference order, falling back to DefaultLocale.
func MatchTags(tags []language.Tag) string {
	if len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[index]
}
