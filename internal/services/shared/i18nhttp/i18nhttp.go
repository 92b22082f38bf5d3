// Package i18nhttp resolves the visitor's locale from HTTP requests and
// builds language switcher options.
package i18nhttp

import (
	"net/http"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "adp_lang"
)

// LanguageOption represents a supported language option in UI surfaces.
type LanguageOption struct {
	Locale string `json:"locale"`
	Label  string `json:"label"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// ResolveLocale determines the best supported locale for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveLocale(r *http.Request) (string, bool) {
	if r == nil {
		return platformi18n.DefaultLocale, false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if locale, ok := platformi18n.ParseLocale(langValue); ok {
			return locale, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if locale, ok := platformi18n.ParseLocale(cookie.Value); ok {
			return locale, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}

	return platformi18n.DefaultLocale, false
}

// SetLanguageCookie persists the selected locale on the response.
func SetLanguageCookie(w http.ResponseWriter, locale string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// BuildLanguageOptions returns one option per locale with the active one marked.
// labelFor and urlFor may be nil; the locale itself is used as the label and
// the URL is left empty.
func BuildLanguageOptions(locales []string, active string, labelFor func(locale string) string, urlFor func(locale string) string) []LanguageOption {
	options := make([]LanguageOption, 0, len(locales))
	for _, locale := range locales {
		label := locale
		if labelFor != nil {
			if resolved := strings.TrimSpace(labelFor(locale)); resolved != "" {
				label = resolved
			}
		}
		option := LanguageOption{Locale: locale, Label: label, Active: locale == active}
		if urlFor != nil {
			option.URL = urlFor(locale)
		}
		options = append(options, option)
	}
	return options
}

// ActiveLanguageLabel returns the label for the active language selection.
func ActiveLanguageLabel(options []LanguageOption) string {
	for _, option := range options {
		if option.Active {
			return option.Label
		}
	}
	if len(options) == 0 {
		return ""
	}
	return options[0].Label
}

// LanguageKeyLabel maps a locale to its catalog label key.
func LanguageKeyLabel(locale string) string {
	return "lang." + locale
}
