package layout

import (
	"net/url"
	"strings"

	"github.com/louisbranch/adp-docs/internal/services/docs/metadata"
	"github.com/louisbranch/adp-docs/internal/services/shared/i18nhttp"
)

// Alternate is one translation of the current page.
type Alternate struct {
	Locale          string
	HrefLang        string
	URL             string
	OpenGraphLocale string
}

// RootProps configures the document shell shared by every page.
type RootProps struct {
	Locale       string
	Meta         metadata.Record
	BaseURL      string
	CanonicalURL string
	Alternates   []Alternate
	Translations map[string]string
	Languages    []i18nhttp.LanguageOption
	Stylesheets  []string
	Scripts      []string
}

// providerPayload is the client-side localization context.
type providerPayload struct {
	Locale       string                    `json:"locale"`
	Translations map[string]string         `json:"translations"`
	Locales      []i18nhttp.LanguageOption `json:"locales"`
}

func newProviderPayload(locale string, translations map[string]string, languages []i18nhttp.LanguageOption) providerPayload {
	if translations == nil {
		translations = map[string]string{}
	}
	return providerPayload{Locale: locale, Translations: translations, Locales: languages}
}

// absoluteURL resolves ref against base. Without a usable base the
// reference is returned unchanged.
func absoluteURL(base string, ref string) string {
	if base == "" {
		return ref
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil || baseURL.Host == "" {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if refURL.IsAbs() {
		return ref
	}
	return baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(refURL.Path, "/"), RawQuery: refURL.RawQuery, Fragment: refURL.Fragment}).String()
}
