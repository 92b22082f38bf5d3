package build

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	platformi18n "github.com/louisbranch/adp-docs/internal/platform/i18n"
	"github.com/louisbranch/adp-docs/internal/services/docs/routepath"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string        `xml:"loc"`
	Alternates []sitemapLink `xml:"xhtml:link"`
}

type sitemapLink struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// renderSitemap lists every locale's pages with hreflang alternates. A doc
// page only links the locales that export it.
func renderSitemap(s *site) ([]byte, error) {
	set := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		XHTML: "http://www.w3.org/1999/xhtml",
	}
	set.URLs = append(set.URLs, sitemapEntries(s, s.locales, routepath.Home)...)
	for _, slug := range s.source.Slugs() {
		var locales []string
		for _, locale := range s.locales {
			if slices.Contains(s.slugs[locale], slug) {
				locales = append(locales, locale)
			}
		}
		routeFor := func(locale string) string { return routepath.Doc(locale, slug) }
		set.URLs = append(set.URLs, sitemapEntries(s, locales, routeFor)...)
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

func sitemapEntries(s *site, locales []string, routeFor func(locale string) string) []sitemapURL {
	var alternates []sitemapLink
	for _, locale := range locales {
		alternates = append(alternates, sitemapLink{Rel: "alternate", HrefLang: locale, Href: siteURL(s.config.BaseURL, routeFor(locale))})
	}
	if slices.Contains(locales, platformi18n.DefaultLocale) {
		alternates = append(alternates, sitemapLink{
			Rel:      "alternate",
			HrefLang: "x-default",
			Href:     siteURL(s.config.BaseURL, routeFor(platformi18n.DefaultLocale)),
		})
	}
	urls := make([]sitemapURL, 0, len(locales))
	for _, locale := range locales {
		urls = append(urls, sitemapURL{Loc: siteURL(s.config.BaseURL, routeFor(locale)), Alternates: alternates})
	}
	return urls
}

func renderRobots(baseURL string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if baseURL != "" {
		b.WriteString("Sitemap: " + siteURL(baseURL, routepath.Sitemap) + "\n")
	}
	return []byte(b.String())
}

func siteURL(baseURL string, route string) string {
	return strings.TrimRight(baseURL, "/") + route
}
