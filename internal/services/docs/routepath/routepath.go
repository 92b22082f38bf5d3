// Package routepath stores the canonical URL structure of the exported site.
// The first path segment always encodes the locale.
package routepath

import (
	"net/url"
	"path"
	"strings"
)

const (
	Root       = "/"
	Health     = "/up"
	Sitemap    = "/sitemap.xml"
	Robots     = "/robots.txt"
	DocsPrefix = "docs"
	SearchFile = "search.json"
	IndexFile  = "index.html"
)

// Home returns the landing page route for locale.
func Home(locale string) string {
	return "/" + escapeSegment(locale) + "/"
}

// Docs returns the docs root route for locale.
func Docs(locale string) string {
	return Home(locale) + DocsPrefix + "/"
}

// Doc returns the route of one docs page. An empty slug is the docs root.
func Doc(locale string, slug string) string {
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return Docs(locale)
	}
	segments := strings.Split(slug, "/")
	for i, segment := range segments {
		segments[i] = escapeSegment(segment)
	}
	return Docs(locale) + strings.Join(segments, "/") + "/"
}

// Search returns the route of the locale's search index.
func Search(locale string) string {
	return Home(locale) + SearchFile
}

// OutputFile maps a route onto the file that serves it in the export
// directory, using forward slashes. Directory routes map to index.html.
func OutputFile(route string) string {
	unescaped, err := url.PathUnescape(route)
	if err == nil {
		route = unescaped
	}
	clean := strings.TrimPrefix(path.Clean("/"+route), "/")
	if strings.HasSuffix(route, "/") || clean == "" {
		if clean == "" {
			return IndexFile
		}
		return clean + "/" + IndexFile
	}
	return clean
}

// Locale returns the first path segment of route.
func Locale(route string) string {
	trimmed := strings.TrimPrefix(route, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

func escapeSegment(value string) string {
	return url.PathEscape(strings.TrimSpace(value))
}
