package layout

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/adp-docs/internal/platform/branding"
)

// Logo is the navigation logo image.
type Logo struct {
	Src    string
	Alt    string
	Width  int
	Height int
}

// Nav configures the navigation bar. Title is rendered inside the home link.
type Nav struct {
	Title templ.Component
	Logo  Logo
}

// Link is an extra navigation link.
type Link struct {
	Text     string
	URL      string
	External bool
}

// Options is shared by the home and docs layouts.
type Options struct {
	Nav       Nav
	Links     []Link
	GitHubURL string
	SiteName  string
}

// BaseOptions returns the layout options shared by every page, branded with
// the built-in logo.
func BaseOptions() Options {
	return OptionsFor(branding.Default())
}

// OptionsFor builds the shared layout options for brand.
func OptionsFor(brand branding.Brand) Options {
	logo := Logo{
		Src:    brand.LogoPath,
		Alt:    brand.Name,
		Width:  brand.LogoWidth,
		Height: brand.LogoHeight,
	}
	opts := Options{
		Nav:       Nav{Title: LogoImage(logo), Logo: logo},
		GitHubURL: brand.RepositoryURL,
		SiteName:  brand.Name,
	}
	if brand.RepositoryURL != "" {
		opts.Links = append(opts.Links, Link{Text: "GitHub", URL: brand.RepositoryURL, External: true})
	}
	return opts
}
