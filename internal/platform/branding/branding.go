// Package branding holds the product identity shown in navigation and metadata.
package branding

const (
	// AppName is the display name of the documentation site.
	AppName = "ADP Docs"
	// LogoPath is the site-relative path of the navigation logo.
	LogoPath = "/logo.svg"
	// LogoWidth and LogoHeight are the intrinsic logo dimensions in pixels.
	LogoWidth  = 120
	LogoHeight = 32
	// RepositoryURL is where "edit this page" links point.
	RepositoryURL = "https://github.com/louisbranch/adp-docs"
)

// Brand is the identity a site build renders with. Site configuration may
// override any field; empty fields keep the defaults.
type Brand struct {
	Name          string `yaml:"name"`
	LogoPath      string `yaml:"logo"`
	LogoWidth     int    `yaml:"logo_width"`
	LogoHeight    int    `yaml:"logo_height"`
	RepositoryURL string `yaml:"repository"`
	// EditBranch is the branch edit links open; defaults to "main".
	EditBranch string `yaml:"edit_branch"`
}

// Default returns the built-in brand.
func Default() Brand {
	return Brand{
		Name:          AppName,
		LogoPath:      LogoPath,
		LogoWidth:     LogoWidth,
		LogoHeight:    LogoHeight,
		RepositoryURL: RepositoryURL,
		EditBranch:    "main",
	}
}

// Merge returns b with every non-empty field of override applied.
func (b Brand) Merge(override Brand) Brand {
	out := b
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.LogoPath != "" {
		out.LogoPath = override.LogoPath
	}
	if override.LogoWidth > 0 {
		out.LogoWidth = override.LogoWidth
	}
	if override.LogoHeight > 0 {
		out.LogoHeight = override.LogoHeight
	}
	if override.RepositoryURL != "" {
		out.RepositoryURL = override.RepositoryURL
	}
	if override.EditBranch != "" {
		out.EditBranch = override.EditBranch
	}
	return out
}
