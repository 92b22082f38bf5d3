// Package siteconfig loads the optional site.yaml that overrides the base
// URL, branding and metadata table of a build.
package siteconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/louisbranch/adp-docs/internal/platform/branding"
	"github.com/louisbranch/adp-docs/internal/services/docs/metadata"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the site configuration file name looked up in the site root.
const DefaultFile = "site.yaml"

// Site is the resolved site configuration.
type Site struct {
	BaseURL  string
	Brand    branding.Brand
	Metadata metadata.Table
}

type siteFile struct {
	BaseURL  string         `yaml:"base_url"`
	Branding branding.Brand `yaml:"branding"`
	Metadata yaml.Node      `yaml:"metadata"`
}

// Default returns the built-in site configuration.
func Default() Site {
	return Site{
		Brand:    branding.Default(),
		Metadata: metadata.Default(),
	}
}

// Load reads name from fsys and layers it over Default. A missing file is
// not an error.
func Load(fsys fs.FS, name string) (Site, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultFile
	}
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Site{}, fmt.Errorf("read site config %s: %w", name, err)
	}
	site, err := Parse(data)
	if err != nil {
		return Site{}, fmt.Errorf("site config %s: %w", name, err)
	}
	return site, nil
}

// Parse decodes a site configuration document and validates the result.
func Parse(data []byte) (Site, error) {
	var file siteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Site{}, fmt.Errorf("decode: %w", err)
	}

	site := Default()
	site.BaseURL = strings.TrimRight(strings.TrimSpace(file.BaseURL), "/")
	site.Brand = site.Brand.Merge(file.Branding)

	if !file.Metadata.IsZero() {
		raw, err := yaml.Marshal(&file.Metadata)
		if err != nil {
			return Site{}, fmt.Errorf("encode metadata override: %w", err)
		}
		override, err := metadata.Parse(raw)
		if err != nil {
			return Site{}, err
		}
		site.Metadata = site.Metadata.Merge(override)
	}
	if file.Branding.Name != "" && (file.Metadata.IsZero() || !hasKey(&file.Metadata, "site_name")) {
		site.Metadata.SiteName = file.Branding.Name
	}

	if err := site.Validate(); err != nil {
		return Site{}, err
	}
	return site, nil
}

// Validate reports an unusable base URL or metadata table.
func (s Site) Validate() error {
	if s.BaseURL != "" {
		parsed, err := url.Parse(s.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("base_url %q must be an absolute http(s) URL", s.BaseURL)
		}
	}
	return s.Metadata.Validate()
}

func hasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
