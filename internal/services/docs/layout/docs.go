package layout

import (
	"github.com/louisbranch/adp-docs/internal/services/docs/content"
	"github.com/louisbranch/adp-docs/internal/services/docs/markdown"
	"github.com/louisbranch/adp-docs/internal/services/shared/i18nhttp"
)

// DocsProps describes one rendered docs page.
type DocsProps struct {
	Options     Options
	Locale      string
	Loc         Localizer
	Tree        content.Tree
	Slug        string
	Title       string
	Description string
	Body        []byte
	TOC         []markdown.Heading
	Previous    *content.Node
	Next        *content.Node
	// Translated is false when the page fell back to the default locale.
	Translated  bool
	EditURL     string
	LastUpdated string
	Full        bool
	Languages   []i18nhttp.LanguageOption
}

// HomeProps describes the landing page.
type HomeProps struct {
	Options   Options
	Locale    string
	Loc       Localizer
	Languages []i18nhttp.LanguageOption
}

// folderIndex turns the index page of a folder into a link labelled with the
// folder name.
func folderIndex(node *content.Node) *content.Node {
	return &content.Node{
		Type:       content.NodePage,
		Name:       node.Name,
		Slug:       node.Index.Slug,
		Translated: node.Index.Translated,
	}
}

func containsSlug(node *content.Node, slug string) bool {
	if node.Type != content.NodeSeparator && node.Slug == slug {
		return true
	}
	for _, child := range node.Children {
		if containsSlug(child, slug) {
			return true
		}
	}
	return false
}
