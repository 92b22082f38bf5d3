package content

import (
	"path"
	"sort"
	"strings"
	"unicode"
)

const restMarker = "..."

// NodeType distinguishes entries of the navigation tree.
type NodeType string

const (
	NodePage      NodeType = "page"
	NodeFolder    NodeType = "folder"
	NodeSeparator NodeType = "separator"
)

// Node is one navigation entry. Folder nodes may carry an Index page node.
type Node struct {
	Type        NodeType
	Name        string
	Slug        string
	Icon        string
	Translated  bool
	DefaultOpen bool
	Index       *Node
	Children    []*Node
}

// Tree is the navigation tree for one locale.
type Tree struct {
	Locale   string
	Children []*Node
}

func isSeparator(entry string) bool {
	return len(entry) > 6 && strings.HasPrefix(entry, "---") && strings.HasSuffix(entry, "---")
}

// Tree builds the navigation tree for locale. Folder order follows the
// folder's meta "pages" list when present; entries not listed are dropped
// unless the list contains "...", which expands to the remaining entries in
// name order. Without a meta list the index page comes first, then names in
// order.
func (s *Source) Tree(locale string) Tree {
	return Tree{Locale: locale, Children: s.children(locale, "")}
}

func (s *Source) children(locale string, dir string) []*Node {
	entries := map[string]*Node{}
	for _, slug := range s.LocaleSlugs(locale) {
		if s.index[slug] {
			if slug == "" && dir == "" {
				entries["index"] = s.pageNode(locale, slug)
			}
			continue
		}
		if parentDir(slug) == dir {
			entries[path.Base(slug)] = s.pageNode(locale, slug)
		}
	}
	for folder := range s.dirs {
		if folder == "" || parentDir(folder) != dir {
			continue
		}
		if node := s.folderNode(locale, folder); node != nil {
			entries[path.Base(folder)] = node
		}
	}

	meta, ok := s.Meta(locale, dir)
	if !ok || len(meta.Pages) == 0 {
		return sortedEntries(entries, nil)
	}

	used := map[string]bool{}
	var out []*Node
	restAt := -1
	for _, entry := range meta.Pages {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == restMarker:
			if restAt < 0 {
				restAt = len(out)
			}
		case isSeparator(entry):
			out = append(out, &Node{Type: NodeSeparator, Name: strings.TrimSpace(strings.Trim(entry, "-"))})
		default:
			node, exists := entries[entry]
			if !exists || used[entry] {
				continue
			}
			used[entry] = true
			out = append(out, node)
		}
	}
	if restAt < 0 {
		return out
	}
	rest := sortedEntries(entries, used)
	merged := make([]*Node, 0, len(out)+len(rest))
	merged = append(merged, out[:restAt]...)
	merged = append(merged, rest...)
	merged = append(merged, out[restAt:]...)
	return merged
}

func (s *Source) pageNode(locale string, slug string) *Node {
	page, translated, err := s.Page(locale, slug)
	if err != nil {
		return nil
	}
	return &Node{
		Type:       NodePage,
		Name:       page.Frontmatter.Title,
		Slug:       slug,
		Icon:       page.Frontmatter.Icon,
		Translated: translated,
	}
}

// folderNode returns nil when nothing inside dir resolves in locale.
func (s *Source) folderNode(locale string, dir string) *Node {
	node := &Node{Type: NodeFolder, Slug: dir, Name: humanize(path.Base(dir))}
	if s.index[dir] {
		if index := s.pageNode(locale, dir); index != nil {
			node.Index = index
			node.Name = index.Name
		}
	}
	if meta, ok := s.Meta(locale, dir); ok {
		if meta.Title != "" {
			node.Name = meta.Title
		}
		node.DefaultOpen = meta.DefaultOpen
		node.Icon = meta.Icon
	}
	node.Children = s.children(locale, dir)
	if node.Index == nil && len(node.Children) == 0 {
		return nil
	}
	return node
}

func sortedEntries(entries map[string]*Node, skip map[string]bool) []*Node {
	names := make([]string, 0, len(entries))
	for name := range entries {
		if skip[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == "index" || names[j] == "index" {
			return names[i] == "index"
		}
		return names[i] < names[j]
	})
	out := make([]*Node, 0, len(names))
	for _, name := range names {
		out = append(out, entries[name])
	}
	return out
}

// Flatten returns the page nodes of the tree in reading order. A folder's
// index page precedes its children.
func (t Tree) Flatten() []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, node := range nodes {
			switch node.Type {
			case NodePage:
				out = append(out, node)
			case NodeFolder:
				if node.Index != nil {
					out = append(out, node.Index)
				}
				walk(node.Children)
			}
		}
	}
	walk(t.Children)
	return out
}

// Neighbours returns the pages before and after slug in reading order.
func (t Tree) Neighbours(slug string) (previous *Node, next *Node) {
	pages := t.Flatten()
	for i, node := range pages {
		if node.Slug != slug {
			continue
		}
		if i > 0 {
			previous = pages[i-1]
		}
		if i+1 < len(pages) {
			next = pages[i+1]
		}
		return previous, next
	}
	return nil, nil
}

func parentDir(slug string) string {
	dir := path.Dir(slug)
	if dir == "." {
		return ""
	}
	return dir
}

func humanize(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
