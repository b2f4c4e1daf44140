// Package apiindex builds, persists and queries the hierarchical content index
// (version → section → page → tab → example) of the documentation corpus.
package apiindex

import (
	"slices"
	"strings"
)

// KeySeparator joins hierarchy segments into composite keys.
const KeySeparator = "::"

// FileName is the name of the persisted index inside the output directory.
const FileName = "apiIndex.json"

// ExampleRecord is a live example referenced from a tab's document body.
type ExampleRecord struct {
	// ExampleName is the identifier passed to the LiveExample src attribute.
	ExampleName string `json:"exampleName"`

	// Title is the nearest preceding level-3 heading, nil when there is none.
	Title *string `json:"title"`
}

// ApiIndex is the persisted content index.
//
//nolint:revive // The name mirrors the artifact consumed by the site.
type ApiIndex struct {
	// Versions lists every indexed version, sorted and unique.
	Versions []string `json:"versions"`

	// Sections maps a version to its sorted section names.
	Sections map[string][]string `json:"sections"`

	// Pages maps "version::section" to sorted page slugs.
	Pages map[string][]string `json:"pages"`

	// Tabs maps "version::section::page" to priority-sorted tab labels.
	Tabs map[string][]string `json:"tabs"`

	// Examples maps "version::section::page::tab" to examples in document order.
	// Keys are only present when at least one example was found.
	Examples map[string][]ExampleRecord `json:"examples"`
}

// New returns an empty index with all maps initialized.
func New() *ApiIndex {
	return &ApiIndex{
		Versions: []string{},
		Sections: make(map[string][]string),
		Pages:    make(map[string][]string),
		Tabs:     make(map[string][]string),
		Examples: make(map[string][]ExampleRecord),
	}
}

// normalize replaces nil collections with empty ones so the serialized form
// always carries every field.
func (idx *ApiIndex) normalize() {
	if idx.Versions == nil {
		idx.Versions = []string{}
	}
	if idx.Sections == nil {
		idx.Sections = make(map[string][]string)
	}
	if idx.Pages == nil {
		idx.Pages = make(map[string][]string)
	}
	if idx.Tabs == nil {
		idx.Tabs = make(map[string][]string)
	}
	if idx.Examples == nil {
		idx.Examples = make(map[string][]ExampleRecord)
	}
}

// Key joins hierarchy segments with KeySeparator.
func Key(segments ...string) string {
	return strings.Join(segments, KeySeparator)
}

// SplitKey is the inverse of Key.
func SplitKey(key string) []string {
	return strings.Split(key, KeySeparator)
}

// ListVersions returns all indexed versions.
func (idx *ApiIndex) ListVersions() []string {
	return orEmpty(idx.Versions)
}

// ListSections returns the sections of a version.
func (idx *ApiIndex) ListSections(version string) []string {
	return orEmpty(idx.Sections[version])
}

// ListPages returns the page slugs of a section.
func (idx *ApiIndex) ListPages(version, section string) []string {
	return orEmpty(idx.Pages[Key(version, section)])
}

// ListTabs returns the tabs of a page in display order.
func (idx *ApiIndex) ListTabs(version, section, page string) []string {
	return orEmpty(idx.Tabs[Key(version, section, page)])
}

// ListExamples returns the examples of a tab in document order.
func (idx *ApiIndex) ListExamples(version, section, page, tab string) []ExampleRecord {
	examples := idx.Examples[Key(version, section, page, tab)]
	if examples == nil {
		return []ExampleRecord{}
	}
	return examples
}

// HasVersion checks if a version exists in the index.
func (idx *ApiIndex) HasVersion(version string) bool {
	return slices.Contains(idx.Versions, version)
}

// HasTab reports whether the full path tuple is present in the index.
func (idx *ApiIndex) HasTab(version, section, page, tab string) bool {
	return slices.Contains(idx.Tabs[Key(version, section, page)], tab)
}

// PagePath is one {version, section, page, tab} combination of the index.
type PagePath struct {
	Version string `json:"version"`
	Section string `json:"section"`
	Page    string `json:"page"`
	Tab     string `json:"tab"`
}

// String renders the path as URL segments.
func (p PagePath) String() string {
	return p.Version + "/" + p.Section + "/" + p.Page + "/" + p.Tab
}

// Paths enumerates every page path in index order.
func (idx *ApiIndex) Paths() []PagePath {
	var paths []PagePath
	for _, version := range idx.Versions {
		for _, section := range idx.Sections[version] {
			for _, page := range idx.Pages[Key(version, section)] {
				for _, tab := range idx.Tabs[Key(version, section, page)] {
					paths = append(paths, PagePath{
						Version: version,
						Section: section,
						Page:    page,
						Tab:     tab,
					})
				}
			}
		}
	}
	return paths
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
