// Package output renders the content index for terminals.
package output

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"

	"github.com/grafana/docindex/internal/apiindex"
)

// IndexTree renders the version, section, page and tab hierarchy of index.
// A non-empty version limits the tree to that version.
func IndexTree(index *apiindex.ApiIndex, version string) string {
	root := gotree.New(apiindex.FileName)

	for _, v := range index.ListVersions() {
		if version != "" && v != version {
			continue
		}
		versionNode := root.Add(v)

		for _, section := range index.ListSections(v) {
			sectionNode := versionNode.Add(section)

			for _, page := range index.ListPages(v, section) {
				pageNode := sectionNode.Add(page)

				for _, tab := range index.ListTabs(v, section, page) {
					pageNode.Add(tabLabel(tab, len(index.ListExamples(v, section, page, tab))))
				}
			}
		}
	}

	return root.Print()
}

func tabLabel(tab string, examples int) string {
	switch examples {
	case 0:
		return tab
	case 1:
		return tab + " (1 example)"
	default:
		return fmt.Sprintf("%s (%d examples)", tab, examples)
	}
}
