package apiindex

import (
	"cmp"
	"slices"
	"strings"
)

const (
	demosSuffix      = "-demos"
	deprecatedSuffix = "-deprecated"

	defaultTabPriority = 50.0
)

// DefaultTabPackages maps npm package names to the base tab they document.
//
//nolint:gochecknoglobals // Read-only default table.
var DefaultTabPackages = map[string]string{
	"@patternfly/patternfly":        "html",
	"@patternfly/react-core":        "react",
	"@patternfly/react-table":       "react",
	"@patternfly/react-charts":      "react",
	"@patternfly/react-code-editor": "react",
	"@patternfly/react-drag-drop":   "react",
	"@patternfly/react-templates":   "react",
}

//nolint:gochecknoglobals // Read-only priority table.
var tabPriorities = map[string]float64{
	"react":             1,
	"react-next":        1.1,
	"react-demos":       2,
	"react-deprecated":  2.1,
	"html":              3,
	"html-demos":        4,
	"design-guidelines": 99,
	"accessibility":     100,
	"upgrade-guide":     101,
	"release-notes":     102,
}

// TabResolver derives tab labels from entry metadata and file paths.
type TabResolver struct {
	packages map[string]string
}

// NewTabResolver creates a resolver. A nil table falls back to DefaultTabPackages.
func NewTabResolver(packages map[string]string) *TabResolver {
	if packages == nil {
		packages = DefaultTabPackages
	}
	return &TabResolver{packages: packages}
}

// Resolve returns the canonical tab label for an entry, or "" when the entry has
// no file path or no tab can be determined. An explicit tab wins over source,
// which wins over the path.
//
// Demos and deprecated variants are detected by substring match on path
// segments. This is a heuristic: a package literally named "demos-something"
// is classified as a demos variant.
func (r *TabResolver) Resolve(filePath, tab, source string) string {
	segments := pathSegments(filePath)
	if len(segments) == 0 {
		return ""
	}

	base := tab
	if base == "" {
		base = source
	}
	if base == "" {
		base = r.packageTab(segments)
	}
	if base == "" {
		return ""
	}

	label := base
	if segmentsContain(segments, "demos") {
		label = withSuffix(label, demosSuffix)
	}
	if segmentsContain(segments, "deprecated") {
		label = withSuffix(label, deprecatedSuffix)
	}
	return label
}

// PackageName extracts the npm package a file path belongs to, "" if the path
// is not inside node_modules.
func PackageName(filePath string) string {
	return packageName(pathSegments(filePath))
}

func (r *TabResolver) packageTab(segments []string) string {
	name := packageName(segments)
	if name == "" {
		return ""
	}
	return r.packages[name]
}

func packageName(segments []string) string {
	i := slices.Index(segments, "node_modules")
	if i < 0 || i+1 >= len(segments) {
		return ""
	}

	name := segments[i+1]
	if strings.HasPrefix(name, "@") {
		if i+2 >= len(segments) {
			return ""
		}
		return name + "/" + segments[i+2]
	}
	return name
}

func pathSegments(filePath string) []string {
	if filePath == "" {
		return nil
	}
	normalized := strings.ReplaceAll(filePath, `\`, "/")
	return slices.DeleteFunc(strings.Split(normalized, "/"), func(s string) bool { return s == "" })
}

func segmentsContain(segments []string, needle string) bool {
	return slices.ContainsFunc(segments, func(s string) bool {
		return strings.Contains(s, needle)
	})
}

// withSuffix appends suffix unless the label already carries it, either at the
// end or followed by a later suffix ("react-demos-deprecated" has "-demos").
func withSuffix(label, suffix string) string {
	if strings.HasSuffix(label, suffix) || strings.Contains(label, suffix+"-") {
		return label
	}
	return label + suffix
}

// TabPriority returns the display priority of a tab; lower sorts first.
func TabPriority(tab string) float64 {
	if p, ok := tabPriorities[tab]; ok {
		return p
	}
	return defaultTabPriority
}

// CompareTabs orders tabs by priority, then lexicographically.
func CompareTabs(a, b string) int {
	if c := cmp.Compare(TabPriority(a), TabPriority(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortTabs returns the unique tabs in display order. The input is not modified.
func SortTabs(tabs []string) []string {
	sorted := slices.Clone(tabs)
	slices.SortFunc(sorted, CompareTabs)
	return slices.Compact(sorted)
}
