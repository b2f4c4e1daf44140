package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc := "---\nid: Alert\nsection: components\nsource: react\n---\n### Usage\n<LiveExample src={AlertBasic} />\n"

	data, body, err := ParseDocument([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, EntryData{Section: "components", ID: "Alert", Source: "react"}, data)
	require.Equal(t, "### Usage\n<LiveExample src={AlertBasic} />\n", body)
}

func TestParseDocumentCRLF(t *testing.T) {
	t.Parallel()

	doc := "---\r\nid: Card\r\nsection: components\r\n---\r\nBody\r\n"

	data, body, err := ParseDocument([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "Card", data.ID)
	require.Equal(t, "components", data.Section)
	require.Equal(t, "Body\r\n", body)
}

func TestParseDocumentWithoutFrontmatter(t *testing.T) {
	t.Parallel()

	data, body, err := ParseDocument([]byte("# Title\n"))
	require.NoError(t, err)
	require.Equal(t, EntryData{}, data)
	require.Equal(t, "# Title\n", body)
}

func TestParseDocumentDuplicateKeys(t *testing.T) {
	t.Parallel()

	doc := "---\nid: Old\nsection: components\nid: New\n---\n"

	data, body, err := ParseDocument([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "New", data.ID)
	require.Equal(t, "components", data.Section)
	require.Empty(t, body)
}

func TestParseDocumentDuplicateKeysWithBlockValues(t *testing.T) {
	t.Parallel()

	doc := "---\ntab: |\n  first\n  block\nid: Alert\ntab: react\nsource: react-demos\n---\n# Alert\n"

	data, body, err := ParseDocument([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, EntryData{ID: "Alert", Tab: "react", Source: "react-demos"}, data)
	require.Equal(t, "# Alert\n", body)
}

func TestParseDocumentEmptyFrontmatter(t *testing.T) {
	t.Parallel()

	data, body, err := ParseDocument([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.Equal(t, EntryData{}, data)
	require.Equal(t, "body\n", body)
}

func TestParseDocumentErrors(t *testing.T) {
	t.Parallel()

	_, _, err := ParseDocument([]byte("---\nid: Alert\n"))
	require.Error(t, err)

	_, _, err = ParseDocument([]byte("---\nid: [unclosed\n---\n"))
	require.Error(t, err)
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"**/*.md", "Alert.md", true},
		{"**/*.md", "components/Alert/examples/Alert.md", true},
		{"**/*.md", "components/Alert/Alert.tsx", false},
		{"**/examples/*.md", "components/Alert/examples/Alert.md", true},
		{"**/examples/*.md", "components/Alert/Alert.md", false},
		{"src/**/*.{md,mdx}", "src/demos/Card.mdx", true},
		{"src/**/*.{md,mdx}", "docs/Card.md", false},
		{"*.md", "nested/Alert.md", false},
		{"[a-", "Alert.md", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, MatchGlob(tt.pattern, tt.name), "%s ~ %s", tt.pattern, tt.name)
	}
}

func TestDescriptorDir(t *testing.T) {
	t.Parallel()

	require.Equal(t, "content/docs", Descriptor{Base: "content/docs"}.Dir())
	require.Equal(t, "node_modules/@patternfly/react-core", Descriptor{PackageName: "@patternfly/react-core", Base: "ignored"}.Dir())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFileScannerScan(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	pkg := filepath.Join(root, "node_modules", "@patternfly", "react-core", "dist")
	writeFile(t, filepath.Join(pkg, "components", "Alert", "examples", "Alert.md"),
		"---\nid: Alert\nsection: components\n---\nalert\n")
	writeFile(t, filepath.Join(pkg, "demos", "Alert.md"),
		"---\nid: Alert\nsection: components\n---\ndemo\n")
	writeFile(t, filepath.Join(pkg, "components", "Alert", "Alert.tsx"), "export {}")

	scanner := NewFileScanner(root)
	entries, err := scanner.Scan(context.Background(), Descriptor{
		Name:        "react",
		PackageName: "@patternfly/react-core",
		Pattern:     "dist/**/*.md",
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "Alert", entries[0].ID)
	require.Equal(t, "components", entries[0].Data.Section)
	require.Equal(t, "alert\n", entries[0].Body)
	require.Contains(t, entries[0].FilePath, "node_modules/@patternfly/react-core/dist/components/Alert")
	require.Contains(t, entries[1].FilePath, "/dist/demos/Alert.md")
}

func TestFileScannerMissingCollection(t *testing.T) {
	t.Parallel()

	_, err := NewFileScanner(t.TempDir()).Scan(context.Background(), Descriptor{Name: "docs", Base: "missing"})
	require.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestFileScannerParseFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "broken.md"), "---\nid: Broken\n")

	_, err := NewFileScanner(root).Scan(context.Background(), Descriptor{Name: "docs", Base: "docs"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken.md")
}

func TestFileScannerCancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.md"), "# A\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileScanner(root).Scan(ctx, Descriptor{Name: "docs", Base: "docs"})
	require.ErrorIs(t, err, context.Canceled)
}
