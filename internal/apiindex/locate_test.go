package apiindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafana/docindex/internal/content"
)

func TestLocatorFindsEntryForTab(t *testing.T) {
	t.Parallel()

	builder := NewBuilder(
		[]string{"v6"},
		[]content.Descriptor{{Name: "docs", Version: "v6"}},
		fakeScanner(map[string][]content.Entry{
			"docs": {
				alertEntry(reactAlertPath, "react body"),
				alertEntry(reactDemosPath, "demos body"),
				alertEntry(htmlAlertPath, "html body"),
			},
		}),
	)
	locator := NewLocator(builder)
	ctx := context.Background()

	entry, err := locator.Locate(ctx, PagePath{Version: "v6", Section: "components", Page: "alert", Tab: "react-demos"})
	require.NoError(t, err)
	require.Equal(t, reactDemosPath, entry.FilePath)
	require.Equal(t, "demos body", entry.Body)

	entry, err = locator.Locate(ctx, PagePath{Version: "v6", Section: "components", Page: "alert", Tab: "html"})
	require.NoError(t, err)
	require.Equal(t, "html body", entry.Body)

	_, err = locator.Locate(ctx, PagePath{Version: "v6", Section: "components", Page: "alert", Tab: "vue"})
	require.ErrorIs(t, err, ErrContentNotFound)

	_, err = locator.Locate(ctx, PagePath{Version: "v5", Section: "components", Page: "alert", Tab: "react"})
	require.ErrorIs(t, err, ErrContentNotFound)
}
