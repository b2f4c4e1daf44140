package apiindex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newLoaders(t *testing.T, index *ApiIndex) map[string]Loader {
	t.Helper()

	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Write(index))

	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(server.Close)

	return map[string]Loader{
		"memory": MemoryLoader(index),
		"file":   FileLoader(store),
		"http":   NewHTTPLoader(server.URL+"/", server.Client()),
	}
}

func TestResolverStrategiesAgree(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	index := sampleIndex()
	loaders := newLoaders(t, index)

	reference := NewResolver(MemoryLoader(index))
	wantPaths, err := reference.Paths(ctx)
	require.NoError(t, err)

	for name, loader := range loaders {
		t.Run(name, func(t *testing.T) {
			resolver := NewResolver(loader)

			versions, err := resolver.Versions(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"v5", "v6"}, versions)

			sections, err := resolver.Sections(ctx, "v6")
			require.NoError(t, err)
			require.Equal(t, []string{"components", "layouts"}, sections)

			pages, err := resolver.Pages(ctx, "v6", "components")
			require.NoError(t, err)
			require.Equal(t, []string{"alert", "card"}, pages)

			tabs, err := resolver.Tabs(ctx, "v6", "components", "alert")
			require.NoError(t, err)
			require.Equal(t, []string{"react", "react-demos", "html"}, tabs)

			examples, err := resolver.Examples(ctx, "v6", "components", "alert", "react")
			require.NoError(t, err)
			require.Equal(t, index.Examples["v6::components::alert::react"], examples)

			paths, err := resolver.Paths(ctx)
			require.NoError(t, err)
			require.Equal(t, wantPaths, paths)

			ok, err := resolver.Has(ctx, "v6", "layouts", "flex", "html")
			require.NoError(t, err)
			require.True(t, ok)
		})
	}
}

func TestResolverMissesAreEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	resolver := NewResolver(MemoryLoader(sampleIndex()))

	sections, err := resolver.Sections(ctx, "v1")
	require.NoError(t, err)
	require.Equal(t, []string{}, sections)

	pages, err := resolver.Pages(ctx, "v6", "charts")
	require.NoError(t, err)
	require.Equal(t, []string{}, pages)

	tabs, err := resolver.Tabs(ctx, "v6", "components", "never-inserted")
	require.NoError(t, err)
	require.Equal(t, []string{}, tabs)

	examples, err := resolver.Examples(ctx, "v6", "components", "alert", "html")
	require.NoError(t, err)
	require.Equal(t, []ExampleRecord{}, examples)

	ok, err := resolver.Has(ctx, "v6", "components", "alert", "vue")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolverPaths(t *testing.T) {
	t.Parallel()

	paths, err := NewResolver(MemoryLoader(sampleIndex())).Paths(context.Background())
	require.NoError(t, err)

	rendered := make([]string, 0, len(paths))
	for _, p := range paths {
		rendered = append(rendered, p.String())
	}
	require.Equal(t, []string{
		"v5/components/alert/html",
		"v6/components/alert/react",
		"v6/components/alert/react-demos",
		"v6/components/alert/html",
		"v6/components/card/react",
		"v6/layouts/flex/react",
		"v6/layouts/flex/html",
	}, rendered)
}

func TestResolverRetriesFailedLoad(t *testing.T) {
	t.Parallel()

	errLoad := errors.New("not yet")
	calls := 0
	resolver := NewResolver(LoaderFunc(func(context.Context) (*ApiIndex, error) {
		calls++
		if calls == 1 {
			return nil, errLoad
		}
		return sampleIndex(), nil
	}))

	_, err := resolver.Versions(context.Background())
	require.ErrorIs(t, err, errLoad)

	versions, err := resolver.Versions(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"v5", "v6"}, versions)

	_, err = resolver.Versions(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestHTTPLoaderErrors(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/missing/apiIndex.json", http.NotFound)
	mux.HandleFunc("/broken/apiIndex.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"versions": [`))
	})
	mux.HandleFunc("/failing/apiIndex.json", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ctx := context.Background()

	_, err := NewHTTPLoader(server.URL+"/missing", server.Client()).Load(ctx)
	require.ErrorIs(t, err, ErrIndexNotFound)

	_, err = NewHTTPLoader(server.URL+"/broken", server.Client()).Load(ctx)
	require.ErrorIs(t, err, ErrIndexMalformed)

	_, err = NewHTTPLoader(server.URL+"/failing", server.Client()).Load(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}
