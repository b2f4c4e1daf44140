package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/content"
	"github.com/grafana/docindex/internal/logging"
)

const alertPath = "/repo/node_modules/@patternfly/react-core/src/components/Alert/examples/Alert.md"

func testIndex() *apiindex.ApiIndex {
	title := "Default usage"
	index := apiindex.New()
	index.Versions = []string{"v6"}
	index.Sections["v6"] = []string{"components", "get-started"}
	index.Pages["v6::components"] = []string{"alert"}
	index.Pages["v6::get-started"] = []string{"intro"}
	index.Tabs["v6::components::alert"] = []string{"react", "html"}
	index.Examples["v6::components::alert::react"] = []apiindex.ExampleRecord{
		{ExampleName: "AlertDefault", Title: &title},
	}
	return index
}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()

	opts = append([]Option{WithLogger(logging.New(io.Discard, 0))}, opts...)
	resolver := apiindex.NewResolver(apiindex.MemoryLoader(testIndex()))
	srv := httptest.NewServer(NewHandlers(resolver, opts...).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestLookupEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/api/versions", `["v6"]`},
		{"/api/v6", `["components","get-started"]`},
		{"/api/v6/components", `["alert"]`},
		{"/api/v6/components/alert", `["react","html"]`},
		{"/api/v6/get-started/intro", `[]`},
		{"/api/v6/components/alert/react/examples", `[{"exampleName":"AlertDefault","title":"Default usage"}]`},
		{"/api/v6/components/alert/html/examples", `[]`},
	}

	for _, tt := range tests {
		resp, body := get(t, srv, tt.path)
		require.Equal(t, http.StatusOK, resp.StatusCode, tt.path)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.JSONEq(t, tt.want, string(body), tt.path)
	}
}

func TestLookupMissesReturnNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	for _, path := range []string{
		"/api/v9",
		"/api/v6/charts",
		"/api/v6/components/card",
		"/api/v6/components/alert/vue/examples",
		"/api/v9/components/alert/react/examples",
	} {
		resp, body := get(t, srv, path)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)

		var errResp errorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		require.NotEmpty(t, errResp.Error)
	}
}

func TestServesIndexDocument(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, body := get(t, srv, "/"+apiindex.FileName)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	index, err := apiindex.Decode(body)
	require.NoError(t, err)
	require.Equal(t, testIndex(), index)
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp, _ := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc")
	resp2, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = resp2.Body.Close()
	require.Equal(t, "abc", resp2.Header.Get(RequestIDHeader))
}

func TestUnavailableIndex(t *testing.T) {
	t.Parallel()

	loader := apiindex.LoaderFunc(func(context.Context) (*apiindex.ApiIndex, error) {
		return nil, apiindex.ErrIndexNotFound
	})
	handlers := NewHandlers(apiindex.NewResolver(loader), WithLogger(logging.New(io.Discard, 0)))
	srv := httptest.NewServer(handlers.Routes())
	t.Cleanup(srv.Close)

	resp, _ := get(t, srv, "/api/versions")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTextEndpoint(t *testing.T) {
	t.Parallel()

	scanner := content.ScannerFunc(func(context.Context, content.Descriptor) ([]content.Entry, error) {
		return []content.Entry{{
			ID:       "Alert",
			FilePath: alertPath,
			Body:     "### Default usage\n",
			Data:     content.EntryData{Section: "components", ID: "Alert"},
		}}, nil
	})
	builder := apiindex.NewBuilder([]string{"v6"}, []content.Descriptor{{Name: "docs"}}, scanner)

	srv := newTestServer(t, WithLocator(apiindex.NewLocator(builder)))

	resp, body := get(t, srv, "/api/v6/components/alert/react/text")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Equal(t, "### Default usage\n", string(body))

	resp, _ = get(t, srv, "/api/v6/components/alert/html/text")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	failing := content.ScannerFunc(func(context.Context, content.Descriptor) ([]content.Entry, error) {
		return nil, errors.New("disk gone")
	})
	broken := apiindex.NewLocator(apiindex.NewBuilder([]string{"v6"}, []content.Descriptor{{Name: "docs"}}, failing))
	srv = newTestServer(t, WithLocator(broken))
	resp, _ = get(t, srv, "/api/v6/components/alert/react/text")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestTextEndpointWithoutLocator(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, _ := get(t, srv, "/api/v6/components/alert/react/text")
	require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}
