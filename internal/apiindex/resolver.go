package apiindex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxIndexSize        = 64 << 20
)

// Loader yields the index a Resolver answers from.
type Loader interface {
	Load(ctx context.Context) (*ApiIndex, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*ApiIndex, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*ApiIndex, error) {
	return f(ctx)
}

// MemoryLoader serves an index that is already in memory.
func MemoryLoader(index *ApiIndex) Loader {
	return LoaderFunc(func(context.Context) (*ApiIndex, error) {
		return index, nil
	})
}

// BuildLoader serves the index produced by a memoized build, building it on
// first use.
func BuildLoader(once *Once) Loader {
	return once
}

// Load implements Loader.
func (o *Once) Load(ctx context.Context) (*ApiIndex, error) {
	return o.Build(ctx)
}

// FileLoader reads the persisted index through a store.
func FileLoader(store *Store) Loader {
	return LoaderFunc(func(context.Context) (*ApiIndex, error) {
		return store.Read()
	})
}

// HTTPLoader fetches the persisted index from a server publishing the output
// directory.
type HTTPLoader struct {
	url    string
	client *http.Client
}

// NewHTTPLoader creates a loader for baseURL + "/apiIndex.json". A nil client
// uses a client with a default timeout.
func NewHTTPLoader(baseURL string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPLoader{
		url:    strings.TrimSuffix(baseURL, "/") + "/" + FileName,
		client: client,
	}
}

// Load fetches and decodes the index.
func (l *HTTPLoader) Load(ctx context.Context) (*ApiIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create index request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index from %s: %w", l.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w (fetched from %s)", ErrIndexNotFound, l.url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch index from %s: unexpected status %s", l.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIndexMalformed, l.url, err)
	}

	return Decode(data)
}

// Resolver answers hierarchical lookups. The index is loaded on first use and
// cached; a failed load is retried on the next call.
type Resolver struct {
	loader Loader

	mu    sync.Mutex
	index *ApiIndex
}

// NewResolver creates a resolver backed by loader.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Index returns the loaded index.
func (r *Resolver) Index(ctx context.Context) (*ApiIndex, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index != nil {
		return r.index, nil
	}

	index, err := r.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.index = index
	return index, nil
}

// Versions returns all indexed versions.
func (r *Resolver) Versions(ctx context.Context) ([]string, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return index.ListVersions(), nil
}

// Sections returns the sections of a version; unknown versions yield an empty list.
func (r *Resolver) Sections(ctx context.Context, version string) ([]string, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return index.ListSections(version), nil
}

// Pages returns the pages of a section.
func (r *Resolver) Pages(ctx context.Context, version, section string) ([]string, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return index.ListPages(version, section), nil
}

// Tabs returns the tabs of a page in display order.
func (r *Resolver) Tabs(ctx context.Context, version, section, page string) ([]string, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return index.ListTabs(version, section, page), nil
}

// Examples returns the examples of a tab in document order.
func (r *Resolver) Examples(ctx context.Context, version, section, page, tab string) ([]ExampleRecord, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return index.ListExamples(version, section, page, tab), nil
}

// Has reports whether a {version, section, page, tab} tuple exists.
func (r *Resolver) Has(ctx context.Context, version, section, page, tab string) (bool, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return false, err
	}
	return index.HasTab(version, section, page, tab), nil
}

// Paths enumerates every page path, for static generation.
func (r *Resolver) Paths(ctx context.Context) ([]PagePath, error) {
	index, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return index.Paths(), nil
}
