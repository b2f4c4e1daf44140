package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/logging"
)

// Handlers answers index lookups from a resolver.
type Handlers struct {
	resolver *apiindex.Resolver
	locator  *apiindex.Locator
	logger   *slog.Logger
}

// NewHandlers returns handlers bound to resolver.
func NewHandlers(resolver *apiindex.Resolver, opts ...Option) *Handlers {
	h := &Handlers{resolver: resolver, logger: logging.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleIndex serves the whole index document.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	index, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, index)
}

// HandleVersions lists the indexed versions.
func (h *Handlers) HandleVersions(w http.ResponseWriter, r *http.Request) {
	index, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, index.ListVersions())
}

// HandleSections lists the sections of a version.
func (h *Handlers) HandleSections(w http.ResponseWriter, r *http.Request) {
	index, ok := h.load(w, r)
	if !ok {
		return
	}

	version := r.PathValue("version")
	if !index.HasVersion(version) {
		notFound(w, "version not found: "+version)
		return
	}
	writeJSON(w, http.StatusOK, index.ListSections(version))
}

// HandlePages lists the pages of a section.
func (h *Handlers) HandlePages(w http.ResponseWriter, r *http.Request) {
	index, ok := h.load(w, r)
	if !ok {
		return
	}

	version, section := r.PathValue("version"), r.PathValue("section")
	pages := index.ListPages(version, section)
	if len(pages) == 0 {
		notFound(w, "section not found: "+apiindex.Key(version, section))
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

// HandleTabs lists the tabs of a page. Pages indexed without tabs answer an empty list.
func (h *Handlers) HandleTabs(w http.ResponseWriter, r *http.Request) {
	index, ok := h.load(w, r)
	if !ok {
		return
	}

	version, section, page := r.PathValue("version"), r.PathValue("section"), r.PathValue("page")
	found := false
	for _, p := range index.ListPages(version, section) {
		if p == page {
			found = true
			break
		}
	}
	if !found {
		notFound(w, "page not found: "+apiindex.Key(version, section, page))
		return
	}
	writeJSON(w, http.StatusOK, index.ListTabs(version, section, page))
}

// HandleExamples lists the examples of a tab.
func (h *Handlers) HandleExamples(w http.ResponseWriter, r *http.Request) {
	index, ok := h.load(w, r)
	if !ok {
		return
	}

	path := pagePath(r)
	if !index.HasTab(path.Version, path.Section, path.Page, path.Tab) {
		notFound(w, "tab not found: "+path.String())
		return
	}
	writeJSON(w, http.StatusOK, index.ListExamples(path.Version, path.Section, path.Page, path.Tab))
}

// HandleText serves the raw markdown body behind a tab.
func (h *Handlers) HandleText(w http.ResponseWriter, r *http.Request) {
	if h.locator == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "content text is not available from a prebuilt index"})
		return
	}

	path := pagePath(r)
	entry, err := h.locator.Locate(r.Context(), path)
	if errors.Is(err, apiindex.ErrContentNotFound) {
		notFound(w, "content not found: "+path.String())
		return
	}
	if err != nil {
		logging.WithContext(r.Context()).ErrorContext(r.Context(), "Failed to locate content",
			slog.String("path", path.String()),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to locate content"})
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(entry.Body))
}

func (h *Handlers) load(w http.ResponseWriter, r *http.Request) (*apiindex.ApiIndex, bool) {
	index, err := h.resolver.Index(r.Context())
	if err != nil {
		logging.WithContext(r.Context()).ErrorContext(r.Context(), "Failed to load index",
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return nil, false
	}
	return index, true
}

func pagePath(r *http.Request) apiindex.PagePath {
	return apiindex.PagePath{
		Version: r.PathValue("version"),
		Section: r.PathValue("section"),
		Page:    r.PathValue("page"),
		Tab:     r.PathValue("tab"),
	}
}

func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
