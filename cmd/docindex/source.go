package main

import (
	"github.com/sirupsen/logrus"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/tools"
)

// openCatalog selects where lookups come from. A remote index URL wins; otherwise
// the persisted index is read, or built in memory when it does not exist yet.
// Markdown bodies are only reachable when the collections are on disk.
func (o *rootOptions) openCatalog(indexURL string, logger logrus.FieldLogger) (tools.Catalog, string, error) {
	if indexURL != "" {
		loader := apiindex.NewHTTPLoader(indexURL, nil)
		return tools.Catalog{Resolver: apiindex.NewResolver(loader)}, indexURL, nil
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return tools.Catalog{}, "", err
	}

	builder := newBuilder(cfg, logger)
	store := apiindex.NewStore(cfg.OutputDir)

	var (
		loader apiindex.Loader
		origin string
	)
	if store.Exists() {
		loader, origin = apiindex.FileLoader(store), store.Path()
	} else {
		logger.WithField("path", store.Path()).Warn("no persisted index, building in memory")
		loader, origin = apiindex.BuildLoader(apiindex.NewOnce(builder)), "memory"
	}

	return tools.Catalog{
		Resolver:       apiindex.NewResolver(loader),
		Locator:        apiindex.NewLocator(builder),
		DefaultVersion: cfg.DefaultVersion,
	}, origin, nil
}
