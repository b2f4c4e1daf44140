package tools

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/logging"
)

const versionDescription = "Optional: documentation version (e.g., 'v6'). " +
	"Defaults to the server's default version. Use list_versions to see available versions."

//nolint:gochecknoglobals // Shared tool definitions registered at startup.
var (
	// ListVersionsTool lists the indexed documentation versions.
	ListVersionsTool = mcp.NewTool(
		"list_versions",
		mcp.WithDescription(
			"Lists the documentation versions present in the content index. "+
				"Start here, then use list_sections to browse a version.",
		),
	)

	// ListSectionsTool lists the sections of a version.
	ListSectionsTool = mcp.NewTool(
		"list_sections",
		mcp.WithDescription(
			"Lists the top-level documentation sections of a version (e.g., 'components', 'layouts'). "+
				"Use list_pages with a section to see its pages.",
		),
		mcp.WithString("version", mcp.Description(versionDescription)),
	)

	// ListPagesTool lists the pages of a section.
	ListPagesTool = mcp.NewTool(
		"list_pages",
		mcp.WithDescription(
			"Lists the pages of a documentation section as kebab-case slugs (e.g., 'alert'). "+
				"Use list_tabs with a page to see its implementation tabs.",
		),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section name from list_sections.")),
		mcp.WithString("version", mcp.Description(versionDescription)),
	)

	// ListTabsTool lists the tabs of a page.
	ListTabsTool = mcp.NewTool(
		"list_tabs",
		mcp.WithDescription(
			"Lists the implementation tabs of a page (e.g., 'react', 'react-demos', 'html') in display order. "+
				"Use list_examples or get_content with a tab.",
		),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section name from list_sections.")),
		mcp.WithString("page", mcp.Required(), mcp.Description("Page slug from list_pages.")),
		mcp.WithString("version", mcp.Description(versionDescription)),
	)

	// ListExamplesTool lists the live examples embedded in a tab.
	ListExamplesTool = mcp.NewTool(
		"list_examples",
		mcp.WithDescription(
			"Lists the live code examples embedded in a page tab, in document order, "+
				"with the title of the heading each one appears under.",
		),
		mcp.WithString("section", mcp.Required(), mcp.Description("Section name from list_sections.")),
		mcp.WithString("page", mcp.Required(), mcp.Description("Page slug from list_pages.")),
		mcp.WithString("tab", mcp.Required(), mcp.Description("Tab from list_tabs.")),
		mcp.WithString("version", mcp.Description(versionDescription)),
	)
)

type versionsResponse struct {
	Versions []string `json:"versions"`
	Default  string   `json:"default"`
}

type listResponse struct {
	Version string   `json:"version"`
	Section string   `json:"section,omitempty"`
	Page    string   `json:"page,omitempty"`
	Items   []string `json:"items"`
	Count   int      `json:"count"`
	Usage   string   `json:"usage"`
}

type examplesResponse struct {
	Path     string                   `json:"path"`
	Examples []apiindex.ExampleRecord `json:"examples"`
	Count    int                      `json:"count"`
}

// RegisterListVersionsTool registers the list_versions tool with the MCP server.
func RegisterListVersionsTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(ListVersionsTool, withToolLogger("list_versions", newListVersionsHandlerFunc(catalog)))
}

// RegisterListSectionsTool registers the list_sections tool with the MCP server.
func RegisterListSectionsTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(ListSectionsTool, withToolLogger("list_sections", newListSectionsHandlerFunc(catalog)))
}

// RegisterListPagesTool registers the list_pages tool with the MCP server.
func RegisterListPagesTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(ListPagesTool, withToolLogger("list_pages", newListPagesHandlerFunc(catalog)))
}

// RegisterListTabsTool registers the list_tabs tool with the MCP server.
func RegisterListTabsTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(ListTabsTool, withToolLogger("list_tabs", newListTabsHandlerFunc(catalog)))
}

// RegisterListExamplesTool registers the list_examples tool with the MCP server.
func RegisterListExamplesTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(ListExamplesTool, withToolLogger("list_examples", newListExamplesHandlerFunc(catalog)))
}

func newListVersionsHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		logger.DebugContext(ctx, "Starting list_versions operation")

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		resp := versionsResponse{Versions: index.ListVersions()}
		if def, err := catalog.resolveVersion(index, ""); err == nil {
			resp.Default = def
		}

		logger.InfoContext(ctx, "Versions listed",
			slog.Int("version_count", len(resp.Versions)),
			slog.String("default", resp.Default))

		return marshalResponse(ctx, logger, resp)
	}
}

func newListSectionsHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		logger.DebugContext(ctx, "Starting list_sections operation")

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		version, err := catalog.resolveVersion(index, request.GetString("version", ""))
		if err != nil {
			logger.WarnContext(ctx, "Version not found",
				slog.String("version", request.GetString("version", "")),
				slog.Any("available_versions", index.ListVersions()))
			return mcp.NewToolResultError(err.Error()), nil
		}

		sections := index.ListSections(version)
		logger.InfoContext(ctx, "Sections listed successfully",
			slog.String("version", version),
			slog.Int("section_count", len(sections)))

		return marshalResponse(ctx, logger, listResponse{
			Version: version,
			Items:   sections,
			Count:   len(sections),
			Usage:   "Use a section name with list_pages to see its pages.",
		})
	}
}

func newListPagesHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		logger.DebugContext(ctx, "Starting list_pages operation")

		section, err := request.RequireString("section")
		if err != nil {
			return mcp.NewToolResultError("missing or invalid section parameter: " + err.Error()), nil
		}

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		version, err := catalog.resolveVersion(index, request.GetString("version", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		pages := index.ListPages(version, section)
		if len(pages) == 0 {
			logger.WarnContext(ctx, "Section not found",
				slog.String("version", version),
				slog.String("section", section))
			return mcp.NewToolResultError("section not found: " + section +
				". Use list_sections to see the sections of version " + version), nil
		}

		logger.InfoContext(ctx, "Pages listed successfully",
			slog.String("version", version),
			slog.String("section", section),
			slog.Int("page_count", len(pages)))

		return marshalResponse(ctx, logger, listResponse{
			Version: version,
			Section: section,
			Items:   pages,
			Count:   len(pages),
			Usage:   "Use a page slug with list_tabs to see its implementation tabs.",
		})
	}
}

func newListTabsHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		logger.DebugContext(ctx, "Starting list_tabs operation")

		section, err := request.RequireString("section")
		if err != nil {
			return mcp.NewToolResultError("missing or invalid section parameter: " + err.Error()), nil
		}
		page, err := request.RequireString("page")
		if err != nil {
			return mcp.NewToolResultError("missing or invalid page parameter: " + err.Error()), nil
		}

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		version, err := catalog.resolveVersion(index, request.GetString("version", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if !slices.Contains(index.ListPages(version, section), page) {
			logger.WarnContext(ctx, "Page not found",
				slog.String("version", version),
				slog.String("section", section),
				slog.String("page", page))
			return mcp.NewToolResultError("page not found: " + apiindex.Key(version, section, page) +
				". Use list_pages to see the pages of a section"), nil
		}

		tabs := index.ListTabs(version, section, page)
		logger.InfoContext(ctx, "Tabs listed successfully",
			slog.String("version", version),
			slog.String("section", section),
			slog.String("page", page),
			slog.Int("tab_count", len(tabs)))

		return marshalResponse(ctx, logger, listResponse{
			Version: version,
			Section: section,
			Page:    page,
			Items:   tabs,
			Count:   len(tabs),
			Usage:   "Use a tab with list_examples for its live examples or get_content for its markdown.",
		})
	}
}

func newListExamplesHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		logger.DebugContext(ctx, "Starting list_examples operation")

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		path, err := catalog.parsePagePath(index, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if !index.HasTab(path.Version, path.Section, path.Page, path.Tab) {
			logger.WarnContext(ctx, "Tab not found", slog.String("path", path.String()))
			return mcp.NewToolResultError("tab not found: " + path.String() +
				". Use list_tabs to see the tabs of a page"), nil
		}

		examples := index.ListExamples(path.Version, path.Section, path.Page, path.Tab)
		logger.InfoContext(ctx, "Examples listed successfully",
			slog.String("path", path.String()),
			slog.Int("example_count", len(examples)))

		return marshalResponse(ctx, logger, examplesResponse{
			Path:     path.String(),
			Examples: examples,
			Count:    len(examples),
		})
	}
}

// parsePagePath reads the section, page and tab arguments and resolves the version.
func (c Catalog) parsePagePath(index *apiindex.ApiIndex, request mcp.CallToolRequest) (apiindex.PagePath, error) {
	var path apiindex.PagePath

	for _, arg := range []struct {
		name string
		dst  *string
	}{
		{"section", &path.Section},
		{"page", &path.Page},
		{"tab", &path.Tab},
	} {
		v, err := request.RequireString(arg.name)
		if err != nil {
			return path, fmt.Errorf("missing or invalid %s parameter: %w", arg.name, err)
		}
		*arg.dst = v
	}

	version, err := c.resolveVersion(index, request.GetString("version", ""))
	if err != nil {
		return path, err
	}
	path.Version = version
	return path, nil
}
