package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/logging"
)

// GetContentTool exposes a tool for retrieving the markdown behind a page tab.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var GetContentTool = mcp.NewTool(
	"get_content",
	mcp.WithDescription(
		"Retrieves the full markdown body of a documentation page tab, together with its live examples. "+
			"Use section, page and tab values from list_sections, list_pages and list_tabs. "+
			"Only available when the server indexes content from disk.",
	),
	mcp.WithString("section", mcp.Required(), mcp.Description("Section name from list_sections.")),
	mcp.WithString("page", mcp.Required(), mcp.Description("Page slug from list_pages.")),
	mcp.WithString("tab", mcp.Required(), mcp.Description("Tab from list_tabs.")),
	mcp.WithString("version", mcp.Description(versionDescription)),
)

type getContentResponse struct {
	Path     string                   `json:"path"`
	FilePath string                   `json:"file_path"`
	Content  string                   `json:"content"`
	Examples []apiindex.ExampleRecord `json:"examples"`
}

// RegisterGetContentTool registers the get_content tool with the MCP server.
func RegisterGetContentTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(GetContentTool, withToolLogger("get_content", newGetContentHandlerFunc(catalog)))
}

func newGetContentHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)
		logger.DebugContext(ctx, "Starting get_content operation")

		if catalog.Locator == nil {
			return mcp.NewToolResultError(
				"markdown content is not available: the server is browsing a prebuilt index. " +
					"Use list_examples for example metadata.",
			), nil
		}

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		path, err := catalog.parsePagePath(index, request)
		if err != nil {
			logger.WarnContext(ctx, "Invalid parameters", slog.String("error", err.Error()))
			return mcp.NewToolResultError(err.Error()), nil
		}

		entry, err := catalog.Locator.Locate(ctx, path)
		if errors.Is(err, apiindex.ErrContentNotFound) {
			logger.WarnContext(ctx, "Content not found", slog.String("path", path.String()))
			return mcp.NewToolResultError("content not found: " + path.String() +
				". Use list_tabs to see the tabs of a page"), nil
		}
		if err != nil {
			logger.ErrorContext(ctx, "Failed to locate content",
				slog.String("path", path.String()),
				slog.String("error", err.Error()))
			return mcp.NewToolResultError("failed to read content: " + err.Error()), nil
		}

		logger.InfoContext(ctx, "Content retrieved successfully",
			slog.String("path", path.String()),
			slog.Int("content_size", len(entry.Body)))

		return marshalResponse(ctx, logger, getContentResponse{
			Path:     path.String(),
			FilePath: entry.FilePath,
			Content:  entry.Body,
			Examples: apiindex.ExtractExamples(entry.Body),
		})
	}
}
