// Package tools provides the MCP tools that browse the content index.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/grafana/docindex/internal/apiindex"
	"github.com/grafana/docindex/internal/logging"
)

// Catalog is what the tools browse: the index and, when sources are on disk, their bodies.
type Catalog struct {
	// Resolver answers index lookups.
	Resolver *apiindex.Resolver

	// Locator maps a tab back to its markdown. Nil when serving a prebuilt index.
	Locator *apiindex.Locator

	// DefaultVersion is used when a request names no version. Empty means the
	// last indexed version.
	DefaultVersion string
}

// Register adds every index tool to the MCP server.
func Register(s *server.MCPServer, catalog Catalog) {
	RegisterInfoTool(s, catalog)
	RegisterListVersionsTool(s, catalog)
	RegisterListSectionsTool(s, catalog)
	RegisterListPagesTool(s, catalog)
	RegisterListTabsTool(s, catalog)
	RegisterListExamplesTool(s, catalog)
	RegisterGetContentTool(s, catalog)
}

// withToolLogger wraps a tool handler to inject a logger into context and provide panic recovery.
// The logger is configured with the tool name and made available via logging.LoggerFromContext.
func withToolLogger(toolName string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		logger := logging.WithTool(toolName)
		ctx = logging.ContextWithLogger(ctx, logger)

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "panic in tool execution",
					slog.String("tool", toolName),
					slog.Any("panic", r))
				result = nil
				err = fmt.Errorf("internal error in tool execution: %s", r)
			}
		}()

		return handler(ctx, request)
	}
}

func marshalResponse(ctx context.Context, logger *slog.Logger, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.ErrorContext(ctx, "Failed to marshal response",
			slog.String("error", err.Error()))
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// loadIndex resolves the index, turning load failures into tool errors.
func (c Catalog) loadIndex(ctx context.Context, logger *slog.Logger) (*apiindex.ApiIndex, *mcp.CallToolResult) {
	index, err := c.Resolver.Index(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load index", slog.String("error", err.Error()))
		return nil, mcp.NewToolResultError("content index unavailable: " + err.Error())
	}
	return index, nil
}

// resolveVersion picks the requested version, the catalog default, or the last indexed version.
func (c Catalog) resolveVersion(index *apiindex.ApiIndex, version string) (string, error) {
	if version == "" {
		version = c.DefaultVersion
	}
	if version == "" && len(index.Versions) > 0 {
		version = index.Versions[len(index.Versions)-1]
	}
	if !index.HasVersion(version) {
		return "", fmt.Errorf("version not found: %s. Use list_versions to see available versions", version)
	}
	return version, nil
}
