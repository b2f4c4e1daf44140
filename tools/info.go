package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/grafana/docindex/internal/buildinfo"
	"github.com/grafana/docindex/internal/logging"
)

// InfoTool exposes runtime information about the server and the loaded index.
//
//nolint:gochecknoglobals // Shared tool definition registered at startup.
var InfoTool = mcp.NewTool(
	"info",
	mcp.WithDescription("Get details about the docindex server and the size of the loaded content index."),
)

// InfoResponse is the response to the info tool.
type InfoResponse struct {
	// Version is the version of the docindex server.
	Version string `json:"version"`

	// Commit is the source revision the server was built from.
	Commit string `json:"commit"`

	// Versions lists the indexed documentation versions.
	Versions []string `json:"versions"`

	// Counts of index entries per level.
	Sections int `json:"sections"`
	Pages    int `json:"pages"`
	Tabs     int `json:"tabs"`
	Examples int `json:"examples"`

	// ContentAvailable reports whether get_content can read markdown bodies.
	ContentAvailable bool `json:"content_available"`
}

// RegisterInfoTool registers the info tool with the MCP server.
func RegisterInfoTool(s *server.MCPServer, catalog Catalog) {
	s.AddTool(InfoTool, withToolLogger("info", newInfoHandlerFunc(catalog)))
}

func newInfoHandlerFunc(catalog Catalog) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := logging.LoggerFromContext(ctx)

		index, errResult := catalog.loadIndex(ctx, logger)
		if errResult != nil {
			return errResult, nil
		}

		response := InfoResponse{
			Version:          buildinfo.Version,
			Commit:           buildinfo.Commit,
			Versions:         index.ListVersions(),
			ContentAvailable: catalog.Locator != nil,
		}
		for _, sections := range index.Sections {
			response.Sections += len(sections)
		}
		for _, pages := range index.Pages {
			response.Pages += len(pages)
		}
		for _, tabs := range index.Tabs {
			response.Tabs += len(tabs)
		}
		for _, examples := range index.Examples {
			response.Examples += len(examples)
		}

		return marshalResponse(ctx, logger, response)
	}
}
