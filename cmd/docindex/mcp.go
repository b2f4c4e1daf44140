package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/grafana/docindex/internal/buildinfo"
	"github.com/grafana/docindex/internal/config"
	"github.com/grafana/docindex/internal/logging"
	"github.com/grafana/docindex/tools"
)

// Server instructions give the agent an overview of the tools. Keep them brief.
const instructions = `
Use the provided tools to browse the documentation content index.
Navigate progressively: list_versions, then list_sections, list_pages and list_tabs.
Use list_examples for the live examples of a tab and get_content for its markdown.
`

//nolint:gochecknoglobals // Allows test override for stdio server.
var serveStdio = server.ServeStdio

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var (
		transport    string
		addr         string
		indexURL     string
		ssePath      string
		messagesPath string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve index lookups as MCP tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.Default()

			logger.Info("Starting docindex MCP server",
				slog.String("version", buildinfo.Version),
				slog.String("commit", buildinfo.Commit),
				slog.String("built_at", buildinfo.Date),
				slog.String("transport", transport))

			catalog, origin, err := opts.openCatalog(indexURL, opts.buildLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			logger.Info("Content index source", slog.String("origin", origin))

			s := server.NewMCPServer(
				"docindex",
				buildinfo.Version,
				server.WithLogging(),
				server.WithRecovery(),
				server.WithInstructions(instructions),
			)
			tools.Register(s, catalog)

			switch transport {
			case "stdio":
				logger.Info("Starting MCP server on stdio")
				if err := serveStdio(s); err != nil {
					return fmt.Errorf("MCP server exited with error: %w", err)
				}
				return nil
			case "http":
				return serveSSE(cmd, s, logger, addr, ssePath, messagesPath)
			default:
				return fmt.Errorf("unknown transport %q: use stdio or http", transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport mode: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", envOrDefault(config.EnvAddr, ":8080"), "HTTP address to listen on")
	cmd.Flags().StringVar(&indexURL, "index-url", envOrDefault(config.EnvIndexURL, ""),
		"Base URL serving apiIndex.json; lookups are fetched from it instead of the local index")
	cmd.Flags().StringVar(&ssePath, "sse-path", "/sse", "Path for SSE endpoint")
	cmd.Flags().StringVar(&messagesPath, "messages-path", "/messages", "Path for message posting")

	return cmd
}

func serveSSE(cmd *cobra.Command, s *server.MCPServer, logger *slog.Logger, addr, ssePath, messagesPath string) error {
	baseURL := "http://localhost:8080"
	if addr != "" {
		if addr[0] == ':' {
			baseURL = "http://localhost" + addr
		} else {
			baseURL = "http://" + addr
		}
	}

	sseServer := server.NewSSEServer(s,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint(ssePath),
		server.WithMessageEndpoint(messagesPath),
	)
	mux := http.NewServeMux()
	mux.Handle(ssePath, sseServer)
	mux.Handle(messagesPath, sseServer)

	logger.Info("Starting MCP server on HTTP",
		slog.String("addr", addr),
		slog.String("sse_path", ssePath),
		slog.String("messages_path", messagesPath),
		slog.String("base_url", baseURL))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: shutdownTimeout}
	return listenAndServe(cmd.Context(), srv, logger)
}
