// ABOUTME: MCP server subcommand
// ABOUTME: Serves the analytics tools over stdio for agent integration
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(dash *analytics.Dashboard, version string) error {
	s := dash.Current().Summary
	log.Info("starting MCP server", "pocs", s.TotalCount, "as_of", dash.Engine().AsOf().Format("2006-01-02"))

	server := handlers.NewServer(dash, version)
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
