// ABOUTME: MCP server assembly for the analytics tools
// ABOUTME: Registers every tool, resource and prompt against one dashboard
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
)

// NewServer builds an MCP server backed by dash.
func NewServer(dash *analytics.Dashboard, version string) *mcp.Server {
	analyticsHandlers := NewAnalyticsHandlers(dash)
	filterHandlers := NewFilterHandlers(dash)
	vizHandlers := NewVizHandlers(dash)
	resourceHandlers := NewResourceHandlers(dash)
	promptHandlers := NewPromptHandlers(dash)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pocportal",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_filters",
		Description: "List the POCs matching the dashboard filters by region, product, SE and date range",
	}, analyticsHandlers.ApplyFilters)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compute_summary",
		Description: "Compute total, open, in-review, closed and impacted deal value for the filtered POCs",
	}, analyticsHandlers.ComputeSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "aggregate_by_feature_request",
		Description: "Rank feature requests by the deal value of the POCs that need them, split into won and at-risk value",
	}, analyticsHandlers.AggregateByFeatureRequest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "drill_down",
		Description: "List the POCs behind a summary metric or a feature request row; totals always match the summary",
	}, analyticsHandlers.DrillDown)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_filter_state",
		Description: "Show the current dashboard filters, saved views and selectable values",
	}, filterHandlers.GetFilterState)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_filter_state",
		Description: "Update the shared dashboard filters; an empty list clears a dimension",
	}, filterHandlers.SetFilterState)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_view",
		Description: "Save the current filters as a named view",
	}, filterHandlers.SaveView)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_view",
		Description: "Replace the current filters with a saved view",
	}, filterHandlers.ApplyView)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_view",
		Description: "Delete a saved view",
	}, filterHandlers.DeleteView)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_feature_graph",
		Description: "Render feature requests and their POCs as a GraphViz graph with deal breakers highlighted",
	}, vizHandlers.GenerateFeatureGraph)

	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: URIScheme + "pocs/{id}",
		Name:        "poc",
		Description: "One POC with its lifecycle, region and feature request links",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}
