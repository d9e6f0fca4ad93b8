// ABOUTME: MCP resource handlers for exposing dashboard data
// ABOUTME: Provides read-only access to the summary, rankings, filters and POCs via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
)

// URIScheme prefixes every resource URI.
const URIScheme = "pocportal://"

type ResourceHandlers struct {
	dash *analytics.Dashboard
}

func NewResourceHandlers(dash *analytics.Dashboard) *ResourceHandlers {
	return &ResourceHandlers{dash: dash}
}

// Resources lists the fixed resources for registration.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: URIScheme + "summary", Name: "summary", Description: "Summary figures under the current filters", MIMEType: "application/json"},
		{URI: URIScheme + "feature-requests", Name: "feature-requests", Description: "Top-N feature requests by POC value", MIMEType: "application/json"},
		{URI: URIScheme + "filters", Name: "filters", Description: "Current filter state and saved views", MIMEType: "application/json"},
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(_ context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, URIScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", URIScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, URIScheme), "/")
	view := h.dash.Current()

	switch parts[0] {
	case "summary":
		return jsonResource(uri, view.Summary)

	case "feature-requests":
		return jsonResource(uri, view.Ranking)

	case "filters":
		return jsonResource(uri, view.State)

	case "pocs":
		if len(parts) < 2 || parts[1] == "" {
			return nil, fmt.Errorf("poc ID required: %spocs/{id}", URIScheme)
		}
		return h.readPOC(uri, parts[1])

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readPOC(uri, id string) (*mcp.ReadResourceResult, error) {
	engine := h.dash.Engine()
	for _, p := range engine.Dataset().POCs {
		if p.ID != id {
			continue
		}
		detail := struct {
			POC       any                 `json:"poc"`
			Region    string              `json:"region"`
			Lifecycle analytics.Lifecycle `json:"lifecycle"`
			Links     any                 `json:"feature_requests"`
		}{
			POC:       p,
			Region:    engine.Index().Regions.Of(p),
			Lifecycle: engine.Classify(p),
			Links:     engine.Index().Links[p.ID],
		}
		return jsonResource(uri, detail)
	}
	return nil, fmt.Errorf("poc not found: %s", id)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
