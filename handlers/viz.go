// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_feature_graph tool for agents
package handlers

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/viz"
)

type VizHandlers struct {
	dash *analytics.Dashboard
}

func NewVizHandlers(dash *analytics.Dashboard) *VizHandlers {
	return &VizHandlers{dash: dash}
}

type GenerateGraphInput struct {
	Format    string          `json:"format,omitempty" jsonschema:"Output format: dot (default) or svg"`
	Selection *SelectionInput `json:"selection,omitempty" jsonschema:"Filter overrides; defaults to the current dashboard filters"`
	TopOnly   bool            `json:"top_only,omitempty" jsonschema:"Only draw the Top-N feature requests"`
}

type GenerateGraphOutput struct {
	Format    string `json:"format"`
	Source    string `json:"source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateFeatureGraph(ctx context.Context, _ *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	format, err := viz.ParseFormat(input.Format)
	if err != nil {
		return nil, GenerateGraphOutput{}, err
	}
	if format == graphviz.PNG {
		return nil, GenerateGraphOutput{}, fmt.Errorf("png output is not available over MCP; use dot or svg")
	}

	sel, err := (&AnalyticsHandlers{dash: h.dash}).selection(input.Selection)
	if err != nil {
		return nil, GenerateGraphOutput{}, err
	}
	rows := h.dash.Engine().AggregateByFeatureRequest(sel)
	if input.TopOnly {
		rows = analytics.Rank(rows, sel.TopN).Top
	}

	g, err := viz.FeatureGraph(ctx, rows, format)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateGraphOutput{
		Format:    g.Format,
		Source:    string(g.Data),
		NodeCount: g.Nodes,
		EdgeCount: g.Edges,
	}, nil
}
