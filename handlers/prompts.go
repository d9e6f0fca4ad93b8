// ABOUTME: MCP prompt handlers for executive reporting workflows
// ABOUTME: Builds briefing prompts from the current dashboard view
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/money"
	"github.com/sabixx/poc-portal-sub001/viz"
)

type PromptHandlers struct {
	dash *analytics.Dashboard
}

func NewPromptHandlers(dash *analytics.Dashboard) *PromptHandlers {
	return &PromptHandlers{dash: dash}
}

// Prompts lists the prompts for registration.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "executive-brief",
			Description: "Summarize the POC pipeline and the feature requests putting it at risk",
		},
		{
			Name:        "feature-request-impact",
			Description: "Analyze the POCs that depend on one feature request",
			Arguments: []*mcp.PromptArgument{
				{Name: "feature_request_id", Description: "Feature request to analyze", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(_ context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "executive-brief":
		return h.executiveBrief()
	case "feature-request-impact":
		return h.featureRequestImpact(request.Params.Arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) executiveBrief() (*mcp.GetPromptResult, error) {
	view := h.dash.Current()
	s := view.Summary

	var b strings.Builder
	b.WriteString("Please write a short executive brief on the POC pipeline:\n\n")
	fmt.Fprintf(&b, "Filters: %s\n", viz.DescribeSelection(view.State.Selection))
	fmt.Fprintf(&b, "Total pipeline: %s across %d of %d POCs\n", money.Format(s.TotalValue), s.FilteredCount, s.TotalCount)
	fmt.Fprintf(&b, "Open: %s (%d)\n", money.Format(s.OpenValue), s.OpenCount)
	fmt.Fprintf(&b, "In review: %s (%d)\n", money.Format(s.InReviewValue), s.InReviewCount)
	fmt.Fprintf(&b, "Closed: %s (%d)\n", money.Format(s.ClosedValue), s.ClosedCount)
	if s.ImpactedValue != nil {
		fmt.Fprintf(&b, "Open value impacted by selected feature requests: %s (%d)\n", money.Format(*s.ImpactedValue), s.ImpactedCount)
	}

	if len(view.Ranking.Top) > 0 {
		b.WriteString("\nTop feature requests by POC value:\n")
		for i, row := range view.Ranking.Top {
			fmt.Fprintf(&b, "%d. %s: %s total, %s won, %s at risk, %d deal breakers\n",
				i+1, row.Title, money.Format(row.TotalValue), money.Format(row.WonValue),
				money.Format(row.AtRiskValue), row.DealBreakers)
		}
	}

	b.WriteString("\nPlease cover:")
	b.WriteString("\n1. Overall pipeline health")
	b.WriteString("\n2. Which feature requests put the most revenue at risk")
	b.WriteString("\n3. Recommended priorities for product management")

	return textPrompt("Executive brief for the current filters", b.String()), nil
}

func (h *PromptHandlers) featureRequestImpact(args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["feature_request_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("feature_request_id is required")
	}

	d, err := h.dash.DrillDown(analytics.RowTarget(id))
	if err != nil {
		return nil, fmt.Errorf("failed to drill into feature request: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please analyze the business impact of the feature request %q.\n\n", d.Title)
	fmt.Fprintf(&b, "%d POCs worth %s depend on it:\n", len(d.POCs), money.Format(d.TotalValue))
	for _, p := range d.POCs {
		fmt.Fprintf(&b, "- %s (%s, %s): %s, %s", p.POC.CustomerName, p.POC.Product, p.Region,
			money.Format(p.Value), p.Lifecycle.Label)
		if p.Won {
			b.WriteString(", won")
		}
		for _, l := range p.FeatureRequests {
			if l.FeatureRequestID == id && l.DealBreaker {
				b.WriteString(", deal breaker")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPlease assess how urgent the request is and which customers to follow up with first.")

	return textPrompt(fmt.Sprintf("Impact of feature request: %s", d.Title), b.String()), nil
}

func textPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}
