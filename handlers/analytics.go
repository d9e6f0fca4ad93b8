// ABOUTME: MCP tool handlers for the executive analytics engine
// ABOUTME: Exposes filtering, summaries, feature request rankings and drill-downs to agents
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
)

type AnalyticsHandlers struct {
	dash *analytics.Dashboard
}

func NewAnalyticsHandlers(dash *analytics.Dashboard) *AnalyticsHandlers {
	return &AnalyticsHandlers{dash: dash}
}

// SelectionInput overrides the saved filter state for a single call. Omitted
// fields fall back to the current dashboard filters.
type SelectionInput struct {
	Regions         []string `json:"regions,omitempty" jsonschema:"SE regions to include; unassigned matches SEs without a region"`
	Products        []string `json:"products,omitempty" jsonschema:"Products to include"`
	SEs             []string `json:"ses,omitempty" jsonschema:"SE or manager user IDs; a manager matches their whole team"`
	From            string   `json:"from,omitempty" jsonschema:"Start of date range (YYYY-MM-DD)"`
	To              string   `json:"to,omitempty" jsonschema:"End of date range (YYYY-MM-DD)"`
	DealBreakerMode string   `json:"deal_breaker_mode,omitempty" jsonschema:"all or only"`
	FeatureRequests []string `json:"feature_requests,omitempty" jsonschema:"Feature request IDs used for the impacted metric"`
	TopN            int      `json:"top_n,omitempty" jsonschema:"Ranking size, 5 or 10"`
}

// patch converts the input into a filter patch. Empty fields are left unset;
// a single date bound is merged into current.
func (in *SelectionInput) patch(current filters.DateRange) (filters.Patch, error) {
	var p filters.Patch
	if in == nil {
		return p, nil
	}
	if in.Regions != nil {
		p.Regions = &in.Regions
	}
	if in.Products != nil {
		p.Products = &in.Products
	}
	if in.SEs != nil {
		p.SEs = &in.SEs
	}
	if in.From != "" || in.To != "" {
		r, err := current.WithBounds(in.From, in.To, in.From != "", in.To != "")
		if err != nil {
			return p, err
		}
		p.DateRange = &r
	}
	if in.DealBreakerMode != "" {
		mode := filters.DealBreakerMode(in.DealBreakerMode)
		if mode != filters.DealBreakerAll && mode != filters.DealBreakerOnly {
			return p, fmt.Errorf("invalid deal_breaker_mode: %s (valid: all, only)", in.DealBreakerMode)
		}
		p.DealBreakerMode = &mode
	}
	if in.FeatureRequests != nil {
		p.FeatureRequests = &in.FeatureRequests
	}
	if in.TopN != 0 {
		if in.TopN != filters.TopFive && in.TopN != filters.TopTen {
			return p, fmt.Errorf("invalid top_n: %d (valid: 5, 10)", in.TopN)
		}
		p.TopN = &in.TopN
	}
	return p, nil
}

// selection resolves the effective selection for a call.
func (h *AnalyticsHandlers) selection(in *SelectionInput) (filters.Selection, error) {
	current := h.dash.Current().State.Selection
	p, err := in.patch(current.DateRange)
	if err != nil {
		return filters.Selection{}, err
	}
	return current.Apply(p), nil
}

// SelectionOutput is a selection with dates rendered as YYYY-MM-DD.
type SelectionOutput struct {
	Regions         []string `json:"regions"`
	Products        []string `json:"products"`
	SEs             []string `json:"ses"`
	From            string   `json:"from,omitempty"`
	To              string   `json:"to,omitempty"`
	DealBreakerMode string   `json:"deal_breaker_mode"`
	FeatureRequests []string `json:"feature_requests"`
	TopN            int      `json:"top_n"`
}

func selectionToOutput(sel filters.Selection) SelectionOutput {
	out := SelectionOutput{
		Regions:         nonNil(sel.Regions),
		Products:        nonNil(sel.Products),
		SEs:             nonNil(sel.SEs),
		DealBreakerMode: string(sel.DealBreakerMode),
		FeatureRequests: nonNil(sel.FeatureRequests),
		TopN:            sel.TopN,
	}
	if sel.DateRange.From != nil {
		out.From = sel.DateRange.From.Format(filters.DayLayout)
	}
	if sel.DateRange.To != nil {
		out.To = sel.DateRange.To.Format(filters.DayLayout)
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(filters.DayLayout)
}

type POCOutput struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	CustomerName string              `json:"customer_name"`
	Product      string              `json:"product"`
	SEID         string              `json:"se"`
	Region       string              `json:"region"`
	Value        money.Cents         `json:"value_cents"`
	ValueDisplay string              `json:"value"`
	Lifecycle    analytics.Lifecycle `json:"lifecycle"`
	Outcome      string              `json:"outcome"`
}

func (h *AnalyticsHandlers) pocToOutput(p models.POC) POCOutput {
	engine := h.dash.Engine()
	value := money.Parse(p.AEB)
	return POCOutput{
		ID:           p.ID,
		Name:         p.Name,
		CustomerName: p.CustomerName,
		Product:      p.Product,
		SEID:         p.SEID,
		Region:       engine.Index().Regions.Of(p),
		Value:        value,
		ValueDisplay: money.Format(value),
		Lifecycle:    engine.Classify(p),
		Outcome:      p.Outcome(),
	}
}

type ApplyFiltersInput struct {
	Selection *SelectionInput `json:"selection,omitempty" jsonschema:"Filter overrides; defaults to the current dashboard filters"`
	Limit     int             `json:"limit,omitempty" jsonschema:"Maximum POCs to return (default 50)"`
}

type ApplyFiltersOutput struct {
	Selection SelectionOutput `json:"selection"`
	Total     int             `json:"total"`
	Matched   int             `json:"matched"`
	POCs      []POCOutput     `json:"pocs"`
}

func (h *AnalyticsHandlers) ApplyFilters(_ context.Context, _ *mcp.CallToolRequest, input ApplyFiltersInput) (*mcp.CallToolResult, ApplyFiltersOutput, error) {
	sel, err := h.selection(input.Selection)
	if err != nil {
		return nil, ApplyFiltersOutput{}, err
	}
	if input.Limit <= 0 {
		input.Limit = 50
	}

	matched := h.dash.Engine().ApplyFilters(sel)
	out := ApplyFiltersOutput{
		Selection: selectionToOutput(sel),
		Total:     len(h.dash.Engine().Dataset().POCs),
		Matched:   len(matched),
		POCs:      []POCOutput{},
	}
	for i, p := range matched {
		if i >= input.Limit {
			break
		}
		out.POCs = append(out.POCs, h.pocToOutput(p))
	}
	return nil, out, nil
}

type SummaryInput struct {
	Selection *SelectionInput `json:"selection,omitempty" jsonschema:"Filter overrides; defaults to the current dashboard filters"`
}

type SummaryOutput struct {
	analytics.Summary
	TotalDisplay    string  `json:"total"`
	OpenDisplay     string  `json:"open"`
	InReviewDisplay string  `json:"in_review"`
	ClosedDisplay   string  `json:"closed"`
	ImpactedDisplay string  `json:"impacted,omitempty"`
	Ratio           float64 `json:"filtered_ratio"`
}

func (h *AnalyticsHandlers) ComputeSummary(_ context.Context, _ *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
	sel, err := h.selection(input.Selection)
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	s := h.dash.Engine().ComputeSummary(sel)
	out := SummaryOutput{
		Summary:         s,
		TotalDisplay:    money.Format(s.TotalValue),
		OpenDisplay:     money.Format(s.OpenValue),
		InReviewDisplay: money.Format(s.InReviewValue),
		ClosedDisplay:   money.Format(s.ClosedValue),
		Ratio:           s.FilteredRatio(),
	}
	if s.ImpactedValue != nil {
		out.ImpactedDisplay = money.Format(*s.ImpactedValue)
	}
	return nil, out, nil
}

type AggregateInput struct {
	Selection   *SelectionInput `json:"selection,omitempty" jsonschema:"Filter overrides; defaults to the current dashboard filters"`
	IncludePOCs bool            `json:"include_pocs,omitempty" jsonschema:"Include per-POC contributions in each row"`
}

type AggregateOutput struct {
	TopN  int                      `json:"top_n"`
	Rows  []analytics.AggregateRow `json:"rows"`
	Rest  analytics.Bucket         `json:"rest"`
	Count int                      `json:"count"`
}

func (h *AnalyticsHandlers) AggregateByFeatureRequest(_ context.Context, _ *mcp.CallToolRequest, input AggregateInput) (*mcp.CallToolResult, AggregateOutput, error) {
	sel, err := h.selection(input.Selection)
	if err != nil {
		return nil, AggregateOutput{}, err
	}

	rows := h.dash.Engine().AggregateByFeatureRequest(sel)
	ranking := analytics.Rank(rows, sel.TopN)
	top := make([]analytics.AggregateRow, len(ranking.Top))
	copy(top, ranking.Top)
	if !input.IncludePOCs {
		for i := range top {
			top[i].POCs = nil
		}
	}
	return nil, AggregateOutput{TopN: sel.TopN, Rows: top, Rest: ranking.Rest, Count: len(rows)}, nil
}

type DrillDownInput struct {
	Metric           string          `json:"metric,omitempty" jsonschema:"Summary metric: total, open, in_review, closed or impacted"`
	FeatureRequestID string          `json:"feature_request_id,omitempty" jsonschema:"Feature request row to drill into instead of a metric"`
	Selection        *SelectionInput `json:"selection,omitempty" jsonschema:"Filter overrides; defaults to the current dashboard filters"`
}

type DrillPOCOutput struct {
	POCOutput
	SEName          string                 `json:"se_name,omitempty"`
	Won             bool                   `json:"won"`
	StartDate       string                 `json:"start_date,omitempty"`
	EndDatePlan     string                 `json:"end_date_plan,omitempty"`
	ClosedAt        string                 `json:"closed_at,omitempty"`
	FeatureRequests []analytics.LinkDetail `json:"feature_requests"`
}

type DrillDownOutput struct {
	Title            string           `json:"title"`
	Metric           string           `json:"metric,omitempty"`
	FeatureRequestID string           `json:"feature_request_id,omitempty"`
	TotalValue       money.Cents      `json:"total_value_cents"`
	TotalDisplay     string           `json:"total"`
	Count            int              `json:"count"`
	POCs             []DrillPOCOutput `json:"pocs"`
}

func (h *AnalyticsHandlers) DrillDown(_ context.Context, _ *mcp.CallToolRequest, input DrillDownInput) (*mcp.CallToolResult, DrillDownOutput, error) {
	if (input.Metric == "") == (input.FeatureRequestID == "") {
		return nil, DrillDownOutput{}, fmt.Errorf("exactly one of metric or feature_request_id is required")
	}
	sel, err := h.selection(input.Selection)
	if err != nil {
		return nil, DrillDownOutput{}, err
	}

	target := analytics.RowTarget(input.FeatureRequestID)
	if input.Metric != "" {
		m, err := analytics.ParseMetric(input.Metric)
		if err != nil {
			return nil, DrillDownOutput{}, err
		}
		target = analytics.MetricTarget(m)
	}

	d, err := h.dash.Engine().DrillDown(target, sel)
	if err != nil {
		return nil, DrillDownOutput{}, err
	}
	return nil, drillToOutput(d), nil
}

func drillToOutput(d analytics.Drill) DrillDownOutput {
	out := DrillDownOutput{
		Title:            d.Title,
		Metric:           string(d.Metric),
		FeatureRequestID: d.FeatureRequestID,
		TotalValue:       d.TotalValue,
		TotalDisplay:     money.Format(d.TotalValue),
		Count:            len(d.POCs),
		POCs:             make([]DrillPOCOutput, 0, len(d.POCs)),
	}
	for _, p := range d.POCs {
		links := p.FeatureRequests
		if links == nil {
			links = []analytics.LinkDetail{}
		}
		out.POCs = append(out.POCs, DrillPOCOutput{
			POCOutput: POCOutput{
				ID:           p.POC.ID,
				Name:         p.POC.Name,
				CustomerName: p.POC.CustomerName,
				Product:      p.POC.Product,
				SEID:         p.POC.SEID,
				Region:       p.Region,
				Value:        p.Value,
				ValueDisplay: money.Format(p.Value),
				Lifecycle:    p.Lifecycle,
				Outcome:      p.Outcome,
			},
			SEName:          p.SEName,
			Won:             p.Won,
			StartDate:       formatDate(p.POC.StartDate),
			EndDatePlan:     formatDate(p.POC.EndDatePlan),
			ClosedAt:        formatDate(p.POC.ClosedAt()),
			FeatureRequests: links,
		})
	}
	return out
}
