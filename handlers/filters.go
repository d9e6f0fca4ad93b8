// ABOUTME: MCP tool handlers for the shared dashboard filter state
// ABOUTME: Reads and patches filters and manages saved views
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/filters"
)

type FilterHandlers struct {
	dash *analytics.Dashboard
}

func NewFilterHandlers(dash *analytics.Dashboard) *FilterHandlers {
	return &FilterHandlers{dash: dash}
}

type ViewOutput struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"created_at"`
	Filters   SelectionOutput `json:"filters"`
}

type FilterStateOutput struct {
	Selection  SelectionOutput   `json:"selection"`
	ActiveView string            `json:"active_view,omitempty"`
	SavedViews []ViewOutput      `json:"saved_views"`
	Options    analytics.Options `json:"options"`
}

func viewToOutput(v filters.SavedView) ViewOutput {
	return ViewOutput{
		ID:        v.ID,
		Name:      v.Name,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Filters:   selectionToOutput(v.Filters),
	}
}

func (h *FilterHandlers) stateToOutput(st filters.FilterState) FilterStateOutput {
	out := FilterStateOutput{
		Selection:  selectionToOutput(st.Selection),
		ActiveView: st.ActiveView,
		SavedViews: make([]ViewOutput, 0, len(st.SavedViews)),
		Options:    h.dash.Engine().Options(),
	}
	for _, v := range st.SavedViews {
		out.SavedViews = append(out.SavedViews, viewToOutput(v))
	}
	return out
}

type GetFilterStateInput struct{}

func (h *FilterHandlers) GetFilterState(_ context.Context, _ *mcp.CallToolRequest, _ GetFilterStateInput) (*mcp.CallToolResult, FilterStateOutput, error) {
	return nil, h.stateToOutput(h.dash.Store().Get()), nil
}

type SetFilterStateInput struct {
	SelectionInput
	Reset bool `json:"reset,omitempty" jsonschema:"Clear every filter before applying the rest of the input"`
}

// SetFilterState patches the shared filters. An empty list clears that
// dimension; an omitted one is left as is.
func (h *FilterHandlers) SetFilterState(_ context.Context, _ *mcp.CallToolRequest, input SetFilterStateInput) (*mcp.CallToolResult, FilterStateOutput, error) {
	store := h.dash.Store()
	base := store.Get().DateRange
	if input.Reset {
		base = filters.DateRange{}
	}
	p, err := input.patch(base)
	if err != nil {
		return nil, FilterStateOutput{}, err
	}

	if input.Reset {
		store.Reset()
	}
	return nil, h.stateToOutput(store.Set(p)), nil
}

type ViewNameInput struct {
	Name string `json:"name" jsonschema:"Saved view name"`
}

type SaveViewOutput struct {
	View ViewOutput `json:"view"`
}

func (h *FilterHandlers) SaveView(_ context.Context, _ *mcp.CallToolRequest, input ViewNameInput) (*mcp.CallToolResult, SaveViewOutput, error) {
	v, err := h.dash.Store().SaveView(input.Name)
	if err != nil {
		return nil, SaveViewOutput{}, fmt.Errorf("failed to save view: %w", err)
	}
	return nil, SaveViewOutput{View: viewToOutput(v)}, nil
}

func (h *FilterHandlers) ApplyView(_ context.Context, _ *mcp.CallToolRequest, input ViewNameInput) (*mcp.CallToolResult, FilterStateOutput, error) {
	st, err := h.dash.Store().ApplyView(input.Name)
	if err != nil {
		return nil, FilterStateOutput{}, err
	}
	return nil, h.stateToOutput(st), nil
}

type DeleteViewOutput struct {
	Deleted string `json:"deleted"`
}

func (h *FilterHandlers) DeleteView(_ context.Context, _ *mcp.CallToolRequest, input ViewNameInput) (*mcp.CallToolResult, DeleteViewOutput, error) {
	if err := h.dash.Store().DeleteView(input.Name); err != nil {
		return nil, DeleteViewOutput{}, err
	}
	return nil, DeleteViewOutput{Deleted: input.Name}, nil
}
