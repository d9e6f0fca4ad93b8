// ABOUTME: Analytics engine bound to a dataset and a reference date
// ABOUTME: Runs filter, aggregation, summary and drill-down for a filter selection
package analytics

import (
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
)

// Engine evaluates filter selections against one materialized dataset.
type Engine struct {
	data Dataset
	idx  *Index
	asOf time.Time
}

// View is everything the dashboard renders for one filter state.
type View struct {
	State    filters.FilterState `json:"state"`
	Filtered []models.POC        `json:"filtered"`
	Summary  Summary             `json:"summary"`
	Rows     []AggregateRow      `json:"rows"`
	Ranking  Ranking             `json:"ranking"`
}

func NewEngine(data Dataset, asOf time.Time) (*Engine, error) {
	if asOf.IsZero() {
		return nil, ErrInvalidAsOf
	}
	return &Engine{data: data, idx: BuildIndex(data), asOf: asOf}, nil
}

func (e *Engine) AsOf() time.Time { return e.asOf }
func (e *Engine) Dataset() Dataset { return e.data }
func (e *Engine) Index() *Index { return e.idx }

// Options lists the selectable values present in the dataset.
func (e *Engine) Options() Options {
	return BuildOptions(e.data.POCs, e.idx)
}

// Classify returns a POC's lifecycle as of the engine's reference date.
func (e *Engine) Classify(poc models.POC) Lifecycle {
	return Classify(poc, e.idx.Completions[poc.ID], e.asOf)
}

// The engine's asOf is validated at construction, so the package functions
// below cannot fail on it.

func (e *Engine) ApplyFilters(sel filters.Selection) []models.POC {
	out, _ := ApplyFilters(e.data.POCs, e.idx, sel, e.asOf)
	return out
}

func (e *Engine) ComputeSummary(sel filters.Selection) Summary {
	s, _ := ComputeSummary(len(e.data.POCs), e.ApplyFilters(sel), e.idx, sel, e.asOf)
	return s
}

func (e *Engine) AggregateByFeatureRequest(sel filters.Selection) []AggregateRow {
	rows, _ := AggregateByFeatureRequest(e.ApplyFilters(sel), e.idx, sel, e.asOf)
	return rows
}

func (e *Engine) DrillDown(target Target, sel filters.Selection) (Drill, error) {
	return DrillDown(target, e.ApplyFilters(sel), e.idx, sel, e.asOf)
}

// Compute runs the full pipeline for a state.
func (e *Engine) Compute(state filters.FilterState) View {
	sel := state.Selection
	filtered := e.ApplyFilters(sel)
	summary, _ := ComputeSummary(len(e.data.POCs), filtered, e.idx, sel, e.asOf)
	rows, _ := AggregateByFeatureRequest(filtered, e.idx, sel, e.asOf)

	return View{
		State:    state,
		Filtered: filtered,
		Summary:  summary,
		Rows:     rows,
		Ranking:  Rank(rows, sel.TopN),
	}
}
