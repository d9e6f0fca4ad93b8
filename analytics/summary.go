// ABOUTME: Scope-wide deal value totals over the filtered POCs
// ABOUTME: Computes total, open, in review, closed and impacted values
package analytics

import (
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
)

type Summary struct {
	TotalValue    money.Cents  `json:"total_value"`
	OpenValue     money.Cents  `json:"open_value"`
	InReviewValue money.Cents  `json:"in_review_value"`
	ClosedValue   money.Cents  `json:"closed_value"`
	ImpactedValue *money.Cents `json:"impacted_value,omitempty"`

	TotalCount    int `json:"total_count"`
	FilteredCount int `json:"filtered_count"`
	OpenCount     int `json:"open_count"`
	InReviewCount int `json:"in_review_count"`
	ClosedCount   int `json:"closed_count"`
	ImpactedCount int `json:"impacted_count"`
}

// FilteredRatio is the share of all POCs that survived the filters.
func (s Summary) FilteredRatio() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.FilteredCount) / float64(s.TotalCount)
}

// isImpacted reports whether the POC has a surviving link to any selected
// feature request. Callers restrict this to open POCs.
func isImpacted(poc models.POC, idx *Index, sel filters.Selection, selected map[string]bool) bool {
	if selected == nil {
		return false
	}
	for _, l := range survivingLinks(idx.Links[poc.ID], sel.DealBreakerMode) {
		if selected[l.FeatureRequest.ID] {
			return true
		}
	}
	return false
}

// ComputeSummary totals deal value over the filtered POCs. totalCount is the
// unfiltered POC count. The impacted value is only set when feature requests
// are selected.
func ComputeSummary(totalCount int, filtered []models.POC, idx *Index, sel filters.Selection, asOf time.Time) (Summary, error) {
	if asOf.IsZero() {
		return Summary{}, ErrInvalidAsOf
	}

	s := Summary{TotalCount: totalCount, FilteredCount: len(filtered)}
	selected := toSet(sel.FeatureRequests)
	var impacted money.Cents

	for _, poc := range filtered {
		m := classifyMembership(poc, idx, sel, selected, asOf)
		value := money.Parse(poc.AEB)

		s.TotalValue += value
		switch {
		case m.in(MetricOpen):
			s.OpenValue += value
			s.OpenCount++
		case m.in(MetricInReview):
			s.InReviewValue += value
			s.InReviewCount++
		case m.in(MetricClosed):
			s.ClosedValue += value
			s.ClosedCount++
		}
		if m.in(MetricImpacted) {
			impacted += value
			s.ImpactedCount++
		}
	}

	if selected != nil {
		s.ImpactedValue = &impacted
	}
	return s, nil
}
