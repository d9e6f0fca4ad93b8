// ABOUTME: Filter pipeline over POCs
// ABOUTME: ANDs region, product, SE/team and date range dimensions, ORs within each
package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
)

// ErrInvalidAsOf is returned when the reference date is missing.
var ErrInvalidAsOf = errors.New("as-of date is required")

// ApplyFilters returns the POCs matching every selected dimension, in their
// original order. An empty dimension does not restrict.
func ApplyFilters(pocs []models.POC, idx *Index, sel filters.Selection, asOf time.Time) ([]models.POC, error) {
	if asOf.IsZero() {
		return nil, ErrInvalidAsOf
	}

	regions := toSet(sel.Regions)
	products := toSet(sel.Products)
	ses := toSet(sel.SEs)

	out := make([]models.POC, 0, len(pocs))
	for _, p := range pocs {
		if regions != nil && !regions[idx.Regions.Of(p)] {
			continue
		}
		if products != nil && !products[p.Product] {
			continue
		}
		if ses != nil && !idx.Teams.Matches(ses, p.SEID) {
			continue
		}
		if !sel.DateRange.IsZero() && !overlaps(p, sel.DateRange) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// overlaps reports whether the POC's run intersects the range. The run starts
// at the POC start (or prep start) and ends when it closed, or at its planned
// end, or never.
func overlaps(p models.POC, r filters.DateRange) bool {
	start := p.StartDate
	if start == nil {
		start = p.PrepStartDate
	}
	if start == nil {
		return false
	}

	end := p.ClosedAt()
	if end == nil {
		end = p.EndDatePlan
	}

	if r.To != nil && start.After(*r.To) {
		return false
	}
	if r.From != nil && end != nil && end.Before(*r.From) {
		return false
	}
	return true
}

// Options lists the selectable values of every dimension present in the
// data, so selecting all of them is equivalent to selecting none.
type Options struct {
	Regions         []string `json:"regions"`
	Products        []string `json:"products"`
	SEs             []string `json:"ses"`
	FeatureRequests []string `json:"feature_requests"`
}

func BuildOptions(pocs []models.POC, idx *Index) Options {
	regions := map[string]bool{}
	products := map[string]bool{}
	ses := map[string]bool{}
	for _, p := range pocs {
		regions[idx.Regions.Of(p)] = true
		products[p.Product] = true
		ses[p.SEID] = true
	}

	features := map[string]bool{}
	for id := range idx.Features {
		features[id] = true
	}

	return Options{
		Regions:         sortedKeys(regions),
		Products:        sortedKeys(products),
		SEs:             sortedKeys(ses),
		FeatureRequests: sortedKeys(features),
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
