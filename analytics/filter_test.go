// ABOUTME: Tests for the filter pipeline
// ABOUTME: Covers each dimension, team expansion, date overlap and select-all equivalence
package analytics

import (
	"testing"
	"time"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFilters(t *testing.T) {
	e := newEngine(t, portfolio())

	tests := []struct {
		name string
		sel  filters.Selection
		want []string
	}{
		{"no selection", selection(nil), []string{"p1", "p2", "p3", "p4", "p5"}},
		{"region", selection(func(s *filters.Selection) { s.Regions = []string{"EMEA"} }), []string{"p1", "p2"}},
		{"unassigned region", selection(func(s *filters.Selection) { s.Regions = []string{RegionUnassigned} }), []string{"p4"}},
		{"regions OR", selection(func(s *filters.Selection) { s.Regions = []string{"AMER", RegionUnassigned} }), []string{"p3", "p4", "p5"}},
		{"product", selection(func(s *filters.Selection) { s.Products = []string{"NGTS"} }), []string{"p3", "p5"}},
		{"se", selection(func(s *filters.Selection) { s.SEs = []string{"se-a"} }), []string{"p1", "p2"}},
		{"manager expands to team", selection(func(s *filters.Selection) { s.SEs = []string{"mgr"} }), []string{"p3", "p5"}},
		{"dimensions AND", selection(func(s *filters.Selection) {
			s.Regions = []string{"EMEA", "AMER"}
			s.Products = []string{"TLSPC"}
		}), []string{"p1", "p2"}},
		{"no match", selection(func(s *filters.Selection) { s.Products = []string{"nothing"} }), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pocIDs(e.ApplyFilters(tt.sel)))
		})
	}
}

func TestApplyFiltersDateRange(t *testing.T) {
	e := newEngine(t, portfolio())

	tests := []struct {
		name string
		r    filters.DateRange
		want []string
	}{
		{"after p2 closed", filters.DateRange{From: day(2025, 4, 1)}, []string{"p1", "p3", "p4", "p5"}},
		{"before p3 and p4 start", filters.DateRange{To: day(2025, 2, 1)}, []string{"p2", "p5"}},
		{"window", filters.DateRange{From: day(2025, 3, 10), To: day(2025, 3, 20)}, []string{"p1", "p2", "p5"}},
		{"after planned end", filters.DateRange{From: day(2025, 9, 1)}, []string{"p4", "p5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := selection(func(s *filters.Selection) { s.DateRange = tt.r })
			assert.Equal(t, tt.want, pocIDs(e.ApplyFilters(sel)))
		})
	}
}

func TestApplyFiltersDateRangeCoversWholeDays(t *testing.T) {
	afternoon := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)
	morning := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	d := Dataset{POCs: []models.POC{
		{ID: "starts-afternoon", StartDate: &afternoon},
		{ID: "ended-morning", StartDate: day(2025, 5, 1), EndDateActual: &morning},
		{ID: "next-day", StartDate: day(2025, 6, 2)},
	}}
	e := newEngine(t, d)

	r, err := filters.ParseRange("2025-06-01", "2025-06-01")
	require.NoError(t, err)
	sel := selection(func(s *filters.Selection) { s.DateRange = r })
	assert.Equal(t, []string{"starts-afternoon", "ended-morning"}, pocIDs(e.ApplyFilters(sel)))
}

func TestApplyFiltersExcludesUndatedPOCsFromDateRange(t *testing.T) {
	d := Dataset{POCs: []models.POC{{ID: "undated"}}}
	e := newEngine(t, d)

	assert.Len(t, e.ApplyFilters(selection(nil)), 1)
	sel := selection(func(s *filters.Selection) { s.DateRange = filters.DateRange{From: day(2020, 1, 1)} })
	assert.Empty(t, e.ApplyFilters(sel))
}

func TestApplyFiltersSelectAllEqualsSelectNone(t *testing.T) {
	e := newEngine(t, portfolio())
	opts := e.Options()
	all := pocIDs(e.ApplyFilters(selection(nil)))

	assert.Equal(t, all, pocIDs(e.ApplyFilters(selection(func(s *filters.Selection) { s.Regions = opts.Regions }))))
	assert.Equal(t, all, pocIDs(e.ApplyFilters(selection(func(s *filters.Selection) { s.Products = opts.Products }))))
	assert.Equal(t, all, pocIDs(e.ApplyFilters(selection(func(s *filters.Selection) { s.SEs = opts.SEs }))))
}

func TestApplyFiltersRequiresAsOf(t *testing.T) {
	d := portfolio()
	_, err := ApplyFilters(d.POCs, BuildIndex(d), selection(nil), time.Time{})
	require.ErrorIs(t, err, ErrInvalidAsOf)

	_, err = NewEngine(d, time.Time{})
	require.ErrorIs(t, err, ErrInvalidAsOf)
}

func TestBuildOptions(t *testing.T) {
	opts := newEngine(t, portfolio()).Options()

	assert.Equal(t, []string{"AMER", "EMEA", RegionUnassigned}, opts.Regions)
	assert.Equal(t, []string{"NGTS", "TLSPC"}, opts.Products)
	assert.Equal(t, []string{"se-a", "se-b", "se-x"}, opts.SEs)
	assert.Equal(t, []string{"fr1", "fr2", "fr3"}, opts.FeatureRequests)
}
