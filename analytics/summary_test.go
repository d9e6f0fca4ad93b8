// ABOUTME: Tests for the summary calculator and invariant checks
// ABOUTME: Covers lifecycle buckets, impacted value and Verify failures
package analytics

import (
	"testing"

	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary(t *testing.T) {
	e := newEngine(t, portfolio())

	s := e.ComputeSummary(selection(nil))
	assert.Equal(t, 5, s.TotalCount)
	assert.Equal(t, 5, s.FilteredCount)
	assert.Equal(t, money.Parse("$1,725,000"), s.TotalValue)
	assert.Equal(t, money.Parse("$1,600,000"), s.OpenValue)
	assert.Equal(t, money.Parse("$75,000"), s.InReviewValue)
	assert.Equal(t, money.Parse("$50,000"), s.ClosedValue)
	assert.Equal(t, 3, s.OpenCount)
	assert.Equal(t, 1, s.InReviewCount)
	assert.Equal(t, 1, s.ClosedCount)
	assert.Nil(t, s.ImpactedValue)
	assert.InDelta(t, 1.0, s.FilteredRatio(), 0.0001)

	require.NoError(t, Verify(s, nil))
}

func TestComputeSummaryImpactedCountsOpenPOCsOnly(t *testing.T) {
	fr1 := fr("FR1", "Feature one", "")
	d := Dataset{
		POCs: []models.POC{
			{ID: "open", AEB: "$100,000"},
			{ID: "closed", AEB: "$50,000", EndDateActual: day(2025, 1, 1)},
		},
		Links: []models.FeatureRequestLink{
			link("open", fr1, false),
			link("closed", fr1, false),
		},
	}
	e := newEngine(t, d)

	s := e.ComputeSummary(selection(func(s *filters.Selection) { s.FeatureRequests = []string{"FR1"} }))
	require.NotNil(t, s.ImpactedValue)
	assert.Equal(t, money.Parse("$100,000"), *s.ImpactedValue)
	assert.Equal(t, 1, s.ImpactedCount)
}

func TestComputeSummaryImpactedRespectsDealBreakerMode(t *testing.T) {
	e := newEngine(t, portfolio())

	sel := selection(func(s *filters.Selection) {
		s.FeatureRequests = []string{"fr1"}
		s.DealBreakerMode = filters.DealBreakerOnly
	})
	s := e.ComputeSummary(sel)
	require.NotNil(t, s.ImpactedValue)
	assert.Zero(t, *s.ImpactedValue)

	sel.FeatureRequests = []string{"fr2"}
	s = e.ComputeSummary(sel)
	assert.Equal(t, money.Parse("$100,000"), *s.ImpactedValue)
}

func TestComputeSummaryFilteredRatio(t *testing.T) {
	e := newEngine(t, portfolio())

	s := e.ComputeSummary(selection(func(s *filters.Selection) { s.Regions = []string{"EMEA"} }))
	assert.Equal(t, 2, s.FilteredCount)
	assert.InDelta(t, 0.4, s.FilteredRatio(), 0.0001)
	assert.Zero(t, Summary{}.FilteredRatio())
}

func TestComputeSummaryNullValueContributesZero(t *testing.T) {
	d := Dataset{POCs: []models.POC{{ID: "p"}}}
	s := newEngine(t, d).ComputeSummary(selection(nil))

	assert.Equal(t, 1, s.FilteredCount)
	assert.Zero(t, s.TotalValue)
}

func TestVerifyReportsViolations(t *testing.T) {
	bad := Summary{TotalValue: 10, OpenValue: 5, FilteredCount: 1}
	err := Verify(bad, []AggregateRow{{
		FeatureRequestID: "x",
		TotalValue:       10,
		WonValue:         10,
		POCs: []Contribution{
			{POCID: "p", Value: 5},
			{POCID: "p", Value: 4},
		},
	}})

	require.ErrorIs(t, err, ErrInvariant)
	msg := err.Error()
	assert.Contains(t, msg, "lifecycle values")
	assert.Contains(t, msg, "lifecycle counts")
	assert.Contains(t, msg, "counted twice")
	assert.Contains(t, msg, "does not match contributions")
}
