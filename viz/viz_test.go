// ABOUTME: Tests for dashboard rendering and feature request graphs
// ABOUTME: Builds views from a small in-memory portfolio
package viz

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-graphviz"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func testView(t *testing.T, state filters.FilterState) analytics.View {
	t.Helper()
	saml := &models.FeatureRequest{ID: "fr1", Title: "SAML login"}
	tf := &models.FeatureRequest{ID: "fr2", Title: "Terraform provider"}
	data := analytics.Dataset{
		Users: []models.User{{ID: "se1", Email: "ann@example.com", Region: "EMEA"}},
		POCs: []models.POC{
			{ID: "p1", CustomerName: "Acme", Product: "TLSPC", SEID: "se1", AEB: "$100,000",
				StartDate: ptr(asOf.AddDate(0, -1, 0)), EndDatePlan: ptr(asOf.AddDate(0, 1, 0))},
			{ID: "p2", CustomerName: "Globex", Product: "TLSPC", SEID: "se1", AEB: "50k",
				StartDate: ptr(asOf.AddDate(0, -4, 0)), EndDateActual: ptr(asOf.AddDate(0, -2, 0)),
				CommercialResult: models.OutcomeCustomer},
		},
		Links: []models.FeatureRequestLink{
			{ID: "l1", POCID: "p1", FeatureRequestID: "fr1", FeatureRequest: saml, IsDealBreaker: true, Importance: "critical"},
			{ID: "l2", POCID: "p2", FeatureRequestID: "fr1", FeatureRequest: saml},
			{ID: "l3", POCID: "p1", FeatureRequestID: "fr2", FeatureRequest: tf},
		},
	}
	engine, err := analytics.NewEngine(data, asOf)
	require.NoError(t, err)
	return engine.Compute(state)
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(testView(t, filters.DefaultState()), 100)

	assert.Contains(t, out, "POC PORTAL EXECUTIVE DASHBOARD")
	assert.Contains(t, out, "$150K")
	assert.Contains(t, out, "2 of 2 POCs")
	assert.Contains(t, out, "TOP 10 FEATURE REQUESTS")
	assert.Contains(t, out, "SAML login")
	assert.Contains(t, out, "Terraform provider")
	assert.Contains(t, out, "⚠ 1")
	assert.Contains(t, out, "none")
	assert.NotContains(t, out, "Impacted")
}

func TestRenderDashboardWithSelection(t *testing.T) {
	state := filters.DefaultState()
	state.Selection.FeatureRequests = []string{"fr2"}
	state.Selection.TopN = filters.TopFive
	state.Selection.DealBreakerMode = filters.DealBreakerOnly

	out := RenderDashboard(testView(t, state), 0)
	assert.Contains(t, out, "TOP 5 FEATURE REQUESTS")
	assert.Contains(t, out, "Impacted")
	assert.Contains(t, out, "fr=fr2")
	assert.Contains(t, out, "deal-breakers only")
	assert.NotContains(t, out, "Terraform provider")
}

func TestRenderDashboardRestBucket(t *testing.T) {
	view := testView(t, filters.DefaultState())
	view.Ranking = analytics.Rank(view.Rows, 1)
	out := RenderDashboard(view, 80)
	assert.Contains(t, out, "+ 1 more ($100K)")
}

func TestDescribeSelection(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sel := filters.DefaultSelection()
	sel.Regions = []string{"AMER", "EMEA"}
	sel.DateRange.From = &from

	assert.Equal(t, "region=AMER,EMEA  dates=2025-01-01..…", DescribeSelection(sel))
	assert.Equal(t, "none", DescribeSelection(filters.DefaultSelection()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, graphviz.XDOT, f)

	f, err = ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, graphviz.SVG, f)

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestFeatureGraph(t *testing.T) {
	view := testView(t, filters.DefaultState())

	g, err := FeatureGraph(context.Background(), view.Rows, graphviz.XDOT)
	require.NoError(t, err)

	// two feature requests, two POCs, p1 shared across both rows
	assert.Equal(t, 4, g.Nodes)
	assert.Equal(t, 3, g.Edges)
	assert.Contains(t, string(g.Data), "digraph")
	assert.Contains(t, string(g.Data), "SAML login")
}
