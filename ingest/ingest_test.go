// ABOUTME: Tests for export normalization, import and demo seeding
// ABOUTME: Covers loose field encodings, expansion resolution and seed determinism
package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/db"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/sabixx/poc-portal-sub001/models"
	"github.com/sabixx/poc-portal-sub001/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{
  "users": [
    {"id": "se1", "email": "ann@example.com", "displayName": "Ann", "role": "se", "region": "EMEA"},
    {"id": "mgr", "email": "max@example.com", "role": "manager"}
  ],
  "pocs": [
    {"id": "p1", "name": "Acme POC", "customer_name": "Acme", "product": "TLSPC", "se": "se1",
     "aeb": "$100,000", "poc_start_date": "2025-03-01 00:00:00.000Z", "poc_end_date_plan": "2025-07-01",
     "is_active": true, "commercial_result": "unknown"},
    {"id": "p2", "name": "Globex POC", "se": "se1", "aeb": 50000,
     "poc_start_date": "2025-01-01T00:00:00Z", "poc_end_date_actual": "2025-03-15 00:00:00.000Z",
     "commercial_result": "now_customer"},
    {"id": "p3", "name": "Null AEB", "se": "se1", "aeb": null, "poc_start_date": "not a date"},
    {"id": "p1", "name": "duplicate"}
  ],
  "poc_use_cases": [
    {"id": "u1", "poc": "p1", "use_case": "uc1", "is_active": true, "is_completed": true, "completed_at": "2025-04-01 00:00:00.000Z"},
    {"id": "u2", "poc": "ghost", "use_case": "uc1"}
  ],
  "feature_requests": [
    {"id": "fr1", "title": "SAML login", "source": "productboard", "product": "TLSPC"},
    {"id": "fr2", "title": "Terraform provider", "source": "jira"}
  ],
  "poc_feature_requests": [
    {"id": "l1", "poc": "p1", "feature_request": "fr1", "is_deal_breaker": true, "importance": "critical"},
    {"id": "l2", "poc": "p2", "feature_request": "fr1", "is_deal_breaker": "true",
     "expand": {"feature_request": {"id": "fr1", "title": "SAML login (expanded)"}}},
    {"id": "l3", "poc": "p2", "feature_request": "fr2", "is_deal_breaker": "yes", "importance": "whatever"},
    {"id": "l4", "poc": "p3", "feature_request": "gone", "is_deal_breaker": 1},
    {"id": "l5", "poc": "ghost", "feature_request": "fr1"}
  ],
  "manager_se_map": [{"manager": "mgr", "se": "se1"}, {"manager": "", "se": "se1"}]
}`

func readSample(t *testing.T) *Export {
	t.Helper()
	exp, err := ReadExport(strings.NewReader(sampleExport))
	require.NoError(t, err)
	return exp
}

func TestNormalizeDealBreaker(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{"true", true},
		{false, false},
		{"false", false},
		{"TRUE", false},
		{"yes", false},
		{1, false},
		{float64(1), false},
		{nil, false},
		{map[string]any{}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDealBreaker(tt.in), "%#v", tt.in)
	}
}

func TestNormalizeAEB(t *testing.T) {
	assert.Equal(t, "$120,000", NormalizeAEB(" $120,000 "))
	assert.Equal(t, "50000.00", NormalizeAEB(float64(50000)))
	assert.Equal(t, "12.50", NormalizeAEB(json.Number("12.5")))
	assert.Equal(t, "", NormalizeAEB(nil))
	assert.Equal(t, "", NormalizeAEB(true))

	assert.Equal(t, money.Parse("$50,000"), money.Parse(NormalizeAEB(float64(50000))))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2025-03-01 00:00:00.000Z", "2025-03-01T00:00:00Z", "2025-03-01"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		require.NotNil(t, got)
		assert.True(t, want.Equal(*got), in)
	}

	got, err := ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("03/01/2025")
	assert.Error(t, err)
}

func TestExportNormalize(t *testing.T) {
	d, rep := readSample(t).Normalize()

	require.Len(t, d.POCs, 3)
	assert.Equal(t, 1, rep.SkippedPOCs)
	assert.Equal(t, "Acme", d.POCs[0].CustomerName)
	assert.Equal(t, "Globex POC", d.POCs[1].CustomerName)
	assert.Equal(t, "50000.00", d.POCs[1].AEB)
	assert.Empty(t, d.POCs[2].AEB)
	assert.Nil(t, d.POCs[2].StartDate)
	assert.Equal(t, 1, rep.BadDates)
	require.NotNil(t, d.POCs[1].EndDateActual)

	require.Len(t, d.Completions, 1)
	assert.Equal(t, models.UseCaseCompleted, d.Completions[0].State)
	assert.Equal(t, 1, rep.SkippedUseCases)

	require.Len(t, d.Links, 4)
	assert.Equal(t, 1, rep.SkippedLinks)
	assert.Equal(t, 1, rep.UnresolvedLinks)
	assert.Equal(t, 3, rep.Skipped())

	byID := map[string]models.FeatureRequestLink{}
	for _, l := range d.Links {
		byID[l.ID] = l
	}
	assert.True(t, byID["l1"].IsDealBreaker)
	assert.True(t, byID["l2"].IsDealBreaker)
	assert.False(t, byID["l3"].IsDealBreaker)
	assert.False(t, byID["l4"].IsDealBreaker)
	assert.Equal(t, "SAML login", byID["l1"].FeatureRequest.Title)
	assert.Equal(t, "SAML login (expanded)", byID["l2"].FeatureRequest.Title)
	assert.Equal(t, models.ImportanceUnknown, byID["l3"].Importance)
	assert.Nil(t, byID["l4"].FeatureRequest)

	assert.Equal(t, []models.ManagerSEMap{{ManagerID: "mgr", SEID: "se1"}}, d.Teams)
}

func TestNormalizedExportAggregates(t *testing.T) {
	d, _ := readSample(t).Normalize()
	e, err := analytics.NewEngine(d, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rows := e.AggregateByFeatureRequest(filters.DefaultSelection())
	require.Len(t, rows, 2)
	assert.Equal(t, "fr1", rows[0].FeatureRequestID)
	assert.Equal(t, money.Parse("$150,000"), rows[0].TotalValue)

	only := filters.DefaultSelection()
	only.DealBreakerMode = filters.DealBreakerOnly
	rows = e.AggregateByFeatureRequest(only)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].POCs, 2)
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0600))

	sqlDB, err := db.OpenDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	defer sqlDB.Close()
	ctx := context.Background()

	rec, rep, err := ImportFile(ctx, sqlDB, path)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.POCs)
	assert.Equal(t, 4, rec.Links)
	assert.Equal(t, 2, rec.FeatureRequests)
	assert.Equal(t, rep.Skipped(), rec.Skipped)

	// re-importing upserts instead of duplicating
	_, _, err = ImportFile(ctx, sqlDB, path)
	require.NoError(t, err)

	counts, err := db.CountRecords(ctx, sqlDB)
	require.NoError(t, err)
	assert.Equal(t, 3, counts.POCs)
	assert.Equal(t, 4, counts.Links)

	last, err := db.LastImport(ctx, sqlDB)
	require.NoError(t, err)
	assert.Equal(t, path, last.Source)

	_, _, err = ImportFile(ctx, sqlDB, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestSeedIsDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Seed(SeedOptions{Seed: 42, Now: now})
	b := Seed(SeedOptions{Seed: 42, Now: now})

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))

	c := Seed(SeedOptions{Seed: 7, Now: now})
	assert.NotEqual(t, a.POCs[0].ID, c.POCs[0].ID)
}

func TestSeedProducesConsistentDashboard(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	exp := Seed(SeedOptions{Seed: 1, Now: now})

	assert.Len(t, exp.POCs, len(seedSEs)*len(seedScenarios))
	assert.Len(t, exp.Users, len(seedSEs)+len(seedManagers))

	d, rep := exp.Normalize()
	assert.Zero(t, rep.Skipped())
	assert.Zero(t, rep.UnresolvedLinks)
	assert.Zero(t, rep.BadDates)

	e, err := analytics.NewEngine(d, now)
	require.NoError(t, err)

	v := e.Compute(filters.DefaultState())
	require.NoError(t, analytics.Verify(v.Summary, v.Rows))
	assert.Positive(t, v.Summary.OpenCount)
	assert.Positive(t, v.Summary.ClosedCount)
	assert.Positive(t, v.Summary.InReviewCount)
	assert.NotEmpty(t, v.Rows)

	opts := e.Options()
	assert.Contains(t, opts.Regions, analytics.RegionUnassigned)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Leo Schmidt", displayName("leo.schmidt@example.com"))
	assert.Equal(t, "Solo", displayName("solo"))
}
