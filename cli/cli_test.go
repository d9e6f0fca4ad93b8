// ABOUTME: Tests for CLI flag parsing, dashboard wiring and command flows
// ABOUTME: Runs commands against a seeded temporary database
package cli

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/config"
	"github.com/sabixx/poc-portal-sub001/db"
	"github.com/sabixx/poc-portal-sub001/filters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSelection(t *testing.T, args ...string) (filters.Patch, error) {
	t.Helper()
	return parseSelectionOver(t, filters.DateRange{}, args...)
}

func parseSelectionOver(t *testing.T, current filters.DateRange, args ...string) (filters.Patch, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	sf := addSelectionFlags(fs)
	require.NoError(t, fs.Parse(args))
	return sf.patch(current)
}

func TestSelectionFlagsOnlySetFlagsPatch(t *testing.T) {
	p, err := parseSelection(t, "--region", "EMEA, AMER", "--top", "5")
	require.NoError(t, err)
	require.NotNil(t, p.Regions)
	assert.Equal(t, []string{"EMEA", "AMER"}, *p.Regions)
	require.NotNil(t, p.TopN)
	assert.Equal(t, 5, *p.TopN)
	assert.Nil(t, p.Products)
	assert.Nil(t, p.DateRange)
	assert.Nil(t, p.DealBreakerMode)
}

func TestSelectionFlagsEmptyValueClears(t *testing.T) {
	p, err := parseSelection(t, "--product", "")
	require.NoError(t, err)
	require.NotNil(t, p.Products)
	assert.Empty(t, *p.Products)
}

func TestSelectionFlagsValidation(t *testing.T) {
	_, err := parseSelection(t, "--top", "3")
	assert.Error(t, err)
	_, err = parseSelection(t, "--deal-breakers", "maybe")
	assert.Error(t, err)
	_, err = parseSelection(t, "--from", "yesterday")
	assert.Error(t, err)

	p, err := parseSelection(t, "--to", "2025-06-30", "--deal-breakers", "only")
	require.NoError(t, err)
	require.NotNil(t, p.DateRange)
	assert.Nil(t, p.DateRange.From)
	assert.Equal(t, filters.DealBreakerOnly, *p.DealBreakerMode)
}

func TestSelectionFlagsSingleBoundKeepsOther(t *testing.T) {
	saved, err := filters.ParseRange("2025-04-01", "2025-06-30")
	require.NoError(t, err)

	p, err := parseSelectionOver(t, saved, "--from", "2025-05-01")
	require.NoError(t, err)
	require.NotNil(t, p.DateRange)
	require.NotNil(t, p.DateRange.From)
	require.NotNil(t, p.DateRange.To)
	assert.Equal(t, "2025-05-01", p.DateRange.From.Format(filters.DayLayout))
	assert.Equal(t, "2025-06-30", p.DateRange.To.Format(filters.DayLayout))

	p, err = parseSelectionOver(t, saved, "--to", "")
	require.NoError(t, err)
	require.NotNil(t, p.DateRange.From)
	assert.Equal(t, "2025-04-01", p.DateRange.From.Format(filters.DayLayout))
	assert.Nil(t, p.DateRange.To)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a,,b ,"))
	assert.Equal(t, []string{}, splitList(""))
}

func TestParseAsOf(t *testing.T) {
	got, err := ParseAsOf("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, 1, got.Day())
	assert.Equal(t, 23, got.Hour())

	_, err = ParseAsOf("06/01/2025")
	assert.Error(t, err)

	now, err := ParseAsOf("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, SeedCommand(database, []string{"--seed", "3", "--now", "2025-06-01"}))
	return database
}

func TestBuildDashboardFromSeed(t *testing.T) {
	database := seededDB(t)
	asOf, err := ParseAsOf("2025-06-01")
	require.NoError(t, err)

	persister := filters.NewFileStore(filepath.Join(t.TempDir(), "filters.json"))
	dash, err := BuildDashboard(context.Background(), database, asOf, persister)
	require.NoError(t, err)
	defer dash.Close()

	v := dash.Current()
	assert.Positive(t, v.Summary.TotalCount)
	require.NoError(t, analytics.Verify(v.Summary, v.Rows))
}

func TestOpenFilterPersisterFile(t *testing.T) {
	cfg := config.Default()
	cfg.FilterPath = filepath.Join(t.TempDir(), "filters.json")

	p, closeFn, err := OpenFilterPersister(cfg)
	require.NoError(t, err)
	defer closeFn()

	wrapped, ok := p.(withDefaults)
	require.True(t, ok)
	fileStore, ok := wrapped.Persister.(*filters.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.FilterPath, fileStore.Path())
}

func TestDefaultTopNSeedsFirstRun(t *testing.T) {
	cfg := config.Default()
	cfg.FilterPath = filepath.Join(t.TempDir(), "filters.json")
	cfg.DefaultTopN = filters.TopFive

	p, closeFn, err := OpenFilterPersister(cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, filters.TopFive, filters.NewStore(p).Get().TopN)

	// persisted state wins over the configured default
	topN := filters.TopTen
	filters.NewStore(p).Set(filters.Patch{TopN: &topN})
	assert.Equal(t, filters.TopTen, filters.NewStore(p).Get().TopN)
}

func TestCommandFlow(t *testing.T) {
	database := seededDB(t)
	asOf, err := ParseAsOf("2025-06-01")
	require.NoError(t, err)
	filterPath := filepath.Join(t.TempDir(), "filters.json")

	dash, err := BuildDashboard(context.Background(), database, asOf, filters.NewFileStore(filterPath))
	require.NoError(t, err)
	defer dash.Close()

	require.NoError(t, StatusCommand(database, nil))
	require.NoError(t, ListPOCsCommand(database, []string{"--limit", "5"}))
	require.NoError(t, SummaryCommand(dash, []string{"--region", "EMEA"}))
	require.NoError(t, SummaryCommand(dash, []string{"--json"}))
	require.NoError(t, TopCommand(dash, []string{"--top", "5"}))
	require.NoError(t, DrillDownCommand(dash, []string{"--metric", "open"}))
	require.Error(t, DrillDownCommand(dash, nil))
	require.Error(t, DrillDownCommand(dash, []string{"--metric", "bogus"}))
	require.NoError(t, DashboardCommand(dash, []string{"--width", "100"}))

	graphPath := filepath.Join(t.TempDir(), "graph.dot")
	require.NoError(t, GraphCommand(dash, []string{"--output", graphPath, "--top-only"}))
	data, err := os.ReadFile(graphPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")

	// one-off flags never touch the persisted filters
	assert.Empty(t, dash.Store().Get().Regions)

	require.NoError(t, FiltersSetCommand(dash, []string{"--region", "EMEA"}))
	assert.Equal(t, []string{"EMEA"}, dash.Store().Get().Regions)
	require.NoError(t, SaveViewCommand(dash, []string{"emea"}))
	require.NoError(t, FiltersResetCommand(dash, nil))
	assert.Empty(t, dash.Store().Get().Regions)
	require.NoError(t, ApplyViewCommand(dash, []string{"emea"}))
	assert.Equal(t, []string{"EMEA"}, dash.Store().Get().Regions)
	require.NoError(t, FiltersShowCommand(dash, []string{"--options"}))

	require.NoError(t, FiltersSetCommand(dash, []string{"--from", "2025-01-01", "--to", "2025-06-30"}))
	require.NoError(t, FiltersSetCommand(dash, []string{"--from", "2025-03-01"}))
	saved := dash.Store().Get().DateRange
	require.NotNil(t, saved.To)
	assert.Equal(t, "2025-03-01", saved.From.Format(filters.DayLayout))
	assert.Equal(t, "2025-06-30", saved.To.Format(filters.DayLayout))
	require.NoError(t, FiltersSetCommand(dash, []string{"--from", "", "--to", ""}))
	require.NoError(t, DeleteViewCommand(dash, []string{"emea"}))
	require.Error(t, DeleteViewCommand(dash, []string{"emea"}))
	require.Error(t, SaveViewCommand(dash, nil))

	// the file persister saw every mutation
	reloaded, err := filters.NewFileStore(filterPath).Load()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, []string{"EMEA"}, reloaded.Regions)
	assert.Empty(t, reloaded.SavedViews)
}

func TestImportCommandRequiresPath(t *testing.T) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer database.Close()

	assert.Error(t, ImportCommand(database, nil))
	assert.Error(t, ImportCommand(database, []string{filepath.Join(t.TempDir(), "missing.json")}))
}
