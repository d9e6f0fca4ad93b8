// ABOUTME: Wiring shared by the analytics, filter, MCP and TUI commands
// ABOUTME: Loads the dataset, opens the filter persister and builds the dashboard
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sabixx/poc-portal-sub001/analytics"
	"github.com/sabixx/poc-portal-sub001/charm"
	"github.com/sabixx/poc-portal-sub001/config"
	"github.com/sabixx/poc-portal-sub001/db"
	"github.com/sabixx/poc-portal-sub001/filters"
)

// withDefaults seeds a first run with the configured Top-N.
type withDefaults struct {
	filters.Persister
	topN int
}

func (p withDefaults) Load() (*filters.FilterState, error) {
	st, err := p.Persister.Load()
	if err != nil || st != nil {
		return st, err
	}
	def := filters.DefaultState()
	def.TopN = p.topN
	return &def, nil
}

// OpenFilterPersister returns the persister selected by cfg and a function
// releasing it.
func OpenFilterPersister(cfg *config.Config) (filters.Persister, func(), error) {
	p, closeFn, err := openPersister(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DefaultTopN != 0 {
		p = withDefaults{Persister: p, topN: cfg.DefaultTopN}
	}
	return p, closeFn, nil
}

func openPersister(cfg *config.Config) (filters.Persister, func(), error) {
	switch cfg.FilterBackend {
	case config.BackendCharm:
		ccfg, err := charm.LoadConfig(cfg.CharmHost)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load charm config: %w", err)
		}
		client, err := charm.Open(ccfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open charm store: %w", err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close charm store", "err", err)
			}
		}
		log.Debug("filter state backend", "backend", "charm", "host", ccfg.Host)
		return charm.NewFilterRepository(client), closeFn, nil

	default:
		store := filters.NewFileStore(cfg.FilterPath)
		log.Debug("filter state backend", "backend", "file", "path", store.Path())
		return store, func() {}, nil
	}
}

// BuildDashboard loads every record from the database and evaluates it as of
// asOf against a store seeded from persister.
func BuildDashboard(ctx context.Context, database *sql.DB, asOf time.Time, persister filters.Persister) (*analytics.Dashboard, error) {
	data, err := db.LoadDataset(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	engine, err := analytics.NewEngine(data, asOf)
	if err != nil {
		return nil, err
	}
	return analytics.NewDashboard(engine, filters.NewStore(persister))
}

// ParseAsOf parses an evaluation date, defaulting to today.
func ParseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(filters.DayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of date %q: expected YYYY-MM-DD", value)
	}
	// evaluate at the end of the given day so events on it count as past
	return t.Add(24*time.Hour - time.Nanosecond), nil
}
