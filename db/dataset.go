// ABOUTME: Bulk load and save of the analytics dataset
// ABOUTME: Materializes every stored record into the engine's in-memory shape
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/sabixx/poc-portal-sub001/analytics"
)

// LoadDataset reads every record the analytics engine needs.
func LoadDataset(ctx context.Context, q Querier) (analytics.Dataset, error) {
	var (
		d   analytics.Dataset
		err error
	)
	if d.POCs, err = ListPOCs(ctx, q, "", 0); err != nil {
		return d, err
	}
	if d.Users, err = ListUsers(ctx, q); err != nil {
		return d, err
	}
	if d.Completions, err = ListUseCases(ctx, q, ""); err != nil {
		return d, err
	}
	if d.Links, err = ListLinks(ctx, q); err != nil {
		return d, err
	}
	if d.Teams, err = ListTeams(ctx, q); err != nil {
		return d, err
	}

	log.Debug("loaded dataset",
		"pocs", len(d.POCs), "users", len(d.Users), "use_cases", len(d.Completions),
		"links", len(d.Links), "team_members", len(d.Teams))
	return d, nil
}

// SaveDataset upserts every record of d in one transaction. Feature requests
// are taken from the links' expansions.
func SaveDataset(ctx context.Context, sqlDB *sql.DB, d analytics.Dataset) error {
	return WithTx(ctx, sqlDB, func(tx *sql.Tx) error {
		for i := range d.Users {
			if err := UpsertUser(ctx, tx, &d.Users[i]); err != nil {
				return err
			}
		}
		for _, m := range d.Teams {
			if err := AddTeamMember(ctx, tx, m); err != nil {
				return err
			}
		}
		for i := range d.POCs {
			if err := UpsertPOC(ctx, tx, &d.POCs[i]); err != nil {
				return err
			}
		}
		for i := range d.Completions {
			if err := UpsertUseCase(ctx, tx, &d.Completions[i]); err != nil {
				return err
			}
		}

		seen := make(map[string]bool)
		for i := range d.Links {
			l := &d.Links[i]
			if fr := l.FeatureRequest; fr != nil && fr.ID != "" && !seen[fr.ID] {
				seen[fr.ID] = true
				if err := UpsertFeatureRequest(ctx, tx, fr); err != nil {
					return err
				}
			}
			if err := UpsertLink(ctx, tx, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// Counts reports how many records of each kind are stored.
type Counts struct {
	POCs            int
	Users           int
	UseCases        int
	FeatureRequests int
	Links           int
}

func CountRecords(ctx context.Context, q Querier) (Counts, error) {
	var c Counts
	tables := []struct {
		name string
		dst  *int
	}{
		{"pocs", &c.POCs},
		{"users", &c.Users},
		{"poc_use_cases", &c.UseCases},
		{"feature_requests", &c.FeatureRequests},
		{"poc_feature_requests", &c.Links},
	}
	for _, t := range tables {
		if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.name).Scan(t.dst); err != nil {
			return c, fmt.Errorf("failed to count %s: %w", t.name, err)
		}
	}
	return c, nil
}
