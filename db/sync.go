// ABOUTME: Database operations for the import_log table
// ABOUTME: Records each data import with per-kind record counts
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportRecord describes one completed import.
type ImportRecord struct {
	ID              string
	Source          string
	ImportedAt      time.Time
	POCs            int
	Users           int
	UseCases        int
	FeatureRequests int
	Links           int
	Skipped         int
}

// RecordImport appends an entry to the import log.
func RecordImport(ctx context.Context, q Querier, rec *ImportRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ImportedAt.IsZero() {
		rec.ImportedAt = time.Now()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO import_log (id, source, imported_at, pocs, users, use_cases, feature_requests, links, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Source, rec.ImportedAt, rec.POCs, rec.Users, rec.UseCases, rec.FeatureRequests, rec.Links, rec.Skipped)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// LastImport returns the most recent import, or nil if nothing was imported.
func LastImport(ctx context.Context, q Querier) (*ImportRecord, error) {
	var rec ImportRecord
	err := q.QueryRowContext(ctx, `
		SELECT id, source, imported_at, pocs, users, use_cases, feature_requests, links, skipped
		FROM import_log
		ORDER BY imported_at DESC
		LIMIT 1
	`).Scan(&rec.ID, &rec.Source, &rec.ImportedAt, &rec.POCs, &rec.Users, &rec.UseCases,
		&rec.FeatureRequests, &rec.Links, &rec.Skipped)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last import: %w", err)
	}
	return &rec, nil
}
