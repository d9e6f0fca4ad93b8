// ABOUTME: Imports normalized export data into the local record store
// ABOUTME: Saves the dataset in one transaction and appends to the import log
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sabixx/poc-portal-sub001/db"
)

// ImportFile reads an export document from path and stores it.
func ImportFile(ctx context.Context, sqlDB *sql.DB, path string) (*db.ImportRecord, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	exp, err := ReadExport(f)
	if err != nil {
		return nil, Report{}, err
	}
	return Import(ctx, sqlDB, path, exp)
}

// Import normalizes exp and upserts the result under source.
func Import(ctx context.Context, sqlDB *sql.DB, source string, exp *Export) (*db.ImportRecord, Report, error) {
	data, rep := exp.Normalize()

	if err := db.SaveDataset(ctx, sqlDB, data); err != nil {
		return nil, rep, fmt.Errorf("failed to save dataset: %w", err)
	}

	features := make(map[string]bool)
	for _, l := range data.Links {
		if l.FeatureRequest != nil {
			features[l.FeatureRequest.ID] = true
		}
	}

	rec := &db.ImportRecord{
		Source:          source,
		POCs:            len(data.POCs),
		Users:           len(data.Users),
		UseCases:        len(data.Completions),
		FeatureRequests: len(features),
		Links:           len(data.Links),
		Skipped:         rep.Skipped(),
	}
	if err := db.RecordImport(ctx, sqlDB, rec); err != nil {
		return nil, rep, err
	}

	log.Info("imported records",
		"source", source, "pocs", rec.POCs, "links", rec.Links,
		"skipped", rec.Skipped, "unresolved_links", rep.UnresolvedLinks, "bad_dates", rep.BadDates)
	return rec, rep, nil
}
