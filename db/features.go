// ABOUTME: Feature request and POC link database operations
// ABOUTME: Lists links with their feature request expansion resolved by join
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sabixx/poc-portal-sub001/models"
)

func UpsertFeatureRequest(ctx context.Context, q Querier, f *models.FeatureRequest) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO feature_requests (id, source, external_id, title, product, status, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			external_id = excluded.external_id,
			title = excluded.title,
			product = excluded.product,
			status = excluded.status,
			priority = excluded.priority
	`, f.ID, f.Source, f.ExternalID, f.Title, f.Product, f.Status, f.Priority)
	if err != nil {
		return fmt.Errorf("failed to upsert feature request %s: %w", f.ID, err)
	}
	return nil
}

func ListFeatureRequests(ctx context.Context, q Querier) ([]models.FeatureRequest, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, source, external_id, title, product, status, priority
		FROM feature_requests ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feature requests: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureRequest
	for rows.Next() {
		var (
			f                                           models.FeatureRequest
			source, external, product, status, priority sql.NullString
		)
		if err := rows.Scan(&f.ID, &source, &external, &f.Title, &product, &status, &priority); err != nil {
			return nil, fmt.Errorf("failed to scan feature request: %w", err)
		}
		f.Source, f.ExternalID, f.Product = source.String, external.String, product.String
		f.Status, f.Priority = status.String, priority.String
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpsertLink stores a POC to feature request link. The expansion is not
// written; it is resolved again on read.
func UpsertLink(ctx context.Context, q Querier, l *models.FeatureRequestLink) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO poc_feature_requests (id, poc_id, feature_request_id, importance, is_deal_breaker, customer_impact)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			poc_id = excluded.poc_id,
			feature_request_id = excluded.feature_request_id,
			importance = excluded.importance,
			is_deal_breaker = excluded.is_deal_breaker,
			customer_impact = excluded.customer_impact
	`, l.ID, l.POCID, l.FeatureRequestID, l.Importance, l.IsDealBreaker, l.CustomerImpact)
	if err != nil {
		return fmt.Errorf("failed to upsert link %s: %w", l.ID, err)
	}
	return nil
}

// ListLinks returns every link with FeatureRequest populated when the
// referenced feature request exists and nil otherwise.
func ListLinks(ctx context.Context, q Querier) ([]models.FeatureRequestLink, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT l.id, l.poc_id, l.feature_request_id, l.importance, l.is_deal_breaker, l.customer_impact,
			f.id, f.source, f.external_id, f.title, f.product, f.status, f.priority
		FROM poc_feature_requests l
		LEFT JOIN feature_requests f ON f.id = l.feature_request_id
		ORDER BY l.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var out []models.FeatureRequestLink
	for rows.Next() {
		var (
			l                  models.FeatureRequestLink
			importance, impact sql.NullString
			fid, source, ext   sql.NullString
			title, product     sql.NullString
			status, priority   sql.NullString
		)
		err := rows.Scan(&l.ID, &l.POCID, &l.FeatureRequestID, &importance, &l.IsDealBreaker, &impact,
			&fid, &source, &ext, &title, &product, &status, &priority)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		l.Importance, l.CustomerImpact = importance.String, impact.String
		if fid.Valid {
			l.FeatureRequest = &models.FeatureRequest{
				ID:         fid.String,
				Source:     source.String,
				ExternalID: ext.String,
				Title:      title.String,
				Product:    product.String,
				Status:     status.String,
				Priority:   priority.String,
			}
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
