// ABOUTME: Use case completion database operations
// ABOUTME: Tracks per-POC use case state used for lifecycle classification
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sabixx/poc-portal-sub001/models"
)

func UpsertUseCase(ctx context.Context, q Querier, c *models.UseCaseCompletion) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO poc_use_cases (id, poc_id, use_case_id, state, is_active, completed_at, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			poc_id = excluded.poc_id,
			use_case_id = excluded.use_case_id,
			state = excluded.state,
			is_active = excluded.is_active,
			completed_at = excluded.completed_at,
			rating = excluded.rating
	`, c.ID, c.POCID, c.UseCaseID, c.State, c.IsActive, c.CompletedAt, c.Rating)
	if err != nil {
		return fmt.Errorf("failed to upsert use case %s: %w", c.ID, err)
	}
	return nil
}

// ListUseCases returns completions for one POC, or all when pocID is empty.
func ListUseCases(ctx context.Context, q Querier, pocID string) ([]models.UseCaseCompletion, error) {
	query := `SELECT id, poc_id, use_case_id, state, is_active, completed_at, rating FROM poc_use_cases`
	var args []any
	if pocID != "" {
		query += ` WHERE poc_id = ?`
		args = append(args, pocID)
	}
	query += ` ORDER BY rowid`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list use cases: %w", err)
	}
	defer rows.Close()

	var out []models.UseCaseCompletion
	for rows.Next() {
		var (
			c         models.UseCaseCompletion
			useCase   sql.NullString
			completed sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.POCID, &useCase, &c.State, &c.IsActive, &completed, &c.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan use case: %w", err)
		}
		c.UseCaseID = useCase.String
		c.CompletedAt = timePtr(completed)
		out = append(out, c)
	}
	return out, rows.Err()
}
