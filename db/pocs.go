// ABOUTME: POC record database operations
// ABOUTME: Upserts, lookups and listing of POCs in their stored order
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sabixx/poc-portal-sub001/models"
)

const pocColumns = `id, poc_uid, name, customer_name, product, se_id, partner, aeb,
	prep_start_date, poc_start_date, poc_end_date_plan, poc_end_date_actual,
	completion_date_auto, deregistered_at, risk_status, technical_result,
	commercial_result, is_active, is_completed`

// UpsertPOC inserts a POC or replaces the stored one with the same ID.
func UpsertPOC(ctx context.Context, q Querier, p *models.POC) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO pocs (`+pocColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			poc_uid = excluded.poc_uid,
			name = excluded.name,
			customer_name = excluded.customer_name,
			product = excluded.product,
			se_id = excluded.se_id,
			partner = excluded.partner,
			aeb = excluded.aeb,
			prep_start_date = excluded.prep_start_date,
			poc_start_date = excluded.poc_start_date,
			poc_end_date_plan = excluded.poc_end_date_plan,
			poc_end_date_actual = excluded.poc_end_date_actual,
			completion_date_auto = excluded.completion_date_auto,
			deregistered_at = excluded.deregistered_at,
			risk_status = excluded.risk_status,
			technical_result = excluded.technical_result,
			commercial_result = excluded.commercial_result,
			is_active = excluded.is_active,
			is_completed = excluded.is_completed
	`, p.ID, p.UID, p.Name, p.CustomerName, p.Product, p.SEID, p.Partner, p.AEB,
		p.PrepStartDate, p.StartDate, p.EndDatePlan, p.EndDateActual,
		p.CompletionDateAuto, p.DeregisteredAt, p.RiskStatus, p.TechnicalResult,
		p.CommercialResult, p.IsActive, p.IsCompleted)
	if err != nil {
		return fmt.Errorf("failed to upsert poc %s: %w", p.ID, err)
	}
	return nil
}

// GetPOC returns nil when no POC has the ID.
func GetPOC(ctx context.Context, q Querier, id string) (*models.POC, error) {
	row := q.QueryRowContext(ctx, `SELECT `+pocColumns+` FROM pocs WHERE id = ?`, id)
	p, err := scanPOC(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poc: %w", err)
	}
	return p, nil
}

// ListPOCs returns POCs in insertion order. An empty product matches all.
func ListPOCs(ctx context.Context, q Querier, product string, limit int) ([]models.POC, error) {
	query := `SELECT ` + pocColumns + ` FROM pocs`
	var args []any
	if product != "" {
		query += ` WHERE product = ?`
		args = append(args, product)
	}
	query += ` ORDER BY rowid`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pocs: %w", err)
	}
	defer rows.Close()

	var pocs []models.POC
	for rows.Next() {
		p, err := scanPOC(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poc: %w", err)
		}
		pocs = append(pocs, *p)
	}
	return pocs, rows.Err()
}

func DeletePOC(ctx context.Context, q Querier, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM pocs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete poc: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPOC(s scanner) (*models.POC, error) {
	var (
		p                                            models.POC
		uid, name, product, se, partner, aeb         sql.NullString
		risk, technical, commercial                  sql.NullString
		prep, start, endPlan, endActual, auto, dereg sql.NullTime
	)
	err := s.Scan(&p.ID, &uid, &name, &p.CustomerName, &product, &se, &partner, &aeb,
		&prep, &start, &endPlan, &endActual, &auto, &dereg,
		&risk, &technical, &commercial, &p.IsActive, &p.IsCompleted)
	if err != nil {
		return nil, err
	}

	p.UID, p.Name, p.Product = uid.String, name.String, product.String
	p.SEID, p.Partner, p.AEB = se.String, partner.String, aeb.String
	p.RiskStatus, p.TechnicalResult, p.CommercialResult = risk.String, technical.String, commercial.String
	p.PrepStartDate = timePtr(prep)
	p.StartDate = timePtr(start)
	p.EndDatePlan = timePtr(endPlan)
	p.EndDateActual = timePtr(endActual)
	p.CompletionDateAuto = timePtr(auto)
	p.DeregisteredAt = timePtr(dereg)
	return &p, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
