// ABOUTME: User and manager team database operations
// ABOUTME: Stores SEs, managers and the manager to SE mapping
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sabixx/poc-portal-sub001/models"
)

func UpsertUser(ctx context.Context, q Querier, u *models.User) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, role, region)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			role = excluded.role,
			region = excluded.region
	`, u.ID, u.Email, u.DisplayName, u.Role, u.Region)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return nil
}

func ListUsers(ctx context.Context, q Querier) ([]models.User, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, email, display_name, role, region FROM users ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			u                  models.User
			name, role, region sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Email, &name, &role, &region); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.DisplayName, u.Role, u.Region = name.String, role.String, region.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddTeamMember records that seID reports to managerID. Repeats are ignored.
func AddTeamMember(ctx context.Context, q Querier, m models.ManagerSEMap) error {
	_, err := q.ExecContext(ctx, `
		INSERT OR IGNORE INTO manager_se_map (manager_id, se_id) VALUES (?, ?)
	`, m.ManagerID, m.SEID)
	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func ListTeams(ctx context.Context, q Querier) ([]models.ManagerSEMap, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT manager_id, se_id FROM manager_se_map ORDER BY manager_id, se_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.ManagerSEMap
	for rows.Next() {
		var m models.ManagerSEMap
		if err := rows.Scan(&m.ManagerID, &m.SEID); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		teams = append(teams, m)
	}
	return teams, rows.Err()
}
