// ABOUTME: Database schema definitions
// ABOUTME: Creates the POC, user, use case, feature request and import tables
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL,
	display_name TEXT,
	role TEXT,
	region TEXT
);

CREATE INDEX IF NOT EXISTS idx_users_region ON users(region);

CREATE TABLE IF NOT EXISTS manager_se_map (
	manager_id TEXT NOT NULL,
	se_id TEXT NOT NULL,
	PRIMARY KEY (manager_id, se_id)
);

CREATE TABLE IF NOT EXISTS pocs (
	id TEXT PRIMARY KEY,
	poc_uid TEXT,
	name TEXT,
	customer_name TEXT NOT NULL,
	product TEXT,
	se_id TEXT,
	partner TEXT,
	aeb TEXT,
	prep_start_date DATETIME,
	poc_start_date DATETIME,
	poc_end_date_plan DATETIME,
	poc_end_date_actual DATETIME,
	completion_date_auto DATETIME,
	deregistered_at DATETIME,
	risk_status TEXT,
	technical_result TEXT,
	commercial_result TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	is_completed BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_pocs_se ON pocs(se_id);
CREATE INDEX IF NOT EXISTS idx_pocs_product ON pocs(product);

CREATE TABLE IF NOT EXISTS poc_use_cases (
	id TEXT PRIMARY KEY,
	poc_id TEXT NOT NULL,
	use_case_id TEXT,
	state TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	completed_at DATETIME,
	rating INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (poc_id) REFERENCES pocs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_poc_use_cases_poc ON poc_use_cases(poc_id);

CREATE TABLE IF NOT EXISTS feature_requests (
	id TEXT PRIMARY KEY,
	source TEXT,
	external_id TEXT,
	title TEXT NOT NULL,
	product TEXT,
	status TEXT,
	priority TEXT
);

-- feature_request_id is not a foreign key: links whose feature request is
-- missing are kept and dropped at aggregation time.
CREATE TABLE IF NOT EXISTS poc_feature_requests (
	id TEXT PRIMARY KEY,
	poc_id TEXT NOT NULL,
	feature_request_id TEXT NOT NULL,
	importance TEXT,
	is_deal_breaker BOOLEAN NOT NULL DEFAULT 0,
	customer_impact TEXT,
	FOREIGN KEY (poc_id) REFERENCES pocs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_poc_feature_requests_poc ON poc_feature_requests(poc_id);
CREATE INDEX IF NOT EXISTS idx_poc_feature_requests_fr ON poc_feature_requests(feature_request_id);

CREATE TABLE IF NOT EXISTS import_log (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	imported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	pocs INTEGER NOT NULL DEFAULT 0,
	users INTEGER NOT NULL DEFAULT 0,
	use_cases INTEGER NOT NULL DEFAULT 0,
	feature_requests INTEGER NOT NULL DEFAULT 0,
	links INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_import_log_imported_at ON import_log(imported_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
