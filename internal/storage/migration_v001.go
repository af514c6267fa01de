package storage

import "database/sql"

// migrateV001 creates the initial schema: enquiries, fetch snapshots and
// the audit log. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		// ── Tables ──────────────────────────────────────────────

		`CREATE TABLE IF NOT EXISTS enquiries (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			email           TEXT NOT NULL DEFAULT '',
			phone           TEXT NOT NULL DEFAULT '',
			project         TEXT NOT NULL DEFAULT '',
			special_enquiry TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT 'not_responded'
				CHECK (status IN ('not_responded', 'contacted', 'interested', 'converted')),
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			status_filter TEXT PRIMARY KEY,
			payload       TEXT NOT NULL,
			stats         TEXT,
			fetched_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_log (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			action     TEXT NOT NULL,
			detail     TEXT NOT NULL DEFAULT '',
			enquiry_id TEXT,
			ts         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// ── Indexes ────────────────────────────────────────────

		`CREATE INDEX IF NOT EXISTS idx_enquiries_created_at ON enquiries(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_enquiries_status     ON enquiries(status)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_ts         ON audit_log(ts)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_enquiry    ON audit_log(enquiry_id)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
