package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// Store defines the data operations behind the enquiries backend.
type Store interface {
	AddLead(ctx context.Context, lead *enquiry.Lead) error
	GetLead(ctx context.Context, id string) (*enquiry.Lead, error)
	ListLeads(ctx context.Context, filter enquiry.StatusFilter) ([]enquiry.Lead, error)
	UpdateStatus(ctx context.Context, id string, status enquiry.Status) (*enquiry.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*enquiry.Stats, error)
	CountBefore(ctx context.Context, before time.Time) (int64, error)
	PruneBefore(ctx context.Context, before time.Time) (int64, error)
	PurgeAll(ctx context.Context) error
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LoadSnapshot(ctx context.Context, filter enquiry.StatusFilter) (*Snapshot, error)
	AuditLog(ctx context.Context, enquiryID string) ([]AuditEntry, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	insertLead   *sql.Stmt
	getLead      *sql.Stmt
	updateStatus *sql.Stmt
	deleteLead   *sql.Stmt
	insertAudit  *sql.Stmt
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

// Open opens the SQLite file at path, runs pending migrations and wraps
// the connection in a SQLiteStore. The returned close func releases both.
func Open(ctx context.Context, path string) (*SQLiteStore, func() error, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := NewMigrationRunner(db).RunContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	closeFn := func() error {
		store.Close()
		return db.Close()
	}
	return store, closeFn, nil
}

// sqliteDSN turns on foreign keys, appending to any query string the
// caller already put on path.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

const leadColumns = `id, name, email, phone, project, special_enquiry, status, created_at`

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertLead, err = s.db.Prepare(`
		INSERT INTO enquiries (` + leadColumns + `, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getLead, err = s.db.Prepare(`SELECT ` + leadColumns + ` FROM enquiries WHERE id = ?`)
	if err != nil {
		return err
	}

	s.updateStatus, err = s.db.Prepare(`UPDATE enquiries SET status = ?, updated_at = ? WHERE id = ?`)
	if err != nil {
		return err
	}

	s.deleteLead, err = s.db.Prepare(`DELETE FROM enquiries WHERE id = ?`)
	if err != nil {
		return err
	}

	s.insertAudit, err = s.db.Prepare(`
		INSERT INTO audit_log (action, detail, enquiry_id, ts) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (enquiry.Lead, error) {
	var l enquiry.Lead
	var status, createdAt string
	if err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Project,
		&l.SpecialEnquiry, &status, &createdAt,
	); err != nil {
		return enquiry.Lead{}, err
	}
	l.Status = enquiry.Status(status)
	l.CreatedAt, _ = parseTimestamp(createdAt)
	return l, nil
}

// AddLead inserts a new enquiry. ID and CreatedAt are populated when empty
// and a missing status defaults to not_responded.
func (s *SQLiteStore) AddLead(ctx context.Context, lead *enquiry.Lead) error {
	if lead.Status == "" {
		lead.Status = enquiry.StatusNotResponded
	}
	st, err := enquiry.ParseStatus(string(lead.Status))
	if err != nil {
		return err
	}
	lead.Status = st

	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	lead.CreatedAt = lead.CreatedAt.UTC().Truncate(time.Second)

	ts := formatTimestamp(lead.CreatedAt)
	_, err = s.insertLead.ExecContext(ctx,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Project,
		lead.SpecialEnquiry, string(lead.Status), ts, ts,
	)
	if err != nil {
		return fmt.Errorf("insert enquiry: %w", err)
	}

	return nil
}

// GetLead retrieves a single enquiry by ID.
func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*enquiry.Lead, error) {
	l, err := scanLead(s.getLead.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enquiry %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get enquiry: %w", err)
	}
	return &l, nil
}

// ListLeads returns enquiries newest first, restricted to one status unless
// filter is empty or "all".
func (s *SQLiteStore) ListLeads(ctx context.Context, filter enquiry.StatusFilter) ([]enquiry.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM enquiries`
	var args []any
	if !filter.IsAll() {
		query += ` WHERE status = ?`
		args = append(args, string(filter))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query enquiries: %w", err)
	}
	defer rows.Close()

	leads := []enquiry.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enquiry: %w", err)
		}
		leads = append(leads, l)
	}

	return leads, rows.Err()
}

// UpdateStatus moves an enquiry to a new stage and records the change in
// the audit log. Both writes commit together or not at all.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status enquiry.Status) (*enquiry.Lead, error) {
	st, err := enquiry.ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	prev, err := scanLead(tx.StmtContext(ctx, s.getLead).QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enquiry %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get enquiry: %w", err)
	}

	now := formatTimestamp(time.Now())
	if _, err := tx.StmtContext(ctx, s.updateStatus).ExecContext(ctx, string(st), now, id); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	detail := fmt.Sprintf("%s -> %s", prev.Status, st)
	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "status", detail, id, now); err != nil {
		return nil, fmt.Errorf("write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}

	prev.Status = st
	return &prev, nil
}

// DeleteLead removes an enquiry by ID and records the removal in the audit log.
func (s *SQLiteStore) DeleteLead(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.StmtContext(ctx, s.deleteLead).ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete enquiry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("enquiry %s: %w", id, ErrNotFound)
	}

	if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "delete", "", id, formatTimestamp(time.Now())); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// GetStats counts every stored enquiry by status.
func (s *SQLiteStore) GetStats(ctx context.Context) (*enquiry.Stats, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM enquiries GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count enquiries: %w", err)
	}
	defer rows.Close()

	stats := &enquiry.Stats{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.Add(enquiry.Status(status), n)
		stats.Total += n
	}

	return stats, rows.Err()
}

// CountBefore reports how many enquiries PruneBefore would remove.
func (s *SQLiteStore) CountBefore(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM enquiries WHERE created_at < ?", formatTimestamp(before),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count enquiries: %w", err)
	}
	return n, nil
}

// PruneBefore deletes enquiries created before the cutoff.
func (s *SQLiteStore) PruneBefore(ctx context.Context, before time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM enquiries WHERE created_at < ?", formatTimestamp(before))
	if err != nil {
		return 0, fmt.Errorf("prune enquiries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		detail := fmt.Sprintf("%d enquiries before %s", n, formatTimestamp(before))
		if _, err := tx.StmtContext(ctx, s.insertAudit).ExecContext(ctx, "prune", detail, nil, formatTimestamp(time.Now())); err != nil {
			return 0, fmt.Errorf("write audit entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return n, nil
}

// PurgeAll deletes every enquiry, snapshot and audit row.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM audit_log",
		"DELETE FROM snapshots",
		"DELETE FROM enquiries",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// SaveSnapshot replaces the cached collection for the snapshot's filter.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	leads := snap.Leads
	if leads == nil {
		leads = []enquiry.Lead{}
	}
	payload, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	var stats sql.NullString
	if snap.Stats != nil {
		b, err := json.Marshal(snap.Stats)
		if err != nil {
			return fmt.Errorf("encode snapshot stats: %w", err)
		}
		stats = sql.NullString{String: string(b), Valid: true}
	}

	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (status_filter, payload, stats, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(status_filter) DO UPDATE SET
			payload = excluded.payload,
			stats = excluded.stats,
			fetched_at = excluded.fetched_at
	`, snapshotKey(snap.Filter), string(payload), stats, formatTimestamp(snap.FetchedAt))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached collection for filter, or ErrNotFound
// when nothing has been fetched for it yet.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, filter enquiry.StatusFilter) (*Snapshot, error) {
	var payload, fetchedAt string
	var stats sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT payload, stats, fetched_at FROM snapshots WHERE status_filter = ?",
		snapshotKey(filter),
	).Scan(&payload, &stats, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot %s: %w", snapshotKey(filter), ErrNotFound)
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snap := &Snapshot{Filter: filter}
	if err := json.Unmarshal([]byte(payload), &snap.Leads); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if stats.Valid {
		snap.Stats = &enquiry.Stats{}
		if err := json.Unmarshal([]byte(stats.String), snap.Stats); err != nil {
			return nil, fmt.Errorf("decode snapshot stats: %w", err)
		}
	}
	snap.FetchedAt, _ = parseTimestamp(fetchedAt)

	return snap, nil
}

func snapshotKey(f enquiry.StatusFilter) string {
	if f.IsAll() {
		return string(enquiry.StatusAll)
	}
	return string(f)
}

// AuditLog returns the audit entries for one enquiry, oldest first.
func (s *SQLiteStore) AuditLog(ctx context.Context, enquiryID string) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT action, detail, enquiry_id, ts FROM audit_log WHERE enquiry_id = ? ORDER BY id",
		enquiryID,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var id sql.NullString
		var ts string
		if err := rows.Scan(&e.Action, &e.Detail, &id, &ts); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.EnquiryID = id.String
		e.Timestamp, _ = parseTimestamp(ts)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.insertLead, s.getLead, s.updateStatus,
		s.deleteLead, s.insertAudit,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
