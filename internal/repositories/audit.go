package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ferrovax/gamedesk/internal/shared"
)

// AuditEntry records one mutation issued through the console.
type AuditEntry struct {
	ID        string
	Action    string // create, update, delete, subscribe, upload, login, logout
	Resource  string // games, tags, users, assets, session
	RecordID  string
	Detail    string
	CreatedAt time.Time
}

// AuditRepository appends and lists [AuditEntry] rows.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new [AuditRepository] with the given database connection
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record appends an entry with a generated ID. Failures here must never
// block the mutation that triggered them; callers log and move on.
func (r *AuditRepository) Record(action, resource, recordID, detail string) error {
	id := shared.GenerateID()

	query := `
		INSERT INTO audit_log (id, action, resource, record_id, detail) VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, action, resource, recordID, detail); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first.
func (r *AuditRepository) Recent(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, action, resource, COALESCE(record_id, ''), COALESCE(detail, ''), created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Resource, &e.RecordID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
