package models

import "time"

// AuditEntry is an append-only audit_log row capturing a state transition on
// another record, with the before/after values and the raw trigger payload.
type AuditEntry struct {
	ID        int64          `db:"id"`
	UserID    string         `db:"user_id"`
	Action    string         `db:"action"`
	TableName string         `db:"table_name"`
	RecordID  string         `db:"record_id"`
	OldValues map[string]any `db:"old_values"`
	NewValues map[string]any `db:"new_values"`
	CreatedAt time.Time      `db:"created_at"`
}
