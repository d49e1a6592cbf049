package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"raspadinha/database"
	"raspadinha/models"
)

// AuditRepository implements the service.AuditRepository interface
type AuditRepository struct {
	q queryable
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{q: db.Pool}
}

// newAuditRepositoryWithTx creates a new audit repository with a transaction
func newAuditRepositoryWithTx(tx queryable) *AuditRepository {
	return &AuditRepository{q: tx}
}

// Record appends an audit log entry.
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	oldJSON, err := json.Marshal(entry.OldValues)
	if err != nil {
		return fmt.Errorf("failed to marshal audit old values: %w", err)
	}
	newJSON, err := json.Marshal(entry.NewValues)
	if err != nil {
		return fmt.Errorf("failed to marshal audit new values: %w", err)
	}

	query := `
		INSERT INTO audit_log (user_id, action, table_name, record_id, old_values, new_values)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.Action,
		entry.TableName,
		entry.RecordID,
		oldJSON,
		newJSON,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record audit entry %q: %w", entry.Action, err)
	}

	return nil
}
