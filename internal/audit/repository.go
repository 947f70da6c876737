package audit

import (
	"context"
	"database/sql"
	"fmt"

	"lynra/internal/domain"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Insert(ctx context.Context, entry domain.AuditEntry) (uint, error) {
	query := `
		INSERT INTO ReservationAudit (traceId, callerKey, outcome, field, upstreamStatus, latencyMs, createdAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.TraceID, entry.CallerKey, string(entry.Outcome), entry.Field,
		entry.UpstreamStatus, entry.LatencyMS, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(id), nil
}
