// Package audit records the outcome of every reservation attempt. Entries carry
// no guest data.
package audit

import (
	"context"
	"errors"
	"time"

	"lynra/internal/domain"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const writeTimeout = 2 * time.Second

type Repository interface {
	Insert(ctx context.Context, entry domain.AuditEntry) (uint, error)
}

// Recorder writes audit entries. Failures are logged and never returned, so the
// audit trail cannot change a reservation response.
type Recorder struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Record(ctx context.Context, entry domain.AuditEntry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}

	// detached from the request so a client disconnect does not drop the entry
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if _, err := r.repo.Insert(writeCtx, entry); err != nil {
		fields := []zap.Field{
			zap.String("traceId", entry.TraceID),
			zap.String("outcome", string(entry.Outcome)),
			zap.Error(err),
		}
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) {
			fields = append(fields, zap.Uint16("mysqlErrorNumber", mysqlErr.Number))
		}
		r.logger.Error("failed to write audit entry", fields...)
	}
}

// Nop is used when the audit trail is disabled.
type Nop struct{}

func (Nop) Record(context.Context, domain.AuditEntry) {}
