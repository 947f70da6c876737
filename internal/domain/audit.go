package domain

import "time"

type AuditOutcome string

const (
	AuditCreated       AuditOutcome = "created"
	AuditRejected      AuditOutcome = "rejected"
	AuditRateLimited   AuditOutcome = "rate_limited"
	AuditForbidden     AuditOutcome = "forbidden"
	AuditUpstreamError AuditOutcome = "upstream_error"
)

// AuditEntry records one reservation attempt. It deliberately holds no guest data.
type AuditEntry struct {
	ID             uint
	TraceID        string
	CallerKey      string
	Outcome        AuditOutcome
	Field          string
	UpstreamStatus int
	LatencyMS      int64
	CreatedAt      time.Time
}
