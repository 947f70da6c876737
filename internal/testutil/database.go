package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/lynra_test?parseTime=true"

// SetupTestDB opens the integration database from LYNRA_TEST_DSN (default: local
// lynra_test) and skips the test when it cannot be reached.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("LYNRA_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	for _, table := range []string{"ReservationAudit"} {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

func SetupTestTables(t *testing.T, db *sql.DB) {
	createReservationAuditTable := `
	CREATE TABLE IF NOT EXISTS ReservationAudit (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		traceId CHAR(36) NOT NULL,
		callerKey VARCHAR(128) NOT NULL,
		outcome VARCHAR(32) NOT NULL,
		field VARCHAR(64) NOT NULL DEFAULT '',
		upstreamStatus INT NOT NULL DEFAULT 0,
		latencyMs BIGINT NOT NULL DEFAULT 0,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_trace (traceId),
		INDEX idx_created (createdAt)
	)`

	if _, err := db.Exec(createReservationAuditTable); err != nil {
		t.Logf("failed to create table ReservationAudit: %v", err)
	}
}
