package mysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lynra/internal/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "lynra",
		Password: "p@ss",
		Name:     "lynra_audit",
	})

	assert.Contains(t, dsn, "lynra:p@ss@tcp(db.internal:3307)/lynra_audit")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestNewConnection_Unreachable(t *testing.T) {
	_, err := NewConnection(config.DatabaseConfig{
		Host:            "127.0.0.1",
		Port:            1,
		User:            "nobody",
		Name:            "none",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})

	assert.Error(t, err)
}
