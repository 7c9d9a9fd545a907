package database

import (
	"fmt"
	"time"

	"eduassist/internal/logger"

	_ "github.com/godror/godror"  // registers "godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"

	"go.uber.org/zap"
)

// DriverName maps the configured driver to the database/sql driver name.
func DriverName(driver string) string {
	if driver == "godror" {
		return "godror"
	}
	return "oracle"
}

// NewSQLXDB opens and pings an Oracle database through sqlx.
func NewSQLXDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverName(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Oracle database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Get().Info("Connected to Oracle database", zap.String("driver", DriverName(driver)))
	return db, nil
}
