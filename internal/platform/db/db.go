package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database wraps DB connectivity.
// Keep connection helpers here and pass *gorm.DB into repositories.
type Database struct {
	DB *gorm.DB
}

// Connect picks the driver from the DSN shape: postgres for connection URLs
// and key=value strings, sqlite for file paths. Sqlite exists for local runs
// and integration tests; production deployments use postgres.
func Connect(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	var (
		db  *gorm.DB
		err error
	)
	if isSQLiteDSN(dsn) {
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("open gorm sqlite: %w", err)
		}
		return &Database{DB: db}, nil
	}

	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isSQLiteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "sqlite://") ||
		strings.HasPrefix(dsn, "file:") ||
		strings.HasSuffix(dsn, ".db") ||
		dsn == ":memory:"
}
