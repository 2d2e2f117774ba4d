// Package postgres provides the PostgreSQL database driver.
//
// It uses jackc/pgx through the database/sql compatibility layer and
// registers itself automatically when imported:
//
//	import _ "github.com/flickfinder/flickfinder/data/postgres"
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/flickfinder/flickfinder/config"
	"github.com/flickfinder/flickfinder/data"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

// driver implements data.DatabaseDriver for PostgreSQL.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "postgres"
}

// Connect establishes a PostgreSQL connection using the provided
// configuration. The connection is verified with a ping before being
// returned.
func (d *driver) Connect(ctx context.Context, cfg *config.DBNode) (*sql.DB, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("postgres: connection source is empty")
	}

	db, err := sql.Open("pgx", cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open connection: %w", err)
	}

	if cfg.MaxIdleConn > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return db, nil
}

// Ping verifies the PostgreSQL connection is alive and functional.
func (d *driver) Ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
