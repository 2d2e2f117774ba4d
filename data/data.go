// Package data owns the long-lived connections to the canonical store,
// the search index and the cache. Connections are constructed once at
// process startup and shared across requests.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flickfinder/flickfinder/config"
	"github.com/flickfinder/flickfinder/data/search"
)

// Data holds the shared connection objects.
type Data struct {
	DB     *sql.DB
	Search *search.Client
	Redis  *redis.Client

	driver DatabaseDriver
}

// New establishes all configured connections. The database and search
// index are required; Redis is optional and a missing address simply
// disables caching.
func New(ctx context.Context, cfg *config.Data) (*Data, error) {
	if cfg == nil || cfg.Database == nil {
		return nil, fmt.Errorf("data: database configuration is missing")
	}

	driver, err := GetDatabaseDriver(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := driver.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	searchClient, err := search.NewClient(cfg.Search)
	if err != nil {
		db.Close()
		return nil, err
	}

	rc, err := newRedis(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Data{
		DB:     db,
		Search: searchClient,
		Redis:  rc,
		driver: driver,
	}, nil
}

// newRedis connects to Redis when an address is configured. The
// connection is verified with a ping.
func newRedis(ctx context.Context, cfg *config.Redis) (*redis.Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, nil
	}

	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("redis connection error: %w", err)
	}

	return rc, nil
}

// Ping verifies the database connection.
func (d *Data) Ping(ctx context.Context) error {
	return d.driver.Ping(ctx, d.DB)
}

// SearchHealth reports per-engine search health.
func (d *Data) SearchHealth(ctx context.Context) map[search.Engine]error {
	return d.Search.Health(ctx)
}

// Close releases all connections. Errors are collected, not
// short-circuited, so every connection gets a close attempt.
func (d *Data) Close() []error {
	var errs []error

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errs
}
