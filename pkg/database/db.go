package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func openSQLDB(cfg Config) (*sql.DB, error) {
	driverName := "postgres"
	if cfg.isSQLite() {
		driverName = "sqlite"
	}

	conn, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps an in-memory
	// database alive for the lifetime of the pool.
	if cfg.isSQLite() {
		conn.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			conn.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			conn.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetimeMin > 0 {
			conn.SetConnMaxLifetime(cfg.ConnMaxLifetime())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}
