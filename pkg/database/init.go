package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Alijeyrad/founders_backend/config"
)

// InitializeDatabase creates the application database if it doesn't exist.
// It connects to the default 'postgres' database to create it. SQLite files
// are created on first open, so nothing is done for that driver.
func InitializeDatabase(cfg *config.Config) error {
	dbCfg := FromCentralConfig(cfg.Database)
	if dbCfg.isSQLite() {
		return nil
	}
	if dbCfg.DBName == "" {
		return fmt.Errorf("no database name provided")
	}

	postgresConfig := Config{
		Driver:   DriverPostgres,
		Host:     dbCfg.Host,
		Port:     dbCfg.Port,
		User:     dbCfg.User,
		Password: dbCfg.Password,
		DBName:   "postgres",
		SSLMode:  dbCfg.SSLMode,
	}

	conn, err := openSQLDB(postgresConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer conn.Close()

	if err := createDatabaseIfNotExists(conn, dbCfg.DBName); err != nil {
		return fmt.Errorf("failed to create database %q: %w", dbCfg.DBName, err)
	}

	return nil
}

// createDatabaseIfNotExists creates a database if it doesn't already exist
func createDatabaseIfNotExists(conn *sql.DB, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := conn.QueryRowContext(ctx, query, dbName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		return nil
	}

	createQuery := fmt.Sprintf("CREATE DATABASE %q", dbName)
	if _, err := conn.ExecContext(ctx, createQuery); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}
