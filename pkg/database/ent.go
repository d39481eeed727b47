package database

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/Alijeyrad/founders_backend/config"
)

// NewEntDriver opens the configured database and wraps it in an ent SQL
// driver with the matching dialect.
func NewEntDriver(cfg config.DatabaseConfig) (*entsql.Driver, error) {
	return NewEntDriverFromConfig(FromCentralConfig(cfg))
}

// NewEntDriverFromConfig creates an ent driver from package Config
func NewEntDriverFromConfig(cfg Config) (*entsql.Driver, error) {
	db, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	return entsql.OpenDB(Dialect(cfg), db), nil
}

// Dialect maps the configured driver to an ent dialect name.
func Dialect(cfg Config) string {
	if cfg.isSQLite() {
		return dialect.SQLite
	}
	return dialect.Postgres
}
