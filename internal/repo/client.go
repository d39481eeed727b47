package repo

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
)

// Client is the entry point to the relational store. It wraps an ent SQL
// driver and exposes one accessor per table.
type Client struct {
	drv *entsql.Driver

	Submission *SubmissionClient
	User       *UserClient
}

// NewClient creates a Client over an opened ent driver.
func NewClient(drv *entsql.Driver) *Client {
	c := &Client{drv: drv}
	c.Submission = &SubmissionClient{c: c}
	c.User = &UserClient{c: c}
	return c
}

// Migrate creates or updates all tables and indexes.
func (c *Client) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(c.drv)
	if err != nil {
		return fmt.Errorf("repo: create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("repo: migrate: %w", err)
	}
	return nil
}

// DB exposes the underlying pool for health and pool metrics.
func (c *Client) DB() *sql.DB {
	return c.drv.DB()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.drv.DB().PingContext(ctx)
}

func (c *Client) Close() error {
	return c.drv.Close()
}

func (c *Client) builder() *entsql.DialectBuilder {
	return entsql.Dialect(c.drv.Dialect())
}

// withTx runs fn inside a transaction. The transaction is rolled back when fn
// returns an error and committed otherwise.
func (c *Client) withTx(ctx context.Context, fn func(tx dialect.Tx) error) (err error) {
	tx, err := c.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %w", ErrPersistence, err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx: %w", ErrPersistence, err)
	}
	return nil
}

// insert runs an INSERT and returns the generated id. Postgres reports it
// through RETURNING; SQLite through the driver's last insert id.
func (c *Client) insert(ctx context.Context, conn dialect.ExecQuerier, ins *entsql.InsertBuilder) (int, error) {
	if c.drv.Dialect() == dialect.Postgres {
		query, args := ins.Returning("id").Query()
		rows := &entsql.Rows{}
		if err := conn.Query(ctx, query, args, rows); err != nil {
			return 0, err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}
			return 0, sql.ErrNoRows
		}
		var id int
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, rows.Err()
	}

	query, args := ins.Query()
	var res sql.Result
	if err := conn.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// count runs a SELECT COUNT(*) built by the caller.
func count(ctx context.Context, conn dialect.ExecQuerier, sel *entsql.Selector) (int, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := conn.Query(ctx, query, args, rows); err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
