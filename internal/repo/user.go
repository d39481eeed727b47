package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

// User is a registered site account.
type User struct {
	ID                int       `json:"id"`
	FullName          string    `json:"full_name"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	DateOfBirth       string    `json:"date_of_birth"`
	Gender            string    `json:"gender"`
	Address           string    `json:"address"`
	Company           string    `json:"company"`
	AccountType       string    `json:"account_type"`
	Role              string    `json:"role"`
	PasswordHash      string    `json:"-"`
	VerificationToken string    `json:"-"`
	EmailVerified     bool      `json:"email_verified"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

var userColumns = []string{
	"full_name", "username", "email", "phone", "date_of_birth", "gender", "address", "company",
	"account_type", "role", "password_hash", "verification_token", "email_verified", "status", "created_at",
}

func (u *User) values() []any {
	return []any{
		u.FullName, u.Username, u.Email, u.Phone, u.DateOfBirth, u.Gender, u.Address, u.Company,
		u.AccountType, u.Role, u.PasswordHash, u.VerificationToken, u.EmailVerified, u.Status, u.CreatedAt,
	}
}

func scanUser(rows *entsql.Rows) (*User, error) {
	u := &User{}
	err := rows.Scan(
		&u.ID,
		&u.FullName, &u.Username, &u.Email, &u.Phone, &u.DateOfBirth, &u.Gender, &u.Address, &u.Company,
		&u.AccountType, &u.Role, &u.PasswordHash, &u.VerificationToken, &u.EmailVerified, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserClient gives access to the users table.
type UserClient struct {
	c *Client
}

// Create inserts u and returns its id. A taken email or username yields
// ErrDuplicate.
func (uc *UserClient) Create(ctx context.Context, u *User) (int, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	ins := uc.c.builder().Insert(usersTableName).
		Columns(userColumns...).
		Values(u.values()...)

	id, err := uc.c.insert(ctx, uc.c.drv, ins)
	if err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("%w: insert user: %w", ErrPersistence, err)
	}

	u.ID = id
	return id, nil
}

func (uc *UserClient) Get(ctx context.Context, id int) (*User, error) {
	return uc.first(ctx, uc.c.drv, entsql.EQ("id", id))
}

func (uc *UserClient) GetByEmail(ctx context.Context, email string) (*User, error) {
	return uc.first(ctx, uc.c.drv, entsql.EQ("email", email))
}

// EmailTaken reports whether any account uses email.
func (uc *UserClient) EmailTaken(ctx context.Context, email string) (bool, error) {
	return uc.exists(ctx, entsql.EQ("email", email))
}

// UsernameTaken reports whether any account uses username.
func (uc *UserClient) UsernameTaken(ctx context.Context, username string) (bool, error) {
	return uc.exists(ctx, entsql.EQ("username", username))
}

// Verify marks the account holding token as verified and active and clears
// the token so it cannot be reused.
func (uc *UserClient) Verify(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var u *User
	err := uc.c.withTx(ctx, func(tx dialect.Tx) error {
		var err error
		u, err = uc.first(ctx, tx, entsql.EQ("verification_token", token))
		if err != nil {
			return err
		}

		query, args := uc.c.builder().Update(usersTableName).
			Set("email_verified", true).
			Set("status", "active").
			Set("verification_token", "").
			Where(entsql.EQ("id", u.ID)).
			Query()

		var res sql.Result
		if err := tx.Exec(ctx, query, args, &res); err != nil {
			return fmt.Errorf("%w: verify user: %w", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.EmailVerified = true
	u.Status = "active"
	u.VerificationToken = ""
	return u, nil
}

// SetRole changes the role of the account with the given email.
func (uc *UserClient) SetRole(ctx context.Context, email, role string) error {
	query, args := uc.c.builder().Update(usersTableName).
		Set("role", role).
		Where(entsql.EQ("email", email)).
		Query()

	var res sql.Result
	if err := uc.c.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("%w: set role: %w", ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: set role: %w", ErrPersistence, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPasswordHash replaces the stored password hash of account id.
func (uc *UserClient) SetPasswordHash(ctx context.Context, id int, hash string) error {
	query, args := uc.c.builder().Update(usersTableName).
		Set("password_hash", hash).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := uc.c.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("%w: set password hash: %w", ErrPersistence, err)
	}
	return nil
}

// Count returns the number of registered accounts.
func (uc *UserClient) Count(ctx context.Context) (int, error) {
	sel := uc.c.builder().
		Select(entsql.Count("*")).
		From(uc.c.builder().Table(usersTableName))
	n, err := count(ctx, uc.c.drv, sel)
	if err != nil {
		return 0, fmt.Errorf("%w: count users: %w", ErrPersistence, err)
	}
	return n, nil
}

func (uc *UserClient) exists(ctx context.Context, p *entsql.Predicate) (bool, error) {
	sel := uc.c.builder().
		Select(entsql.Count("*")).
		From(uc.c.builder().Table(usersTableName)).
		Where(p)
	n, err := count(ctx, uc.c.drv, sel)
	if err != nil {
		return false, fmt.Errorf("%w: lookup user: %w", ErrPersistence, err)
	}
	return n > 0, nil
}

func (uc *UserClient) first(ctx context.Context, conn dialect.ExecQuerier, p *entsql.Predicate) (*User, error) {
	query, args := uc.c.builder().
		Select(append([]string{"id"}, userColumns...)...).
		From(uc.c.builder().Table(usersTableName)).
		Where(p).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := conn.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: get user: %w", ErrPersistence, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: get user: %w", ErrPersistence, err)
		}
		return nil, ErrNotFound
	}
	u, err := scanUser(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: scan user: %w", ErrPersistence, err)
	}
	return u, nil
}
