package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pah-access/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, username, password, role, name, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByCredentials returns the single row matching both fields exactly.
// No match and more than one match both report model.ErrUserNotFound.
func (r *UserRepository) FindByCredentials(ctx context.Context, username string, password string) (model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 AND password = $2 LIMIT 2`,
		username, password)
	if err != nil {
		return model.User{}, fmt.Errorf("find user by credentials: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return model.User{}, fmt.Errorf("scan user: %w", err)
	}
	if len(users) != 1 {
		return model.User{}, model.ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, data model.CreateUserData) (model.User, error) {
	now := time.Now().UTC()
	rows, err := r.pool.Query(ctx,
		`INSERT INTO users (username, password, role, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING `+userColumns,
		data.Username, data.Password, string(data.Role), data.Name, now)
	if err != nil {
		return model.User{}, createError(data.Username, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		return model.User{}, createError(data.Username, err)
	}
	return u, nil
}

func createError(username string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("create user %q: %w", username, model.ErrUserAlreadyExists)
	}
	return fmt.Errorf("create user: %w", err)
}

// UpdateUser sets the password and, unless name is empty, the name in one
// statement.
func (r *UserRepository) UpdateUser(ctx context.Context, username string, password string, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET password = $2, name = COALESCE(NULLIF($3, ''), name), updated_at = $4
		 WHERE username = $1`,
		username, password, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Delete removes the row if present. Deleting a missing username is not an error.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

// Ping touches the users table so the hosted database sees activity.
func (r *UserRepository) Ping(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `SELECT id FROM users LIMIT 1`); err != nil {
		return fmt.Errorf("ping users table: %w", err)
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Password, &role, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	u.Role = model.Role(role)
	return u, err
}
