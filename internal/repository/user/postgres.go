package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tailorstudio/internal/db"
	"tailorstudio/internal/domain"
)

const columns = `id::text, username, password_hash, role, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, password_hash, role)
VALUES ($1, $2, $3)
RETURNING ` + columns
	out, err := scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(u.Username), u.PasswordHash, string(u.Role)))
	if err != nil && db.IsUniqueViolation(err) {
		return nil, domain.ErrAlreadyExists
	}
	return out, err
}

func (r *postgresRepo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, password_hash, role)
VALUES ($1, $2, $3)
ON CONFLICT ((lower(username))) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    role = EXCLUDED.role
RETURNING ` + columns
	return scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(u.Username), u.PasswordHash, string(u.Role)))
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `SELECT ` + columns + ` FROM users WHERE lower(username) = lower($1) LIMIT 1`
	return scanUser(r.pool.QueryRow(ctx, q, strings.TrimSpace(username)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `SELECT ` + columns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// Delete removes the user; its sessions go with it via ON DELETE CASCADE.
func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}
