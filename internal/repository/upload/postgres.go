package upload

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tailorstudio/internal/db"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// Add appends urls after any already registered for correlationID.
func (r *postgresRepo) Add(ctx context.Context, correlationID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Serialise concurrent uploads sharing a correlation id so positions stay dense.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, correlationID); err != nil {
			return err
		}
		var next int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM uploads WHERE correlation_id = $1`, correlationID).Scan(&next); err != nil {
			return err
		}
		for i, u := range urls {
			if _, err := tx.Exec(ctx, `
INSERT INTO uploads (correlation_id, url, position)
VALUES ($1, $2, $3)
`, correlationID, u, next+i); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postgresRepo) URLs(ctx context.Context, correlationID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT url
FROM uploads
WHERE correlation_id = $1
ORDER BY position ASC
`, correlationID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *postgresRepo) Release(ctx context.Context, correlationID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM uploads WHERE correlation_id = $1`, correlationID)
	return err
}
