package individual

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tailorstudio/internal/db"
	"tailorstudio/internal/domain"
	"tailorstudio/internal/logger"
)

const columns = `id::text, is_family_member, first_name, last_name, sex, age, phone, secondary_phone,
       telegram, instagram, cloth_details, payment, COALESCE(to_char(delivery_date, 'YYYY-MM-DD'), ''),
       notes, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log).With("repo", "individual")}
}

func (r *postgresRepo) Create(ctx context.Context, in domain.Individual) (*domain.Individual, error) {
	return Insert(ctx, r.pool, in)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Individual, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	q := `SELECT ` + columns + ` FROM individuals WHERE id = $1`
	return scanIndividual(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetMany(ctx context.Context, ids []string) ([]domain.Individual, error) {
	return SelectByIDs(ctx, r.pool, ids)
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Individual, error) {
	q := `SELECT ` + columns + ` FROM individuals`
	if !filter.IncludeMembers {
		q += ` WHERE is_family_member = FALSE`
	}
	q += ` ORDER BY created_at DESC, id`
	return r.query(ctx, q)
}

func (r *postgresRepo) Update(ctx context.Context, in domain.Individual) (*domain.Individual, error) {
	return UpdateRow(ctx, r.pool, in)
}

// Delete removes the Individual and, if it belonged to a family, drops it
// from that family's member list in the same transaction.
func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		n, err := DeleteByIDs(ctx, tx, []string{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		cmd, err := tx.Exec(ctx, `
UPDATE families
SET member_ids = array_remove(member_ids, $1::uuid),
    updated_at = now()
WHERE member_ids @> ARRAY[$1::uuid]
`, id)
		if err != nil {
			return fmt.Errorf("detach member: %w", err)
		}
		if cmd.RowsAffected() > 0 {
			r.logger.Info("detached deleted member from family", "individualId", id)
		}
		return nil
	})
}

func (r *postgresRepo) Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Individual, error) {
	pattern := db.ContainsPattern(query)
	q := `SELECT ` + columns + ` FROM individuals WHERE `
	switch mode {
	case domain.SearchByPhone:
		q += `(phone ILIKE $1 OR secondary_phone ILIKE $1)`
	default:
		q += `first_name ILIKE $1`
	}
	q += ` ORDER BY created_at ASC, id`
	return r.query(ctx, q, pattern)
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]domain.Individual, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("query individuals", "error", err)
		return nil, err
	}
	return collect(rows)
}

// Insert writes a new Individual using q, which may be a pool or a
// transaction. The returned copy carries the assigned id and timestamps.
func Insert(ctx context.Context, q db.Querier, in domain.Individual) (*domain.Individual, error) {
	clothJSON, paymentJSON, err := encodeDocs(in)
	if err != nil {
		return nil, err
	}
	sql := `
INSERT INTO individuals (
    is_family_member, first_name, last_name, sex, age, phone, secondary_phone,
    telegram, instagram, cloth_details, payment, delivery_date, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, '')::date, $13)
RETURNING ` + columns
	return scanIndividual(q.QueryRow(ctx, sql,
		in.IsFamilyMember,
		in.FirstName,
		in.LastName,
		string(in.Sex),
		in.Age,
		in.Phone,
		in.SecondaryPhone,
		in.Telegram,
		in.Instagram,
		clothJSON,
		paymentJSON,
		in.DeliveryDate,
		in.Notes,
	))
}

// UpdateRow replaces every mutable field of an existing Individual.
// IsFamilyMember is preserved; ownership only changes through family flows.
func UpdateRow(ctx context.Context, q db.Querier, in domain.Individual) (*domain.Individual, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return nil, domain.ErrNotFound
	}
	clothJSON, paymentJSON, err := encodeDocs(in)
	if err != nil {
		return nil, err
	}
	sql := `
UPDATE individuals
SET first_name = $2,
    last_name = $3,
    sex = $4,
    age = $5,
    phone = $6,
    secondary_phone = $7,
    telegram = $8,
    instagram = $9,
    cloth_details = $10,
    payment = $11,
    delivery_date = NULLIF($12, '')::date,
    notes = $13,
    updated_at = now()
WHERE id = $1
RETURNING ` + columns
	return scanIndividual(q.QueryRow(ctx, sql,
		in.ID,
		in.FirstName,
		in.LastName,
		string(in.Sex),
		in.Age,
		in.Phone,
		in.SecondaryPhone,
		in.Telegram,
		in.Instagram,
		clothJSON,
		paymentJSON,
		in.DeliveryDate,
		in.Notes,
	))
}

// SelectByIDs loads the given Individuals. Missing ids are skipped; the
// caller decides ordering.
func SelectByIDs(ctx context.Context, q db.Querier, ids []string) ([]domain.Individual, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx, `SELECT `+columns+` FROM individuals WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// DeleteByIDs hard-deletes the given Individuals and reports how many rows went.
func DeleteByIDs(ctx context.Context, q db.Querier, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := q.Exec(ctx, `DELETE FROM individuals WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func encodeDocs(in domain.Individual) ([]byte, interface{}, error) {
	clothJSON, err := json.Marshal(in.ClothDetails)
	if err != nil {
		return nil, nil, fmt.Errorf("encode cloth details: %w", err)
	}
	if in.Payment == nil {
		return clothJSON, nil, nil
	}
	paymentJSON, err := json.Marshal(in.Payment)
	if err != nil {
		return nil, nil, fmt.Errorf("encode payment: %w", err)
	}
	return clothJSON, paymentJSON, nil
}

func collect(rows pgx.Rows) ([]domain.Individual, error) {
	defer rows.Close()
	var out []domain.Individual
	for rows.Next() {
		item, err := scanIndividual(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanIndividual(row pgx.Row) (*domain.Individual, error) {
	var (
		in          domain.Individual
		sex         string
		clothJSON   []byte
		paymentJSON []byte
	)
	err := row.Scan(
		&in.ID,
		&in.IsFamilyMember,
		&in.FirstName,
		&in.LastName,
		&sex,
		&in.Age,
		&in.Phone,
		&in.SecondaryPhone,
		&in.Telegram,
		&in.Instagram,
		&clothJSON,
		&paymentJSON,
		&in.DeliveryDate,
		&in.Notes,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	in.Sex = domain.Sex(sex)
	if len(clothJSON) > 0 {
		if err := json.Unmarshal(clothJSON, &in.ClothDetails); err != nil {
			return nil, fmt.Errorf("decode cloth details id=%s: %w", in.ID, err)
		}
	}
	if len(paymentJSON) > 0 {
		in.Payment = &domain.Payment{}
		if err := json.Unmarshal(paymentJSON, in.Payment); err != nil {
			return nil, fmt.Errorf("decode payment id=%s: %w", in.ID, err)
		}
	}
	return &in, nil
}
