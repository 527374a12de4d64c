package family

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
	individualrepo "tailorstudio/internal/repository/individual"
)

const columns = `id::text, family_name, member_ids::text[], phone, secondary_phone, telegram, colors,
       payment_method, payment, tilef_image_urls, tilef_image_url,
       to_char(delivery_date, 'YYYY-MM-DD'), notes, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, log *logger.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(log).With("repo", "family")}
}

// CreateWithMembers inserts every member tagged as a family member, then the
// family referencing them in submission order.
func (r *postgresRepo) CreateWithMembers(ctx context.Context, f domain.Family, members []domain.Individual) (*domain.Family, []domain.Individual, error) {
	var (
		created *domain.Family
		stored  []domain.Individual
	)
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		stored = make([]domain.Individual, 0, len(members))
		ids := make([]string, 0, len(members))
		for i, m := range members {
			m.ID = ""
			m.IsFamilyMember = true
			saved, err := individualrepo.Insert(ctx, tx, m)
			if err != nil {
				return fmt.Errorf("insert member %d: %w", i, err)
			}
			stored = append(stored, *saved)
			ids = append(ids, saved.ID)
		}
		f.MemberIDs = ids
		fam, err := insertFamily(ctx, tx, f)
		if err != nil {
			return fmt.Errorf("insert family: %w", err)
		}
		created = fam
		return nil
	})
	if err != nil {
		r.logger.Error("create family aborted", "error", err)
		return nil, nil, err
	}
	return created, stored, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return scanFamily(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM families WHERE id = $1`, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Family, error) {
	return r.query(ctx, `SELECT `+columns+` FROM families ORDER BY created_at DESC, id`)
}

// UpdateWithMembers applies a full replacement member list under a lock on
// the family row: existing members are updated in place, new ones inserted,
// and members missing from the list are deleted.
func (r *postgresRepo) UpdateWithMembers(ctx context.Context, f domain.Family, members []MemberWrite) (*domain.Family, []domain.Individual, error) {
	if _, err := uuid.Parse(f.ID); err != nil {
		return nil, nil, domain.ErrNotFound
	}
	var (
		updated *domain.Family
		stored  []domain.Individual
	)
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		previous, err := lockMemberIDs(ctx, tx, f.ID)
		if err != nil {
			return err
		}
		owned := make(map[string]bool, len(previous))
		for _, id := range previous {
			owned[id] = true
		}

		verr := &domain.ValidationError{}
		kept := make(map[string]bool, len(members))
		for i, m := range members {
			if m.New {
				continue
			}
			switch {
			case !owned[m.Individual.ID]:
				verr.Add(fmt.Sprintf("members[%d].id", i), "is not a member of this family")
			case kept[m.Individual.ID]:
				verr.Add(fmt.Sprintf("members[%d].id", i), "appears more than once")
			}
			kept[m.Individual.ID] = true
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		stored = make([]domain.Individual, 0, len(members))
		ids := make([]string, 0, len(members))
		for i, m := range members {
			var saved *domain.Individual
			if m.New {
				m.Individual.ID = ""
				m.Individual.IsFamilyMember = true
				saved, err = individualrepo.Insert(ctx, tx, m.Individual)
			} else {
				saved, err = individualrepo.UpdateRow(ctx, tx, m.Individual)
			}
			if err != nil {
				return fmt.Errorf("write member %d: %w", i, err)
			}
			stored = append(stored, *saved)
			ids = append(ids, saved.ID)
		}

		var removed []string
		for _, id := range previous {
			if !kept[id] {
				removed = append(removed, id)
			}
		}
		if _, err := individualrepo.DeleteByIDs(ctx, tx, removed); err != nil {
			return fmt.Errorf("delete removed members: %w", err)
		}
		if len(removed) > 0 {
			r.logger.Info("removed family members", "familyId", f.ID, "count", len(removed))
		}

		f.MemberIDs = ids
		fam, err := updateFamily(ctx, tx, f)
		if err != nil {
			return fmt.Errorf("update family: %w", err)
		}
		updated = fam
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !domain.IsValidation(err) {
			r.logger.Error("update family aborted", "familyId", f.ID, "error", err)
		}
		return nil, nil, err
	}
	return updated, stored, nil
}

// DeleteWithMembers removes every member and then the family itself.
func (r *postgresRepo) DeleteWithMembers(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		memberIDs, err := lockMemberIDs(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := individualrepo.DeleteByIDs(ctx, tx, memberIDs); err != nil {
			return fmt.Errorf("delete members: %w", err)
		}
		cmd, err := tx.Exec(ctx, `DELETE FROM families WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete family: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *postgresRepo) Search(ctx context.Context, mode domain.SearchMode, query string) ([]domain.Family, error) {
	q := `SELECT ` + columns + ` FROM families WHERE `
	switch mode {
	case domain.SearchByPhone:
		q += `(phone ILIKE $1 OR secondary_phone ILIKE $1)`
	default:
		q += `family_name ILIKE $1`
	}
	q += ` ORDER BY created_at ASC, id`
	return r.query(ctx, q, db.ContainsPattern(query))
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]domain.Family, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("query families", "error", err)
		return nil, err
	}
	defer rows.Close()
	var out []domain.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func lockMemberIDs(ctx context.Context, tx pgx.Tx, id string) ([]string, error) {
	var ids []string
	err := tx.QueryRow(ctx, `SELECT member_ids::text[] FROM families WHERE id = $1 FOR UPDATE`, id).Scan(&ids)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ids, nil
}

func insertFamily(ctx context.Context, q db.Querier, f domain.Family) (*domain.Family, error) {
	docs, err := encodeDocs(f)
	if err != nil {
		return nil, err
	}
	sql := `
INSERT INTO families (
    family_name, member_ids, phone, secondary_phone, telegram, colors, payment_method,
    payment, tilef_image_urls, tilef_image_url, delivery_date, notes
) VALUES ($1, $2::text[]::uuid[], $3, $4, $5, $6, $7, $8, $9, $10, $11::text::date, $12)
RETURNING ` + columns
	return scanFamily(q.QueryRow(ctx, sql,
		f.FamilyName,
		nonNil(f.MemberIDs),
		f.Phone,
		f.SecondaryPhone,
		f.Telegram,
		docs.colors,
		string(f.PaymentMethod),
		docs.payment,
		docs.images,
		f.TilefImageURL,
		f.DeliveryDate,
		f.Notes,
	))
}

func updateFamily(ctx context.Context, q db.Querier, f domain.Family) (*domain.Family, error) {
	docs, err := encodeDocs(f)
	if err != nil {
		return nil, err
	}
	sql := `
UPDATE families
SET family_name = $2,
    member_ids = $3::text[]::uuid[],
    phone = $4,
    secondary_phone = $5,
    telegram = $6,
    colors = $7,
    payment_method = $8,
    payment = $9,
    tilef_image_urls = $10,
    tilef_image_url = $11,
    delivery_date = $12::text::date,
    notes = $13,
    updated_at = now()
WHERE id = $1
RETURNING ` + columns
	return scanFamily(q.QueryRow(ctx, sql,
		f.ID,
		f.FamilyName,
		nonNil(f.MemberIDs),
		f.Phone,
		f.SecondaryPhone,
		f.Telegram,
		docs.colors,
		string(f.PaymentMethod),
		docs.payment,
		docs.images,
		f.TilefImageURL,
		f.DeliveryDate,
		f.Notes,
	))
}

type encodedDocs struct {
	colors  []byte
	images  []byte
	payment interface{}
}

func encodeDocs(f domain.Family) (encodedDocs, error) {
	var out encodedDocs
	var err error
	if out.colors, err = json.Marshal(nonNil(f.Colors)); err != nil {
		return out, fmt.Errorf("encode colors: %w", err)
	}
	if out.images, err = json.Marshal(nonNil(f.TilefImageURLs)); err != nil {
		return out, fmt.Errorf("encode images: %w", err)
	}
	if f.Payment != nil {
		p, err := json.Marshal(f.Payment)
		if err != nil {
			return out, fmt.Errorf("encode payment: %w", err)
		}
		out.payment = p
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanFamily(row pgx.Row) (*domain.Family, error) {
	var (
		f           domain.Family
		method      string
		colorsJSON  []byte
		paymentJSON []byte
		imagesJSON  []byte
	)
	err := row.Scan(
		&f.ID,
		&f.FamilyName,
		&f.MemberIDs,
		&f.Phone,
		&f.SecondaryPhone,
		&f.Telegram,
		&colorsJSON,
		&method,
		&paymentJSON,
		&imagesJSON,
		&f.TilefImageURL,
		&f.DeliveryDate,
		&f.Notes,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	f.PaymentMethod = domain.PaymentMethod(method)
	if len(colorsJSON) > 0 {
		if err := json.Unmarshal(colorsJSON, &f.Colors); err != nil {
			return nil, fmt.Errorf("decode colors id=%s: %w", f.ID, err)
		}
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &f.TilefImageURLs); err != nil {
			return nil, fmt.Errorf("decode images id=%s: %w", f.ID, err)
		}
	}
	if len(paymentJSON) > 0 {
		f.Payment = &domain.Payment{}
		if err := json.Unmarshal(paymentJSON, f.Payment); err != nil {
			return nil, fmt.Errorf("decode payment id=%s: %w", f.ID, err)
		}
	}
	if f.MemberIDs == nil {
		f.MemberIDs = []string{}
	}
	return &f, nil
}
