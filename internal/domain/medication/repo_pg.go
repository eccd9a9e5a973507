package medication

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/his/his/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cols = `id, name, spec, stock, unit, price, category, created_at, updated_at`

func scan(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Spec, &m.Stock, &m.Unit, &m.Price,
		&m.Category, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medications (id, name, spec, stock, unit, price, category)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.Name, m.Spec, m.Stock, m.Unit, m.Price, m.Category)
	if err != nil {
		return fmt.Errorf("insert medication %s: %w", m.ID, err)
	}
	return nil
}

func (r *repoPG) Upsert(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medications (id, name, spec, stock, unit, price, category)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, spec = EXCLUDED.spec, stock = EXCLUDED.stock,
			unit = EXCLUDED.unit, price = EXCLUDED.price, category = EXCLUDED.category,
			updated_at = NOW()`,
		m.ID, m.Name, m.Spec, m.Stock, m.Unit, m.Price, m.Category)
	if err != nil {
		return fmt.Errorf("upsert medication %s: %w", m.ID, err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Medication, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM medications WHERE id = $1`, id))
}

func (r *repoPG) Lock(ctx context.Context, id string) (*Medication, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM medications WHERE id = $1 FOR UPDATE`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	ct, err := r.conn(ctx).Exec(ctx, `
		UPDATE medications SET name=$2, spec=$3, unit=$4, price=$5, category=$6, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Spec, m.Unit, m.Price, m.Category)
	if err != nil {
		return fmt.Errorf("update medication %s: %w", m.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) AdjustStock(ctx context.Context, id string, delta int) error {
	// The WHERE guard makes the decrement a compare-and-swap: the row lock
	// taken by UPDATE serializes concurrent adjustments, and a result below
	// zero refuses to apply instead of clamping.
	ct, err := r.conn(ctx).Exec(ctx, `
		UPDATE medications SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock of %s by %d: %w", id, delta, err)
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// Guard refused: report whether the row is missing or short.
	var stock int
	err = r.conn(ctx).QueryRow(ctx, `SELECT stock FROM medications WHERE id = $1`, id).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read stock of %s: %w", id, err)
	}
	return &InsufficientStockError{MedicationID: id, Required: -delta, Available: stock}
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medications`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medications: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM medications ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var items []*Medication
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}
