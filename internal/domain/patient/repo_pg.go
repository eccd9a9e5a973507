package patient

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

const cols = `id, name, age, gender, phone, register_time, status, symptoms, diagnosis`

func scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Phone,
		&p.RegisterTime, &p.Status, &p.Symptoms, &p.Diagnosis)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (id, name, age, gender, phone, register_time, status, symptoms, diagnosis)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.Name, p.Age, p.Gender, p.Phone, p.RegisterTime, p.Status, p.Symptoms, p.Diagnosis)
	if err != nil {
		return fmt.Errorf("insert patient %s: %w", p.ID, err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Patient, error) {
	return scan(r.conn(ctx).QueryRow(ctx, `SELECT `+cols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	ct, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET name=$2, age=$3, gender=$4, phone=$5, status=$6, symptoms=$7, diagnosis=$8
		WHERE id = $1`,
		p.ID, p.Name, p.Age, p.Gender, p.Phone, p.Status, p.Symptoms, p.Diagnosis)
	if err != nil {
		return fmt.Errorf("update patient %s: %w", p.ID, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SetStatus(ctx context.Context, id string, status Status) error {
	ct, err := r.conn(ctx).Exec(ctx, `UPDATE patients SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set patient %s status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+cols+` FROM patients ORDER BY register_time DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
