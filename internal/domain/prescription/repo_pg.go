package prescription

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

const uniqueViolation = "23505"

func (r *repoPG) CreateWithLines(ctx context.Context, p *Prescription) error {
	conn := r.conn(ctx)

	_, err := conn.Exec(ctx, `
		INSERT INTO prescriptions (id, patient_id, doctor_id, created_at, status)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.PatientID, p.DoctorID, p.CreatedAt, p.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert prescription %s: %w", p.ID, err)
	}

	for i, ln := range p.Lines {
		_, err := conn.Exec(ctx, `
			INSERT INTO prescription_lines (prescription_id, line_no, medication_id, medication_name, dosage, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			p.ID, i+1, ln.MedicationID, ln.MedicationName, ln.Dosage, ln.Quantity)
		if err != nil {
			return fmt.Errorf("insert prescription %s line %d: %w", p.ID, i+1, err)
		}
	}
	return nil
}

func (r *repoPG) scanHeader(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.CreatedAt, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) loadLines(ctx context.Context, id string) ([]Line, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT medication_id, medication_name, dosage, quantity
		FROM prescription_lines WHERE prescription_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("load lines of %s: %w", id, err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.MedicationID, &ln.MedicationName, &ln.Dosage, &ln.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

func (r *repoPG) get(ctx context.Context, id string, lock bool) (*Prescription, error) {
	q := `SELECT id, patient_id, doctor_id, created_at, status FROM prescriptions WHERE id = $1`
	if lock {
		q += ` FOR UPDATE`
	}
	p, err := r.scanHeader(r.conn(ctx).QueryRow(ctx, q, id))
	if err != nil {
		return nil, err
	}
	p.Lines, err = r.loadLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Prescription, error) {
	return r.get(ctx, id, false)
}

// Lock takes the header row lock only. Lines are immutable after creation,
// so reading them without a lock is safe once the header is held.
func (r *repoPG) Lock(ctx context.Context, id string) (*Prescription, error) {
	return r.get(ctx, id, true)
}

func (r *repoPG) SetStatus(ctx context.Context, id string, status Status) error {
	ct, err := r.conn(ctx).Exec(ctx, `UPDATE prescriptions SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set prescription %s status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	conn := r.conn(ctx)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM prescriptions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	rows, err := conn.Query(ctx, `
		SELECT id, patient_id, doctor_id, created_at, status
		FROM prescriptions ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var items []*Prescription
	byID := make(map[string]*Prescription)
	for rows.Next() {
		p, err := r.scanHeader(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(items) == 0 {
		return items, total, nil
	}

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	lineRows, err := conn.Query(ctx, `
		SELECT prescription_id, medication_id, medication_name, dosage, quantity
		FROM prescription_lines WHERE prescription_id = ANY($1) ORDER BY prescription_id, line_no`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("list prescription lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var pid string
		var ln Line
		if err := lineRows.Scan(&pid, &ln.MedicationID, &ln.MedicationName, &ln.Dosage, &ln.Quantity); err != nil {
			return nil, 0, err
		}
		if p, ok := byID[pid]; ok {
			p.Lines = append(p.Lines, ln)
		}
	}
	return items, total, lineRows.Err()
}
