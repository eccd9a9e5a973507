// Package doctor is the read-mostly doctor directory. Prescriptions reference
// doctors by id but the directory has no workflow of its own.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/his/his/internal/platform/db"
)

var ErrNotFound = errors.New("doctor not found")

// Doctor maps to the doctors table.
type Doctor struct {
	ID         string `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Department string `db:"department" json:"department"`
	Title      string `db:"title" json:"title"`
}

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context) ([]*Doctor, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	var err error
	if tx := db.TxFromContext(ctx); tx != nil {
		_, err = tx.Exec(ctx, `INSERT INTO doctors (id, name, department, title) VALUES ($1,$2,$3,$4)`,
			d.ID, d.Name, d.Department, d.Title)
	} else {
		_, err = r.pool.Exec(ctx, `INSERT INTO doctors (id, name, department, title) VALUES ($1,$2,$3,$4)`,
			d.ID, d.Name, d.Department, d.Title)
	}
	if err != nil {
		return fmt.Errorf("insert doctor %s: %w", d.ID, err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Doctor, error) {
	var d Doctor
	err := r.pool.QueryRow(ctx, `SELECT id, name, department, title FROM doctors WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, &d.Department, &d.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor %s: %w", id, err)
	}
	return &d, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, department, title FROM doctors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		var d Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Department, &d.Title); err != nil {
			return nil, err
		}
		items = append(items, &d)
	}
	return items, rows.Err()
}

type Handler struct {
	doctors Repository
}

func NewHandler(doctors Repository) *Handler {
	return &Handler{doctors: doctors}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors", h.ListDoctors)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	items, err := h.doctors.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
