package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned by lookups when no patient has the given id. It is
// distinct from any zero-value record so callers can branch on absence.
var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	SetStatus(ctx context.Context, id string, status Status) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
}
