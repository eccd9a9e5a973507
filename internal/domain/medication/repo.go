package medication

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when no medication has the given id.
var ErrNotFound = errors.New("medication not found")

// ErrInsufficientStock is the sentinel matched by errors.Is for any stock
// shortage. The concrete error is always an *InsufficientStockError carrying
// quantities.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError reports a stock adjustment or dispense check that
// would have driven a medication's stock below zero.
type InsufficientStockError struct {
	MedicationID string
	Required     int
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: required %d, available %d",
		e.MedicationID, e.Required, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	// Upsert inserts the medication or overwrites its descriptive fields and
	// stock. Used by catalog import.
	Upsert(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id string) (*Medication, error)
	// Lock reads the medication under a row lock held until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	Lock(ctx context.Context, id string) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	// AdjustStock atomically applies stock += delta, refusing any result
	// below zero with an *InsufficientStockError. Concurrent adjustments of
	// the same row serialize on the row itself, so a passed guard can never
	// be invalidated by an interleaved writer.
	AdjustStock(ctx context.Context, id string, delta int) error
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
}
