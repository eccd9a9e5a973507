package prescription

import (
	"context"

	"github.com/his/his/internal/domain/medication"
	"github.com/his/his/internal/domain/patient"
)

type Repository interface {
	// CreateWithLines persists the header and every line as written. Returns
	// ErrDuplicateID when the id is already taken.
	CreateWithLines(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id string) (*Prescription, error)
	// Lock reads the prescription under a row lock held until the
	// surrounding transaction ends, serializing concurrent dispenses of the
	// same prescription. Outside a transaction it behaves like GetByID.
	Lock(ctx context.Context, id string) (*Prescription, error)
	SetStatus(ctx context.Context, id string, status Status) error
	List(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
}

// UnitOfWork runs fn atomically: every store write made through fn's context
// either commits as one outcome or leaves no trace.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Inventory is the slice of the medication store the engine needs. Both
// methods participate in the caller's transaction.
type Inventory interface {
	Lock(ctx context.Context, id string) (*medication.Medication, error)
	AdjustStock(ctx context.Context, id string, delta int) error
}

// PatientDirectory is the slice of the patient store the creation cascade
// needs. Both methods participate in the caller's transaction.
type PatientDirectory interface {
	GetByID(ctx context.Context, id string) (*patient.Patient, error)
	SetStatus(ctx context.Context, id string, status patient.Status) error
}
