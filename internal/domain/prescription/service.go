package prescription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/his/his/internal/domain/medication"
	"github.com/his/his/internal/domain/patient"
)

// Service orchestrates prescription creation and dispensing. Both operations
// run inside a single unit of work spanning the prescription, patient and
// medication stores, so a failure at any point leaves no partial state.
type Service struct {
	uow           UnitOfWork
	prescriptions Repository
	patients      PatientDirectory
	inventory     Inventory
}

func NewService(uow UnitOfWork, prescriptions Repository, patients PatientDirectory, inventory Inventory) *Service {
	return &Service{
		uow:           uow,
		prescriptions: prescriptions,
		patients:      patients,
		inventory:     inventory,
	}
}

// Create persists a prescription header with its lines and cascades the
// referenced patient's status to completed. The cascade is best-effort: a
// patient id that does not resolve is skipped without failing the create,
// since a prescription may reference a patient managed outside this system.
// Stock is not checked here; availability is validated at dispense time.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if p.PatientID == "" {
		return fmt.Errorf("%w: patientId is required", ErrInvalidInput)
	}
	if len(p.Lines) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrInvalidInput)
	}
	for i, ln := range p.Lines {
		if ln.MedicationID == "" {
			return fmt.Errorf("%w: line %d: medicationId is required", ErrInvalidInput, i+1)
		}
		if ln.Quantity <= 0 {
			return fmt.Errorf("%w: line %d: quantity must be positive, got %d", ErrInvalidInput, i+1, ln.Quantity)
		}
	}
	if p.Status == "" {
		p.Status = StatusIssued
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, p.Status)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	return s.uow.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.prescriptions.GetByID(ctx, p.ID); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := s.prescriptions.CreateWithLines(ctx, p); err != nil {
			return err
		}

		pt, err := s.patients.GetByID(ctx, p.PatientID)
		if err != nil {
			if errors.Is(err, patient.ErrNotFound) {
				return nil
			}
			return err
		}
		if pt.Status == patient.StatusCompleted {
			return nil
		}
		return s.patients.SetStatus(ctx, pt.ID, patient.StatusCompleted)
	})
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.List(ctx, limit, offset)
}

// Dispense fulfils a prescription: it decrements stock for every line and
// marks the prescription dispensed, all-or-nothing.
//
// The engine is idempotent. At most one call observes status issued and
// applies the decrements; a retry observes dispensed and returns
// AlreadyDispensed without touching stock. The prescription row lock makes
// this hold under concurrency.
//
// Check-then-apply runs in two phases over row-locked medication rows, taken
// in ascending id order so concurrent dispenses over overlapping line sets
// cannot deadlock and cannot both pass a check against stock neither alone
// exhausts. If any line is short, nothing is decremented and the error names
// the medication with required and available quantities. A medication id
// that no longer resolves is skipped, matching the creation-time soft
// coupling: there is nothing to decrement.
func (s *Service) Dispense(ctx context.Context, id string) (*DispenseResult, error) {
	res := &DispenseResult{PrescriptionID: id}

	err := s.uow.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.prescriptions.Lock(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == StatusDispensed {
			res.AlreadyDispensed = true
			return nil
		}

		// Sum quantities per medication: a prescription may list the same
		// medication on several lines, and the check must cover the total.
		need := make(map[string]int, len(p.Lines))
		for _, ln := range p.Lines {
			need[ln.MedicationID] += ln.Quantity
		}
		ids := make([]string, 0, len(need))
		for mid := range need {
			ids = append(ids, mid)
		}
		sort.Strings(ids)

		// Check phase: lock every medication row and verify stock. No
		// decrement happens until every line has passed.
		type plannedDecrement struct {
			medicationID string
			quantity     int
		}
		var plan []plannedDecrement
		for _, mid := range ids {
			med, err := s.inventory.Lock(ctx, mid)
			if err != nil {
				if errors.Is(err, medication.ErrNotFound) {
					continue
				}
				return err
			}
			qty := need[mid]
			if med.Stock < qty {
				return &medication.InsufficientStockError{
					MedicationID: med.ID,
					Required:     qty,
					Available:    med.Stock,
				}
			}
			plan = append(plan, plannedDecrement{medicationID: med.ID, quantity: qty})
		}

		// Apply phase: every check passed, decrement under the locks still
		// held and advance the status.
		for _, d := range plan {
			if err := s.inventory.AdjustStock(ctx, d.medicationID, -d.quantity); err != nil {
				return err
			}
		}
		return s.prescriptions.SetStatus(ctx, id, StatusDispensed)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
