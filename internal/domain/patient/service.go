package patient

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Register creates a new patient record. RegisterTime is fixed at creation
// and never updated afterwards.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if p.ID == "" {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("age must not be negative")
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.RegisterTime.IsZero() {
		p.RegisterTime = time.Now()
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// UpdateRequest carries a partial patient update. Nil fields are left
// untouched.
type UpdateRequest struct {
	Name      *string `json:"name"`
	Age       *int    `json:"age"`
	Gender    *string `json:"gender"`
	Phone     *string `json:"phone"`
	Status    *Status `json:"status"`
	Symptoms  *string `json:"symptoms"`
	Diagnosis *string `json:"diagnosis"`
}

// Update applies a partial update to an existing patient. Status changes are
// validated against the transition table; the workflow never moves backwards.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
		if !p.Status.CanTransitionTo(*req.Status) {
			return nil, fmt.Errorf("invalid status transition: %s -> %s", p.Status, *req.Status)
		}
		p.Status = *req.Status
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Age != nil {
		if *req.Age < 0 {
			return nil, fmt.Errorf("age must not be negative")
		}
		p.Age = *req.Age
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Symptoms != nil {
		p.Symptoms = req.Symptoms
	}
	if req.Diagnosis != nil {
		p.Diagnosis = req.Diagnosis
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
