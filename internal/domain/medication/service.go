package medication

import (
	"context"
	"fmt"
	"io"
)

type Service struct {
	medications Repository
}

func NewService(medications Repository) *Service {
	return &Service{medications: medications}
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if m.ID == "" {
		return fmt.Errorf("id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id string) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.medications.List(ctx, limit, offset)
}

func (s *Service) Update(ctx context.Context, m *Medication) error {
	if m.ID == "" {
		return fmt.Errorf("id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.medications.Update(ctx, m)
}

// AdjustStock applies a manual restock or correction. Adjustments that would
// drive stock below zero are refused with an *InsufficientStockError rather
// than clamped, so the caller learns how short the inventory actually is.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (*Medication, error) {
	if delta == 0 {
		return s.medications.GetByID(ctx, id)
	}
	if err := s.medications.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	return s.medications.GetByID(ctx, id)
}

// ImportCatalog reads catalog rows from an xlsx stream and upserts each into
// the store. Returns the number of imported rows; any bad row aborts the
// import with an error naming the row.
func (s *Service) ImportCatalog(ctx context.Context, r io.Reader) (int, error) {
	items, err := ParseCatalog(r)
	if err != nil {
		return 0, err
	}
	for i, m := range items {
		if m.ID == "" || m.Name == "" {
			return 0, fmt.Errorf("catalog row %d: id and name are required", i+2)
		}
		if m.Stock < 0 {
			return 0, fmt.Errorf("catalog row %d: stock must not be negative", i+2)
		}
		if err := s.medications.Upsert(ctx, m); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

// ExportCatalog renders the full catalog as an xlsx file.
func (s *Service) ExportCatalog(ctx context.Context) ([]byte, error) {
	items, _, err := s.medications.List(ctx, exportPageSize, 0)
	if err != nil {
		return nil, err
	}
	return GenerateCatalog(items)
}

const exportPageSize = 10000
