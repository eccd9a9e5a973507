package medication

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type mockRepo struct {
	items map[string]*Medication
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*Medication)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	if _, ok := m.items[med.ID]; ok {
		return errors.New("duplicate id")
	}
	cp := *med
	m.items[med.ID] = &cp
	return nil
}

func (m *mockRepo) Upsert(_ context.Context, med *Medication) error {
	cp := *med
	m.items[med.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Medication, error) {
	med, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *mockRepo) Lock(ctx context.Context, id string) (*Medication, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	if _, ok := m.items[med.ID]; !ok {
		return ErrNotFound
	}
	cp := *med
	m.items[med.ID] = &cp
	return nil
}

func (m *mockRepo) AdjustStock(_ context.Context, id string, delta int) error {
	med, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	if med.Stock+delta < 0 {
		return &InsufficientStockError{MedicationID: id, Required: -delta, Available: med.Stock}
	}
	med.Stock += delta
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Medication, int, error) {
	var result []*Medication
	for _, med := range m.items {
		cp := *med
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func TestCreateMedication_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name string
		m    *Medication
	}{
		{"missing id", &Medication{Name: "Amoxicillin Capsules"}},
		{"missing name", &Medication{ID: "M001"}},
		{"negative stock", &Medication{ID: "M001", Name: "Amoxicillin Capsules", Stock: -1}},
		{"negative price", &Medication{ID: "M001", Name: "Amoxicillin Capsules", Price: -0.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Create(context.Background(), tc.m); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAdjustStock(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["M002"] = &Medication{ID: "M002", Name: "Ibuprofen Sustained-Release Capsules", Stock: 45}

	med, err := svc.AdjustStock(context.Background(), "M002", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if med.Stock != 95 {
		t.Errorf("expected stock 95, got %d", med.Stock)
	}
}

func TestAdjustStock_ZeroDeltaIsRead(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["M002"] = &Medication{ID: "M002", Name: "Ibuprofen Sustained-Release Capsules", Stock: 45}

	med, err := svc.AdjustStock(context.Background(), "M002", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if med.Stock != 45 {
		t.Errorf("expected stock unchanged at 45, got %d", med.Stock)
	}
}

func TestAdjustStock_RefusesNegativeResult(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["M004"] = &Medication{ID: "M004", Name: "Calcium Gluconate Oral Solution", Stock: 12}

	_, err := svc.AdjustStock(context.Background(), "M004", -20)
	var short *InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if short.Required != 20 || short.Available != 12 {
		t.Errorf("wrong shortage details: %+v", short)
	}
	if repo.items["M004"].Stock != 12 {
		t.Errorf("stock changed on refused adjustment: %d", repo.items["M004"].Stock)
	}
}

func TestAdjustStock_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.AdjustStock(context.Background(), "M404", 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImportCatalog(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	data, err := GenerateCatalog([]*Medication{
		{ID: "M001", Name: "Amoxicillin Capsules", Spec: "0.25g*24", Unit: "box", Price: 15.8, Category: "antibiotic", Stock: 500},
		{ID: "M002", Name: "Ibuprofen Sustained-Release Capsules", Spec: "0.3g*20", Unit: "box", Price: 22.5, Stock: 45},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	n, err := svc.ImportCatalog(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported rows, got %d", n)
	}
	if got := repo.items["M001"]; got == nil || got.Stock != 500 || got.Price != 15.8 {
		t.Errorf("M001 not imported correctly: %+v", got)
	}
}

func TestImportCatalog_OverwritesExisting(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["M001"] = &Medication{ID: "M001", Name: "Amoxicillin Capsules", Stock: 10}

	data, err := GenerateCatalog([]*Medication{
		{ID: "M001", Name: "Amoxicillin Capsules", Stock: 500},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ImportCatalog(context.Background(), bytes.NewReader(data)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if repo.items["M001"].Stock != 500 {
		t.Errorf("expected upsert to overwrite stock, got %d", repo.items["M001"].Stock)
	}
}

func TestImportCatalog_RejectsRowWithoutID(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	data, err := GenerateCatalog([]*Medication{
		{ID: "", Name: "Unnamed", Stock: 5},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ImportCatalog(context.Background(), bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for row without id")
	}
	if len(repo.items) != 0 {
		t.Error("bad import must not persist rows")
	}
}

func TestExportCatalog(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["M003"] = &Medication{ID: "M003", Name: "Lianhua Qingwen Capsules", Stock: 150}

	data, err := svc.ExportCatalog(context.Background())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	items, err := ParseCatalog(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse exported file: %v", err)
	}
	if len(items) != 1 || items[0].ID != "M003" || items[0].Stock != 150 {
		t.Errorf("export round trip mismatch: %+v", items)
	}
}
