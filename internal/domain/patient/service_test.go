package patient

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	items map[string]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[string]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if _, ok := m.items[p.ID]; ok {
		return errors.New("duplicate id")
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.items[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *mockRepo) SetStatus(_ context.Context, id string, status Status) error {
	p, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		cp := *p
		result = append(result, &cp)
	}
	return result, len(result), nil
}

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p := &Patient{ID: "P001", Name: "Zhang San", Age: 34, Gender: "male", Phone: "13800000001"}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusPending {
		t.Errorf("expected default status pending, got %s", p.Status)
	}
	if p.RegisterTime.IsZero() {
		t.Error("expected register time to be set")
	}
	if _, ok := repo.items["P001"]; !ok {
		t.Error("patient not persisted")
	}
}

func TestRegister_KeepsExplicitRegisterTime(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	p := &Patient{ID: "P001", Name: "Zhang San", Age: 34, RegisterTime: at}
	if err := svc.Register(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.RegisterTime.Equal(at) {
		t.Errorf("register time overwritten: %v", p.RegisterTime)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name string
		p    *Patient
	}{
		{"missing id", &Patient{Name: "Zhang San", Age: 30}},
		{"missing name", &Patient{ID: "P001", Age: 30}},
		{"negative age", &Patient{ID: "P001", Name: "Zhang San", Age: -1}},
		{"bad status", &Patient{ID: "P001", Name: "Zhang San", Age: 30, Status: "archived"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Register(context.Background(), tc.p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["P001"] = &Patient{ID: "P001", Name: "Zhang San", Age: 34, Gender: "male", Status: StatusPending}

	updated, err := svc.Update(context.Background(), "P001", &UpdateRequest{
		Symptoms:  strPtr("fever, cough"),
		Diagnosis: strPtr("upper respiratory infection"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Symptoms == nil || *updated.Symptoms != "fever, cough" {
		t.Errorf("symptoms not applied: %v", updated.Symptoms)
	}
	if updated.Name != "Zhang San" || updated.Age != 34 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestUpdate_StatusTransition(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["P001"] = &Patient{ID: "P001", Name: "Zhang San", Status: StatusPending}

	done := StatusCompleted
	updated, err := svc.Update(context.Background(), "P001", &UpdateRequest{Status: &done})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
}

func TestUpdate_RejectsBackwardTransition(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.items["P001"] = &Patient{ID: "P001", Name: "Zhang San", Status: StatusCompleted}

	back := StatusPending
	if _, err := svc.Update(context.Background(), "P001", &UpdateRequest{Status: &back}); err == nil {
		t.Fatal("expected transition error")
	}
	if repo.items["P001"].Status != StatusCompleted {
		t.Error("status changed despite rejected transition")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Update(context.Background(), "P404", &UpdateRequest{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusPending, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusCompleted, StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
