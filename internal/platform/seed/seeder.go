// Package seed loads a small reference dataset for demo and development
// environments: a doctor, the starting drug catalog, and a few registered
// patients. Seeding is idempotent: tables that already hold data are left
// alone.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/his/his/internal/domain/doctor"
	"github.com/his/his/internal/domain/medication"
	"github.com/his/his/internal/domain/patient"
)

type Seeder struct {
	doctors     doctor.Repository
	medications medication.Repository
	patients    patient.Repository
	logger      zerolog.Logger
}

func NewSeeder(doctors doctor.Repository, medications medication.Repository, patients patient.Repository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		doctors:     doctors,
		medications: medications,
		patients:    patients,
		logger:      logger,
	}
}

// Run seeds every empty table and reports what was loaded.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedDoctors(ctx); err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}
	if err := s.seedMedications(ctx); err != nil {
		return fmt.Errorf("seed medications: %w", err)
	}
	if err := s.seedPatients(ctx); err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	return nil
}

func (s *Seeder) seedDoctors(ctx context.Context) error {
	existing, err := s.doctors.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Debug().Int("count", len(existing)).Msg("doctors already seeded")
		return nil
	}

	docs := []*doctor.Doctor{
		{ID: "DOC001", Name: "Dr. Wang", Department: "Internal Medicine", Title: "Chief Physician"},
	}
	for _, d := range docs {
		if err := s.doctors.Create(ctx, d); err != nil {
			return err
		}
	}
	s.logger.Info().Int("count", len(docs)).Msg("seeded doctors")
	return nil
}

func (s *Seeder) seedMedications(ctx context.Context) error {
	_, total, err := s.medications.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 {
		s.logger.Debug().Int("count", total).Msg("medications already seeded")
		return nil
	}

	meds := []*medication.Medication{
		{ID: "M001", Name: "Amoxicillin Capsules", Spec: "0.25g*24", Stock: 500, Unit: "box", Price: 12.5, Category: "antibiotic"},
		{ID: "M002", Name: "Ibuprofen Sustained-Release Capsules", Spec: "0.3g*10", Stock: 45, Unit: "box", Price: 25.0, Category: "analgesic"},
		{ID: "M003", Name: "Lianhua Qingwen Capsules", Spec: "0.35g*24", Stock: 150, Unit: "box", Price: 18.8, Category: "cold remedy"},
		{ID: "M004", Name: "Calcium Gluconate Oral Solution", Spec: "10ml*10", Stock: 12, Unit: "box", Price: 32.0, Category: "supplement"},
	}
	for _, m := range meds {
		if err := s.medications.Create(ctx, m); err != nil {
			return err
		}
	}
	s.logger.Info().Int("count", len(meds)).Msg("seeded medication catalog")
	return nil
}

func (s *Seeder) seedPatients(ctx context.Context) error {
	_, total, err := s.patients.List(ctx, 1, 0)
	if err != nil {
		return err
	}
	if total > 0 {
		s.logger.Debug().Int("count", total).Msg("patients already seeded")
		return nil
	}

	base := time.Now().Add(-2 * time.Hour)
	pts := []*patient.Patient{
		{ID: "P001", Name: "Zhang San", Age: 35, Gender: "male", Phone: "13800138000", RegisterTime: base, Status: patient.StatusPending},
		{ID: "P002", Name: "Li Si", Age: 28, Gender: "female", Phone: "13900139000", RegisterTime: base.Add(15 * time.Minute), Status: patient.StatusPending},
		{ID: "P003", Name: "Wang Wu", Age: 45, Gender: "male", Phone: "13700137000", RegisterTime: base.Add(30 * time.Minute), Status: patient.StatusPending},
	}
	for _, p := range pts {
		if err := s.patients.Create(ctx, p); err != nil {
			return err
		}
	}
	s.logger.Info().Int("count", len(pts)).Msg("seeded patients")
	return nil
}
