package prescription

import "time"

// Status is the prescription's fulfilment state.
type Status string

const (
	// StatusIssued means the prescription is written but not yet fulfilled.
	StatusIssued Status = "issued"
	// StatusDispensed means inventory has been decremented for every line.
	// A dispensed prescription never changes again.
	StatusDispensed Status = "dispensed"
)

func (s Status) Valid() bool {
	return s == StatusIssued || s == StatusDispensed
}

// CanTransitionTo reports whether moving from s to next is allowed. The only
// real transition is issued -> dispensed; setting the same status again is a
// no-op and allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusIssued && next == StatusDispensed
}

// Prescription maps to the prescriptions table plus its owned lines. Lines
// are ordered and have no lifecycle of their own: they are written once with
// the header and deleted with it.
type Prescription struct {
	ID        string    `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patientId"`
	DoctorID  string    `db:"doctor_id" json:"doctorId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Status    Status    `db:"status" json:"status"`
	Lines     []Line    `json:"medications"`
}

// Line is one medication entry within a prescription. MedicationName is a
// denormalized copy taken at creation time so later catalog renames do not
// rewrite historical prescriptions.
type Line struct {
	MedicationID   string `db:"medication_id" json:"medicationId"`
	MedicationName string `db:"medication_name" json:"name"`
	Dosage         string `db:"dosage" json:"dosage"`
	Quantity       int    `db:"quantity" json:"quantity"`
}

// DispenseResult is the successful outcome of a dispense call.
// AlreadyDispensed distinguishes the idempotent no-op (a retry against an
// already fulfilled prescription) from a fresh dispense; both are success.
type DispenseResult struct {
	PrescriptionID   string `json:"prescriptionId"`
	AlreadyDispensed bool   `json:"alreadyDispensed"`
}
