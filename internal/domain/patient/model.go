package patient

import "time"

// Status is the patient's position in the visit workflow.
type Status string

const (
	// StatusPending means the patient is registered and waiting for a doctor.
	StatusPending Status = "pending"
	// StatusCompleted means a prescription has been issued for the visit.
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// CanTransitionTo reports whether moving from s to next is allowed. The
// workflow only moves forward: pending -> completed. Setting the same status
// again is a no-op and allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusPending && next == StatusCompleted
}

// Patient maps to the patients table.
type Patient struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Age          int       `db:"age" json:"age"`
	Gender       string    `db:"gender" json:"gender"`
	Phone        string    `db:"phone" json:"phone"`
	RegisterTime time.Time `db:"register_time" json:"registerTime"`
	Status       Status    `db:"status" json:"status"`
	Symptoms     *string   `db:"symptoms" json:"symptoms,omitempty"`
	Diagnosis    *string   `db:"diagnosis" json:"diagnosis,omitempty"`
}
