package medication

import "time"

// Medication maps to the medications table: one drug catalog entry together
// with its current stock counter. Stock is never negative; every mutation
// goes through the repository's guarded adjustment.
type Medication struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Spec      string    `db:"spec" json:"spec"`
	Stock     int       `db:"stock" json:"stock"`
	Unit      string    `db:"unit" json:"unit"`
	Price     float64   `db:"price" json:"price"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
