package models

import "time"

// StaffProfile is the staff member master record.
type StaffProfile struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	Designation string   `db:"designation" json:"designation"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
