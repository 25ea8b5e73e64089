package models

import (
	"time"

	"github.com/lib/pq"
)

// ODStatus enumerates the lifecycle states of an on-duty request.
type ODStatus string

const (
	ODStatusPending  ODStatus = "pending"
	ODStatusApproved ODStatus = "approved"
	ODStatusRejected ODStatus = "rejected"
)

// ODRequest is a student's on-duty leave request routed to a staff approver.
type ODRequest struct {
	ID              string        `db:"id" json:"id"`
	StudentID       string        `db:"student_id" json:"student_id"`
	RegisterNumber  string        `db:"register_number" json:"register_number"`
	StudentName     string        `db:"student_name" json:"student_name"`
	StaffID         string        `db:"staff_id" json:"staff_id"`
	Department      string        `db:"department" json:"department"`
	Date            time.Time     `db:"date" json:"date"`
	Periods         pq.Int64Array `db:"periods" json:"periods"`
	Reason          string        `db:"reason" json:"reason"`
	AttachmentURL   *string       `db:"attachment_url" json:"attachment_url,omitempty"`
	Status          ODStatus      `db:"status" json:"status"`
	ApprovedByID    *string       `db:"approved_by_id" json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	RejectionReason *string       `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time    `db:"updated_at" json:"updated_at,omitempty"`
}

// Decided reports whether the request has reached a terminal decision.
func (r ODRequest) Decided() bool {
	return r.Status == ODStatusApproved || r.Status == ODStatusRejected
}

// StudentRequestCount pairs a student with their request volume.
type StudentRequestCount struct {
	RegisterNumber string `db:"register_number" json:"register_number"`
	StudentName    string `db:"student_name" json:"student_name"`
	Count          int    `db:"count" json:"count"`
}

// DashboardStats aggregates request volume for the staff dashboard.
type DashboardStats struct {
	TotalRequests      int                   `json:"total_requests"`
	StatusDistribution map[ODStatus]int      `json:"status_distribution"`
	TopStudents        []StudentRequestCount `json:"top_students"`
}
