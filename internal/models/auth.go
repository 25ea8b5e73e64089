package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole enumerates account roles. Analytics and report endpoints require
// a staff-grade role.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleStaff     UserRole = "staff"
	RoleAdmin     UserRole = "admin"
	RoleSuperuser UserRole = "superuser"
)

// CanViewAnalytics reports whether the role may access analytics/reports.
func (r UserRole) CanViewAnalytics() bool {
	return r == RoleStaff || r == RoleAdmin || r == RoleSuperuser
}

// User is the authentication account record.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string   `json:"uid"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
