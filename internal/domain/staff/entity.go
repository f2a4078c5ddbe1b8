package staff

import "time"

// Role enum carried in JWT claims.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

// Staff is a restaurant employee. Restaurant and staff lifecycles are
// managed elsewhere; the salary services only read this record.
type Staff struct {
	ID           string
	RestaurantID string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
