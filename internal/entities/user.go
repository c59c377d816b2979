package entities

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Profile      string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated identity carried in request context.
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
