package models

import "time"

type UserRole string

const (
	UserRoleCustomer          UserRole = "customer"
	UserRoleBuilder           UserRole = "builder"
	UserRoleSalesManager      UserRole = "salesmanager"
	UserRoleLoanCoordinator   UserRole = "loancoordinator"
	UserRoleLoanAdministrator UserRole = "loanadministrator"
	UserRoleConnector         UserRole = "connector"
	UserRoleSuperAdmin        UserRole = "superadmin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Mobile       string
	PasswordHash []byte
	Role         UserRole
	Status       UserStatus
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
